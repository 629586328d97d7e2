// Package logx is the renderer's leveled logging helper: a plain
// fmt.Printf/fmt.Errorf idiom rather than a logging framework.
package logx

import (
	"fmt"
	"os"
	"time"
)

var debugEnabled = os.Getenv("VOXRT_DEBUG") != ""

func stamp() string {
	return time.Now().Format("15:04:05.000")
}

// Infof prints a tagged informational line, e.g. subsystem startup.
func Infof(tag, format string, args ...any) {
	fmt.Printf("[%s] %s: %s\n", stamp(), tag, fmt.Sprintf(format, args...))
}

// Warnf prints a tagged warning in a "WARNING: ..." style.
func Warnf(tag, format string, args ...any) {
	fmt.Printf("[%s] %s WARNING: %s\n", stamp(), tag, fmt.Sprintf(format, args...))
}

// Errorf prints a tagged error line; it does not itself abort anything.
func Errorf(tag, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[%s] %s ERROR: %s\n", stamp(), tag, fmt.Sprintf(format, args...))
}

// Debugf only prints when VOXRT_DEBUG is set, for the per-frame chatter
// that would otherwise flood stdout (dirty-chunk counts, pass timings).
func Debugf(tag, format string, args ...any) {
	if !debugEnabled {
		return
	}
	fmt.Printf("[%s] %s: %s\n", stamp(), tag, fmt.Sprintf(format, args...))
}
