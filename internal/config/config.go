// Package config loads the renderer's quality/scene profile from a
// voxrt.toml file: a plain struct round-tripped through BurntSushi/toml,
// a default written out the first time no file exists, one init-time
// reader that never touches the renderer's own environment — the
// renderer itself stays free of environment reads, so VOXRT_SCENE_HINT is
// read by this package on the host's behalf, not by internal/renderer.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Profile is the on-disk quality/scene configuration. Field names mirror
// scheduler.QualityField's eight dimensions plus the scheduler/shadowvol/
// vobjatlas tunables -4 name as per-frame budgets.
type Profile struct {
	QualityRT         int
	QualityShadow     int
	QualityAO         int
	QualityReflection int
	QualityLOD        int
	QualityGI         int
	QualityTAA        int
	QualityDenoise    int

	FramesInFlight        int
	NUploadBudget         int
	ShadowStagingRingSize int
	VobjDirtyBudgetK      int
}

const fileName = "voxrt.toml"

// Default returns the profile shipped when no voxrt.toml exists yet,
// matching the engine's compiled-in constants (scheduler.FramesInFlight,
// shadowvol.RingSlots, vobjatlas.DirtyBudgetPerFrame) so a freshly
// initialized config changes nothing until a user edits it.
func Default() Profile {
	return Profile{
		QualityRT:         3,
		QualityShadow:     2,
		QualityAO:         2,
		QualityReflection: 1,
		QualityLOD:        2,
		QualityGI:         0,
		QualityTAA:        2,
		QualityDenoise:    1,

		FramesInFlight:        2,
		NUploadBudget:         64,
		ShadowStagingRingSize: 3,
		VobjDirtyBudgetK:      8,
	}
}

// Load reads dir/voxrt.toml, writing out Default() first if the file
// doesn't exist yet, so a fresh install always has a profile to load
// without a separate first-run initialization step.
func Load(dir string) (Profile, error) {
	path := filepath.Join(dir, fileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		def := Default()
		if err := Save(dir, def); err != nil {
			return Profile{}, fmt.Errorf("config: initialize %s: %w", path, err)
		}
		return def, nil
	} else if err != nil {
		return Profile{}, fmt.Errorf("config: stat %s: %w", path, err)
	}

	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Profile{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return p, nil
}

// Save writes p to dir/voxrt.toml, creating dir if needed.
func Save(dir string, p Profile) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: create %s: %w", dir, err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(&p); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, fileName), buf.Bytes(), 0o644)
}

// DefaultDir resolves the config directory: $XDG_CONFIG_HOME, falling
// back to $HOME/.config.
func DefaultDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, "voxrt")
}

// SceneHint returns the host-facing VOXRT_SCENE_HINT environment variable
// and whether it was set. cmd/voxrt-demo uses this to pick a demo scene
// size; internal/renderer never calls this, since the renderer reads
// none of its own environment.
func SceneHint() (string, bool) {
	v, ok := os.LookupEnv("VOXRT_SCENE_HINT")
	return v, ok
}
