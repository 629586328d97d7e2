package scheduler

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestHistoryInvalidOnFirstFrame(t *testing.T) {
	fs := NewFrameState()
	fs.Begin()
	if fs.HistoryValid {
		t.Fatal("first frame should have history_valid = false")
	}
}

func TestHistoryValidAfterFirstFrame(t *testing.T) {
	fs := NewFrameState()
	fs.Begin()
	fs.End()
	fs.Begin()
	if !fs.HistoryValid {
		t.Fatal("second frame should have history_valid = true")
	}
}

func TestInvalidateHistoryAppliesToNextBegin(t *testing.T) {
	fs := NewFrameState()
	fs.Begin()
	fs.End()
	fs.Begin()
	fs.End()
	fs.InvalidateHistory()
	fs.Begin()
	if fs.HistoryValid {
		t.Fatal("history_valid should be false the frame after InvalidateHistory")
	}
	fs.End()
	fs.Begin()
	if !fs.HistoryValid {
		t.Fatal("history_valid should recover to true the frame after that")
	}
}

func TestSetCameraTeleportInvalidatesNextBegin(t *testing.T) {
	fs := NewFrameState()
	view := mgl32.Ident4()
	proj := mgl32.Perspective(1, 1.5, 0.1, 100)

	fs.SetCamera(view, proj, mgl32.Vec3{0, 0, 0}, false)
	fs.Begin()
	fs.End()
	fs.Begin()
	if !fs.HistoryValid {
		t.Fatal("history_valid should be true before any teleport")
	}
	fs.End()

	fs.SetCamera(view, proj, mgl32.Vec3{0, 0, 1000}, false)
	fs.Begin()
	if fs.HistoryValid {
		t.Fatal("history_valid should be false the frame after a camera teleport")
	}
	fs.End()
	fs.Begin()
	if !fs.HistoryValid {
		t.Fatal("history_valid should recover to true the frame after that")
	}
}

func TestSetCameraOrdinaryMotionLeavesHistoryValid(t *testing.T) {
	fs := NewFrameState()
	view := mgl32.Ident4()
	proj := mgl32.Perspective(1, 1.5, 0.1, 100)

	fs.SetCamera(view, proj, mgl32.Vec3{0, 0, 0}, false)
	fs.Begin()
	fs.End()
	fs.Begin()
	fs.End()

	fs.SetCamera(view, proj, mgl32.Vec3{0, 0, 1}, false)
	fs.Begin()
	if !fs.HistoryValid {
		t.Fatal("ordinary camera motion should not invalidate history")
	}
}

func TestEndRecordsPrevViewProjection(t *testing.T) {
	fs := NewFrameState()
	view := mgl32.Translate3D(1, 2, 3)
	proj := mgl32.Perspective(1, 1.5, 0.1, 100)
	fs.SetCamera(view, proj, mgl32.Vec3{1, 2, 3}, false)
	fs.End()
	if fs.PrevView != view {
		t.Fatal("prev_view should equal view recorded at End")
	}
	if fs.PrevProjection != proj {
		t.Fatal("prev_projection should equal projection recorded at End")
	}
}

func TestFrameIndexIncrementsOnEnd(t *testing.T) {
	fs := NewFrameState()
	if fs.FrameIndex != 0 {
		t.Fatalf("initial frame_index = %d, want 0", fs.FrameIndex)
	}
	fs.End()
	if fs.FrameIndex != 1 {
		t.Fatalf("frame_index after End = %d, want 1", fs.FrameIndex)
	}
}

func TestInFlightSlotAlternates(t *testing.T) {
	fs := NewFrameState()
	fs.Begin()
	if fs.InFlightSlot != 0 {
		t.Fatalf("slot for frame 0 = %d, want 0", fs.InFlightSlot)
	}
	fs.End()
	fs.Begin()
	if fs.InFlightSlot != 1 {
		t.Fatalf("slot for frame 1 = %d, want 1", fs.InFlightSlot)
	}
	fs.End()
	fs.Begin()
	if fs.InFlightSlot != 0 {
		t.Fatalf("slot for frame 2 = %d, want 0", fs.InFlightSlot)
	}
}

func TestQualitySettingsClamps(t *testing.T) {
	var q QualitySettings
	q.Set(QualityGI, 10)
	if got := q.Level(QualityGI); got != 3 {
		t.Fatalf("level clamped = %d, want 3", got)
	}
	q.Set(QualityGI, -5)
	if got := q.Level(QualityGI); got != 0 {
		t.Fatalf("level clamped = %d, want 0", got)
	}
}
