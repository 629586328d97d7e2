package scheduler

import "testing"

func TestTrackPipelineDetectsChange(t *testing.T) {
	c := NewStateCache()
	if !c.TrackPipeline("a") {
		t.Fatal("first TrackPipeline should report a change")
	}
	if c.TrackPipeline("a") {
		t.Fatal("repeating the same pipeline should not report a change")
	}
	if !c.TrackPipeline("b") {
		t.Fatal("a different pipeline should report a change")
	}
}

func TestTrackBindGroupIsPerIndex(t *testing.T) {
	c := NewStateCache()
	if !c.TrackBindGroup(0, "x") {
		t.Fatal("first bind group at index 0 should report a change")
	}
	if !c.TrackBindGroup(1, "x") {
		t.Fatal("same value at a different index should still report a change")
	}
	if c.TrackBindGroup(0, "x") {
		t.Fatal("repeating the same bind group at index 0 should not report a change")
	}
	if !c.TrackBindGroup(0, "y") {
		t.Fatal("a different bind group at index 0 should report a change")
	}
}

func TestResetClearsTrackedState(t *testing.T) {
	c := NewStateCache()
	c.TrackPipeline("a")
	c.TrackBindGroup(0, "x")
	c.Reset()
	if !c.TrackPipeline("a") {
		t.Fatal("after Reset, the same pipeline should report a change again")
	}
	if !c.TrackBindGroup(0, "x") {
		t.Fatal("after Reset, the same bind group should report a change again")
	}
}
