package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultOnFirstRun(t *testing.T) {
	dir := t.TempDir()

	p, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, Default(), p)
	require.FileExists(t, filepath.Join(dir, fileName))
}

func TestLoadReadsBackSavedProfile(t *testing.T) {
	dir := t.TempDir()

	want := Default()
	want.QualityGI = 3
	want.VobjDirtyBudgetK = 16
	require.NoError(t, Save(dir, want))

	got, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSceneHintReportsUnset(t *testing.T) {
	require.NoError(t, os.Unsetenv("VOXRT_SCENE_HINT"))
	_, ok := SceneHint()
	require.False(t, ok)

	t.Setenv("VOXRT_SCENE_HINT", "large")
	v, ok := SceneHint()
	require.True(t, ok)
	require.Equal(t, "large", v)
}
