package scene

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitUpdate(t *testing.T, w *Watcher) Update {
	t.Helper()
	select {
	case u, ok := <-w.updates:
		require.True(t, ok, "updates closed")
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for scene reload")
		return Update{}
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	src, err := os.ReadFile("testdata/spheres.yaml")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, src, 0644))

	w, err := Watch(path, FormatYAML)
	require.NoError(t, err)
	defer w.Close()

	edited := append([]byte{}, src...)
	edited = append(edited, []byte(`
  - surface:
      sphere:
        radius: 3
    material:
      color: [0, 0, 1, 1]
`)...)
	require.NoError(t, os.WriteFile(path, edited, 0644))

	u := waitUpdate(t, w)
	require.NoError(t, u.Err)
	require.Len(t, u.Scene.Objects, 4)
	assert.Equal(t, float32(3), u.Scene.Objects[3].Surface.Sphere.Radius)
}

func TestWatcherReportsInvalidScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validCamera+"objects: []\n"), 0644))

	w, err := Watch(path, FormatYAML)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(validCamera+"objects:\n  - surface: {}\n"), 0644))

	u := waitUpdate(t, w)
	assert.Nil(t, u.Scene)
	assert.ErrorIs(t, u.Err, ErrSchema)
}

func TestWatcherPollAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validCamera+"objects: []\n"), 0644))

	w, err := Watch(path, FormatYAML)
	require.NoError(t, err)

	_, ok := w.Poll()
	assert.False(t, ok)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	assert.Eventually(t, func() bool {
		_, open := <-w.updates
		return !open
	}, 2*time.Second, 10*time.Millisecond)
}
