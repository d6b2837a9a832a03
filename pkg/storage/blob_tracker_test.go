package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBlobTrackerAcquireOpenRelease(t *testing.T) {
	tracker, err := NewBlobTracker(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	url, err := tracker.Acquire([]byte("image-bytes"), "image/png")
	require.NoError(t, err)
	assert.Contains(t, url, "/blobs/")
	assert.Equal(t, 1, tracker.Len())

	data, contentType, err := tracker.Open(url[len("/blobs/"):])
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
	assert.Equal(t, "image/png", contentType)

	tracker.Release(url)
	assert.Equal(t, 0, tracker.Len())

	_, _, err = tracker.Open(url[len("/blobs/"):])
	assert.Error(t, err)
}

func TestBlobTrackerReleaseAll(t *testing.T) {
	tracker, err := NewBlobTracker(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := tracker.Acquire([]byte{byte(i)}, "image/jpeg")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, tracker.Len())

	tracker.ReleaseAll()
	assert.Equal(t, 0, tracker.Len())
}

func TestBlobTrackerCreatesOwnSubdirectory(t *testing.T) {
	base := t.TempDir()
	tracker, err := NewBlobTracker(filepath.Join(base, "blobs"), zap.NewNop())
	require.NoError(t, err)

	_, err = tracker.Acquire([]byte("image-bytes"), "image/png")
	require.NoError(t, err)

	// Transient blobs stay out of the base directory shared with the store.
	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "blobs", entries[0].Name())
	assert.True(t, entries[0].IsDir())
}

func TestBlobTrackerReleaseUnknownURL(t *testing.T) {
	tracker, err := NewBlobTracker(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	tracker.Release("/blobs/does-not-exist")
	assert.Equal(t, 0, tracker.Len())
}
