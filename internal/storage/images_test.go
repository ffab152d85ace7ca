package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImages_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewImages(filepath.Join(dir, "nested"))
	require.NoError(t, err)

	path, err := s.Save("Hall.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, URLPrefix))
	assert.True(t, strings.HasSuffix(path, ".png"))

	onDisk := filepath.Join(s.Dir, strings.TrimPrefix(path, URLPrefix))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Remove(path))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// removing twice is fine
	assert.NoError(t, s.Remove(path))
}

func TestImages_RejectsNonImages(t *testing.T) {
	s, err := NewImages(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save("script.sh", strings.NewReader("#!/bin/sh"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestImages_RemoveIgnoresForeignPaths(t *testing.T) {
	dir := t.TempDir()
	s, err := NewImages(dir)
	require.NoError(t, err)
	keep := filepath.Join(dir, "keep.png")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o644))

	assert.NoError(t, s.Remove("/etc/keep.png"))
	_, err = os.Stat(keep)
	assert.NoError(t, err)
}
