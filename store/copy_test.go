package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopy(t *testing.T) {
	src := buildTree(t)

	dir, err := NewDirectory(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	dst, err := Open(dir, ModeCreate)
	require.NoError(t, err)
	defer dst.Close()

	require.NoError(t, Copy(src.Root(), dst.Root()))

	srcKeys, err := src.Backend().List("")
	require.NoError(t, err)
	dstKeys, err := dst.Backend().List("")
	require.NoError(t, err)
	assert.Equal(t, srcKeys, dstKeys)

	arr, err := dst.OpenArray("/rkns/signals/fg_1.0/signal")
	require.NoError(t, err)
	got, err := arr.ReadInt16()
	require.NoError(t, err)
	assert.Equal(t, []int16{1, 2}, got)

	v, err := dst.GetAttr("/@creation_time")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestCopySubtree(t *testing.T) {
	src := buildTree(t)
	dst := newTestFile(t)

	sub, err := src.OpenGroup("/rkns")
	require.NoError(t, err)
	target, err := dst.Root().CreateGroup("backup/rkns", false)
	require.NoError(t, err)

	require.NoError(t, Copy(sub, target))

	members, err := target.Members()
	require.NoError(t, err)
	assert.Equal(t, []string{"annotations", "signals"}, members)

	_, err = dst.OpenArray("/backup/rkns/signals/fg_1.0/signal")
	require.NoError(t, err)
}

func TestCopyIntoReadOnly(t *testing.T) {
	src := buildTree(t)
	dst := newTestFile(t)
	assert.ErrorIs(t, Copy(src.Root(), dst.Root().ReadOnly()), ErrReadOnly)
}
