package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) *File {
	t.Helper()
	f := newTestFile(t)
	root := f.Root()
	require.NoError(t, root.SetAttr("creation_time", 1.0))
	_, err := root.CreateArray("_raw/signal", []byte{1, 2}, WithAttribute("md5", "x"))
	require.NoError(t, err)
	_, err = root.CreateGroup("history", false)
	require.NoError(t, err)
	_, err = root.CreateGroup("rkns/annotations", false)
	require.NoError(t, err)
	fg, err := root.CreateGroup("rkns/signals/fg_1.0", false)
	require.NoError(t, err)
	require.NoError(t, fg.SetAttr("sfreq_Hz", 1.0))
	_, err = fg.CreateArray("signal", []int16{1, 2}, WithShape(2, 1))
	require.NoError(t, err)
	return f
}

func TestWalk(t *testing.T) {
	f := buildTree(t)

	var paths []string
	var arrays []string
	err := Walk(f.Root(), func(p string, obj interface{}, err error) error {
		require.NoError(t, err)
		paths = append(paths, p)
		if arr, ok := obj.(*Array); ok {
			arrays = append(arrays, arr.Path())
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/",
		"/_raw",
		"/_raw/signal",
		"/history",
		"/rkns",
		"/rkns/annotations",
		"/rkns/signals",
		"/rkns/signals/fg_1.0",
		"/rkns/signals/fg_1.0/signal",
	}, paths)
	assert.Equal(t, []string{"/_raw/signal", "/rkns/signals/fg_1.0/signal"}, arrays)
}

func TestWalkSkipGroup(t *testing.T) {
	f := buildTree(t)

	var paths []string
	err := Walk(f.Root(), func(p string, obj interface{}, err error) error {
		paths = append(paths, p)
		if p == "/rkns" {
			return SkipGroup
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/_raw", "/_raw/signal", "/history", "/rkns"}, paths)
}

func TestWalkStop(t *testing.T) {
	f := buildTree(t)

	count := 0
	err := Walk(f.Root(), func(p string, obj interface{}, err error) error {
		count++
		if count == 3 {
			return ErrStopWalk
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.True(t, IsStopWalk(ErrStopWalk))
	assert.False(t, IsStopWalk(ErrNotFound))
}

func TestWalkAttrs(t *testing.T) {
	f := buildTree(t)

	var infos []AttrInfo
	require.NoError(t, f.WalkAttrs(func(info AttrInfo) error {
		infos = append(infos, info)
		return nil
	}))

	require.Len(t, infos, 3)
	assert.Equal(t, "/@creation_time", infos[0].Path)
	assert.Equal(t, "group", infos[0].ObjectType)
	assert.Equal(t, 1.0, infos[0].Value)

	assert.Equal(t, "/_raw/signal@md5", infos[1].Path)
	assert.Equal(t, "array", infos[1].ObjectType)
	assert.Equal(t, "/_raw/signal", infos[1].ObjectPath)
	assert.Equal(t, "md5", infos[1].Name)
	assert.Equal(t, "x", infos[1].Value)
	assert.NoError(t, infos[1].Err)

	assert.Equal(t, "/rkns/signals/fg_1.0@sfreq_Hz", infos[2].Path)
}
