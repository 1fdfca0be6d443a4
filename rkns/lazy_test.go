package rkns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-rkns/store"
)

func newLazyFixture(t *testing.T) *LazySignal {
	t.Helper()
	f, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	arr, err := f.Root().CreateArray("signal", []int32{1000, 2000, 3000}, store.WithShape(3, 1))
	require.NoError(t, err)
	l, err := NewLazySignal(arr, []float64{-1}, []float64{1}, []float64{0}, []float64{3000})
	require.NoError(t, err)
	return l
}

func TestLazySignalTransform(t *testing.T) {
	l := newLazyFixture(t)

	assert.InDelta(t, 2.0/3000, l.Scale()[0], 1e-15)
	assert.InDelta(t, -1500, l.Bias()[0], 1e-9)

	v, err := l.At(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, -1.0/3, v, 1e-7)

	v, err = l.At(2, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-12)

	all, err := l.ReadAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.InDelta(t, 1.0/3, all[1], 1e-7)
}

func TestLazySignalIndex(t *testing.T) {
	l := newLazyFixture(t)

	tests := []struct {
		name  string
		idx   []Index
		shape []int
		n     int
	}{
		{"none", nil, []int{3, 1}, 3},
		{"ellipsis", []Index{All}, []int{3, 1}, 3},
		{"row", []Index{At(1)}, []int{1}, 1},
		{"negative row", []Index{At(-1), At(0)}, nil, 1},
		{"span", []Index{Span{Start: 1, Stop: 3}}, []int{2, 1}, 2},
		{"clamped span", []Index{Span{Start: -2, Stop: 99}, All}, []int{2, 1}, 2},
		{"empty span", []Index{Span{Start: 2, Stop: 1}}, []int{0, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := l.Index(tt.idx...)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, v.Shape)
			assert.Len(t, v.Data, tt.n)
		})
	}

	v, err := l.Index(At(-1), At(0))
	require.NoError(t, err)
	x, ok := v.Scalar()
	require.True(t, ok)
	assert.InDelta(t, 1.0, x, 1e-12)

	_, err = l.Index(At(3))
	assert.ErrorIs(t, err, ErrIndex)
	_, err = l.Index(All, At(1))
	assert.ErrorIs(t, err, ErrIndex)
	_, err = l.Index(All, All, All)
	assert.ErrorIs(t, err, ErrIndex)
}

func TestNewLazySignalErrors(t *testing.T) {
	f, err := store.OpenMemory()
	require.NoError(t, err)
	defer f.Close()

	flat, err := f.Root().CreateArray("flat", []int16{1, 2, 3})
	require.NoError(t, err)
	_, err = NewLazySignal(flat, []float64{0}, []float64{1}, []float64{0}, []float64{1})
	assert.ErrorIs(t, err, ErrValue)

	wide, err := f.Root().CreateArray("wide", []int16{1, 2, 3, 4}, store.WithShape(2, 2))
	require.NoError(t, err)
	_, err = NewLazySignal(wide, []float64{0}, []float64{1}, []float64{0}, []float64{1})
	assert.ErrorIs(t, err, ErrValue)
}
