package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstMemoization(t *testing.T) {
	b := NewBuilder()

	h1 := b.Const(5)
	h2 := b.Const(5)
	h3 := b.Const(6)

	assert.Equal(t, h1, h2, "equal constants should share a handle")
	assert.NotEqual(t, h1, h3)

	// NaN constants memoize by bit pattern, even though NaN != NaN.
	n1 := b.Const(math.NaN())
	n2 := b.Const(math.NaN())
	assert.Equal(t, n1, n2)
}

func TestHandleOrdering(t *testing.T) {
	b := NewBuilder()

	a := b.Const(1)
	c := b.Const(2)
	sum, err := b.Binary(OpAdd, a, c)
	require.NoError(t, err)
	abs, err := b.Unary(OpAbs, sum)
	require.NoError(t, err)

	// Children are always allocated before their parents, so handles grow
	// strictly from leaves toward the root.
	assert.Less(t, a, sum)
	assert.Less(t, c, sum)
	assert.Less(t, sum, abs)
}

func TestForeignHandleRejected(t *testing.T) {
	b := NewBuilder()
	foreign := Handle(42)

	_, err := b.Unary(OpAbs, foreign)
	require.Error(t, err)
	assert.True(t, IsKind(err, TypeMismatch))

	_, err = b.Binary(OpAdd, b.Const(1), foreign)
	require.Error(t, err)
	assert.True(t, IsKind(err, TypeMismatch))

	_, err = b.Finish(foreign)
	require.Error(t, err)
	assert.True(t, IsKind(err, TypeMismatch))
}

func TestNegativeHandleRejected(t *testing.T) {
	b := NewBuilder()

	_, err := b.Unary(OpFloor, Handle(-1))
	require.Error(t, err)
	assert.True(t, IsKind(err, TypeMismatch))
}

func TestBuilderSealedAfterFinish(t *testing.T) {
	b := NewBuilder()
	h := b.Const(1)

	g, err := b.Finish(h)
	require.NoError(t, err)
	require.NotNil(t, g)

	assert.Panics(t, func() { b.Const(2) }, "a sealed builder must not allocate")
	assert.Panics(t, func() { _, _ = b.Finish(h) })
}

func TestUnaryRejectsParameterizedOps(t *testing.T) {
	b := NewBuilder()
	h := b.Const(0)

	for _, op := range []UnaryOp{OpSignedPow, OpTranslate, OpScale} {
		assert.Panics(t, func() { _, _ = b.Unary(op, h) })
	}
}

func TestClampValidation(t *testing.T) {
	b := NewBuilder()
	h := b.Const(0)

	t.Run("swapped bounds", func(t *testing.T) {
		_, err := b.Clamp(h, 1, -1)
		require.Error(t, err)
		assert.True(t, IsKind(err, InvalidRange))
	})

	t.Run("NaN bound", func(t *testing.T) {
		_, err := b.Clamp(h, math.NaN(), 1)
		require.Error(t, err)
		assert.True(t, IsKind(err, InvalidRange))

		_, err = b.Clamp(h, 0, math.NaN())
		require.Error(t, err)
		assert.True(t, IsKind(err, InvalidRange))
	})

	t.Run("equal bounds are legal", func(t *testing.T) {
		_, err := b.Clamp(h, 0.5, 0.5)
		require.NoError(t, err)
	})
}

func TestSineFieldValidation(t *testing.T) {
	b := NewBuilder()

	_, err := b.SineField(math.Inf(1), 1, 1)
	require.Error(t, err)
	assert.True(t, IsKind(err, InvalidRange))

	_, err = b.SineField(1, math.NaN(), 1)
	require.Error(t, err)
	assert.True(t, IsKind(err, InvalidRange))

	// The amplitude has no finiteness requirement.
	_, err = b.SineField(1, 1, math.Inf(1))
	require.NoError(t, err)
}

func TestOctaves(t *testing.T) {
	t.Run("negative count rejected", func(t *testing.T) {
		b := NewBuilder()
		s := b.SimplexSmooth(1)
		_, err := b.Octaves(s, -1, 0.5, 2)
		require.Error(t, err)
		assert.True(t, IsKind(err, InvalidRange))
	})

	t.Run("zero count is the zero field", func(t *testing.T) {
		b := NewBuilder()
		s := b.SimplexSmooth(1)
		h, err := b.Octaves(s, 0, 0.5, 2)
		require.NoError(t, err)

		g, err := b.Finish(h)
		require.NoError(t, err)
		assert.Equal(t, float32(0), g.EvalRoot(0.3, 0.7))
	})

	t.Run("count one is the child itself", func(t *testing.T) {
		b := NewBuilder()
		s := b.SimplexSmooth(1)
		before := b.store.len()

		h, err := b.Octaves(s, 1, 0.5, 2)
		require.NoError(t, err)
		assert.Equal(t, s, h, "a single octave must reuse the child's handle")
		assert.Equal(t, before, b.store.len(), "a single octave must allocate nothing")
	})

	t.Run("expansion matches the explicit sum", func(t *testing.T) {
		// octaves(s, 3, 0.5, 2) == s + 0.5*scale(s,2,2) + 0.25*scale(s,4,4)
		build := func(expand bool) *Graph {
			b := NewBuilder()
			s := b.SimplexSmooth(7)
			var root Handle
			if expand {
				h, err := b.Octaves(s, 3, 0.5, 2)
				require.NoError(t, err)
				root = h
			} else {
				s2, err := b.Scale(s, 2, 2)
				require.NoError(t, err)
				t2, err := b.Binary(OpMul, b.Const(0.5), s2)
				require.NoError(t, err)
				s4, err := b.Scale(s, 4, 4)
				require.NoError(t, err)
				t3, err := b.Binary(OpMul, b.Const(0.25), s4)
				require.NoError(t, err)
				sum, err := b.Binary(OpAdd, s, t2)
				require.NoError(t, err)
				sum, err = b.Binary(OpAdd, sum, t3)
				require.NoError(t, err)
				root = sum
			}
			g, err := b.Finish(root)
			require.NoError(t, err)
			return g
		}

		expanded := build(true)
		explicit := build(false)
		for _, p := range [][2]float64{{0, 0}, {0.5, 0.25}, {3.25, -1.5}} {
			assert.Equal(t, explicit.EvalRoot(p[0], p[1]), expanded.EvalRoot(p[0], p[1]),
				"expanded and explicit octaves must agree at (%v, %v)", p[0], p[1])
		}
	})
}

func TestFinishProducesImmutableGraph(t *testing.T) {
	b := NewBuilder()
	h := b.Const(3)
	g, err := b.Finish(h)
	require.NoError(t, err)

	assert.Equal(t, h, g.Root())
	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, float32(3), g.EvalRoot(0, 0))
}

func TestBuildErrorKinds(t *testing.T) {
	err := buildErrorf(InvalidRange, "lo %v exceeds hi %v", 2.0, 1.0)
	assert.EqualError(t, err, "invalid range: lo 2 exceeds hi 1")
	assert.True(t, IsKind(err, InvalidRange))
	assert.False(t, IsKind(err, TypeMismatch))
	assert.False(t, IsKind(nil, InvalidRange))
}
