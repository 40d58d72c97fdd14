package script

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/noisebench/internal/ctxlog"
	"github.com/vk/noisebench/internal/noise"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

// loadString writes the script to a temp file and runs a full build pass.
func loadString(t *testing.T, src string) (*noise.Graph, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0600))
	return NewLoader().Load(testContext(), path)
}

func TestLoadArithmetic(t *testing.T) {
	t.Parallel()

	g, err := loadString(t, `
		result {
			expr = add(mul(2, 3), 1)
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, float32(7), g.EvalRoot(0, 0))
}

func TestLoadNamedAlgos(t *testing.T) {
	t.Parallel()

	g, err := loadString(t, `
		algo "base" {
			expr = const(2)
		}

		algo "scaled" {
			expr = mul(algo.base, 3)
		}

		result {
			expr = sub(algo.scaled, algo.base)
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, float32(4), g.EvalRoot(0.1, 0.9))
}

func TestLoadSharedAlgoIsOneNode(t *testing.T) {
	t.Parallel()

	// Both operands reference the same algo, so the primitive must appear
	// once in the arena: one simplex node plus one add node.
	g, err := loadString(t, `
		algo "s" {
			expr = simplex(1)
		}

		result {
			expr = add(algo.s, algo.s)
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodeCount())
}

func TestLoadLiteralResult(t *testing.T) {
	t.Parallel()

	// A bare number in an algorithm position auto-wraps as a constant.
	g, err := loadString(t, `
		result {
			expr = 0.5
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), g.EvalRoot(0, 0))
}

func TestLoadFullSurface(t *testing.T) {
	t.Parallel()

	// Exercises every construction function once; the build must succeed
	// and produce a finite-sized graph.
	g, err := loadString(t, `
		algo "layers" {
			expr = octaves(simplex(7), 4, 0.5, 2.0)
		}

		algo "warped" {
			expr = translate(scale(algo.layers, 2), 0.5, 0.25)
		}

		algo "mixed" {
			expr = max(min(algo.warped, simplex_fast(3)), perlin(11))
		}

		algo "shaped" {
			expr = signed_pow(to_signed_unit(rem_euclid(algo.mixed)), 1.5)
		}

		algo "detail" {
			expr = mod(pow(abs(algo.shaped), 2), 0.75)
		}

		algo "banded" {
			expr = ceil(floor(mul(algo.detail, 4)))
		}

		result {
			expr = clamp(div(add(sub(algo.banded, 1), to_unsigned_unit(sinefield(1, 2, 0.5))), 2), -1, 1)
		}
	`)
	require.NoError(t, err)
	require.Greater(t, g.NodeCount(), 10)

	v := float64(g.EvalRoot(0.3, 0.7))
	assert.GreaterOrEqual(t, v, -1.0)
	assert.LessOrEqual(t, v, 1.0)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing result block", func(t *testing.T) {
		_, err := loadString(t, `
			algo "orphan" {
				expr = const(1)
			}
		`)
		require.Error(t, err)
		assert.True(t, noise.IsKind(err, noise.MissingResult))
	})

	t.Run("string operand", func(t *testing.T) {
		_, err := loadString(t, `
			result {
				expr = add("hello", 1)
			}
		`)
		require.Error(t, err)
		assert.True(t, noise.IsKind(err, noise.TypeMismatch))
	})

	t.Run("string result", func(t *testing.T) {
		_, err := loadString(t, `
			result {
				expr = "hello"
			}
		`)
		require.Error(t, err)
		assert.True(t, noise.IsKind(err, noise.TypeMismatch))
	})

	t.Run("wrong arity", func(t *testing.T) {
		_, err := loadString(t, `
			result {
				expr = clamp(const(1), 0)
			}
		`)
		require.Error(t, err)
		assert.True(t, noise.IsKind(err, noise.ArityMismatch))
	})

	t.Run("too many arguments", func(t *testing.T) {
		_, err := loadString(t, `
			result {
				expr = abs(const(1), const(2))
			}
		`)
		require.Error(t, err)
		assert.True(t, noise.IsKind(err, noise.ArityMismatch))
	})

	t.Run("swapped clamp bounds", func(t *testing.T) {
		_, err := loadString(t, `
			result {
				expr = clamp(const(0), 2, 1)
			}
		`)
		require.Error(t, err)
		assert.True(t, noise.IsKind(err, noise.InvalidRange))
	})

	t.Run("negative octave count", func(t *testing.T) {
		_, err := loadString(t, `
			result {
				expr = octaves(simplex(1), -2)
			}
		`)
		require.Error(t, err)
		assert.True(t, noise.IsKind(err, noise.InvalidRange))
	})

	t.Run("fractional seed", func(t *testing.T) {
		_, err := loadString(t, `
			result {
				expr = simplex(1.5)
			}
		`)
		require.Error(t, err)
		assert.True(t, noise.IsKind(err, noise.TypeMismatch))
	})

	t.Run("duplicate algo name", func(t *testing.T) {
		_, err := loadString(t, `
			algo "a" {
				expr = const(1)
			}

			algo "a" {
				expr = const(2)
			}

			result {
				expr = algo.a
			}
		`)
		require.Error(t, err)
		assert.True(t, noise.IsKind(err, noise.TypeMismatch))
	})

	t.Run("unknown function", func(t *testing.T) {
		_, err := loadString(t, `
			result {
				expr = warp(const(1))
			}
		`)
		require.Error(t, err)
		// Not part of the build-error taxonomy: the script never reached
		// the construction API.
		var be *noise.BuildError
		assert.NotErrorAs(t, err, &be)
	})

	t.Run("undefined algo reference", func(t *testing.T) {
		_, err := loadString(t, `
			result {
				expr = algo.ghost
			}
		`)
		require.Error(t, err)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := loadString(t, `
			result {
				expr =
		`)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader().Load(testContext(), filepath.Join(t.TempDir(), "nope.hcl"))
		require.Error(t, err)
	})
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	t.Run("translate defaults dy to dx", func(t *testing.T) {
		one, err := loadString(t, `
			result {
				expr = translate(sinefield(), 0.5)
			}
		`)
		require.NoError(t, err)
		two, err := loadString(t, `
			result {
				expr = translate(sinefield(), 0.5, 0.5)
			}
		`)
		require.NoError(t, err)
		assert.Equal(t, two.EvalRoot(0.25, 0.75), one.EvalRoot(0.25, 0.75))
	})

	t.Run("octaves default weights", func(t *testing.T) {
		short, err := loadString(t, `
			result {
				expr = octaves(simplex(9), 3)
			}
		`)
		require.NoError(t, err)
		full, err := loadString(t, `
			result {
				expr = octaves(simplex(9), 3, 0.5, 2.0)
			}
		`)
		require.NoError(t, err)
		assert.Equal(t, full.EvalRoot(0.4, 0.6), short.EvalRoot(0.4, 0.6))
	})
}
