package noise

import "math"

// Eval samples the node h at (x, y). It is pure: the same handle and
// coordinates always produce the same float32, NaN and Inf included, which
// is what makes concurrent region sampling and result caching safe.
func (g *Graph) Eval(h Handle, x, y float64) float32 {
	return evalNode(g.store, h, x, y)
}

// EvalRoot samples the designated root at (x, y).
func (g *Graph) EvalRoot(x, y float64) float32 {
	return evalNode(g.store, g.root, x, y)
}

func evalNode(s *Store, h Handle, x, y float64) float32 {
	n := s.node(h)
	switch n.Kind {
	case KindConst:
		return n.Value
	case KindSimplexSmooth, KindSimplexFast, KindPerlin:
		return float32(n.field.at(x, y))
	case KindSineField:
		return float32(n.A2 * (math.Sin(n.A0*x) + math.Cos(n.A1*y)))
	case KindUnary:
		return evalUnary(s, n, x, y)
	case KindBinary:
		return evalBinary(s, n, x, y)
	case KindClamp:
		v := evalNode(s, n.Child, x, y)
		// Comparisons with NaN are false, so NaN falls through unclamped.
		if v < float32(n.A0) {
			return float32(n.A0)
		}
		if v > float32(n.A1) {
			return float32(n.A1)
		}
		return v
	default:
		panic("noise: unknown node kind")
	}
}

func evalUnary(s *Store, n *Node, x, y float64) float32 {
	switch n.Un {
	case OpTranslate:
		return evalNode(s, n.Child, x-n.A0, y-n.A1)
	case OpScale:
		return evalNode(s, n.Child, x*n.A0, y*n.A1)
	}

	v := float64(evalNode(s, n.Child, x, y))
	switch n.Un {
	case OpFloor:
		return float32(math.Floor(v))
	case OpCeil:
		return float32(math.Ceil(v))
	case OpAbs:
		return float32(math.Abs(v))
	case OpRemEuclid:
		// Euclidean remainder against 1.0: non-negative in [0, 1) for
		// finite input; Inf and NaN come out as NaN via math.Mod.
		r := math.Mod(v, 1)
		if r < 0 {
			r++
		}
		return float32(r)
	case OpToSignedUnit:
		return float32(2*v - 1)
	case OpToUnsignedUnit:
		return float32((v + 1) / 2)
	case OpSignedPow:
		return float32(math.Copysign(math.Pow(math.Abs(v), n.A0), v))
	default:
		panic("noise: unknown unary op")
	}
}

func evalBinary(s *Store, n *Node, x, y float64) float32 {
	l := evalNode(s, n.Left, x, y)
	r := evalNode(s, n.Right, x, y)
	switch n.Bin {
	case OpAdd:
		return l + r
	case OpSub:
		return l - r
	case OpMul:
		return l * r
	case OpDiv:
		// Division by zero yields +/-Inf or NaN per IEEE-754, never an error.
		return l / r
	case OpPow:
		return float32(math.Pow(float64(l), float64(r)))
	case OpMod:
		return float32(math.Mod(float64(l), float64(r)))
	case OpMin:
		// math.Min propagates NaN, the documented policy for Min/Max.
		return float32(math.Min(float64(l), float64(r)))
	case OpMax:
		return float32(math.Max(float64(l), float64(r)))
	default:
		panic("noise: unknown binary op")
	}
}
