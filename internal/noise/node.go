package noise

// Handle identifies a node within one build generation. Handles are plain
// arena indices: valid for the lifetime of the generation that produced
// them and never reused across generations.
type Handle int32

// Kind discriminates the node variants.
type Kind uint8

const (
	// KindConst is a constant scalar field.
	KindConst Kind = iota
	// KindSimplexSmooth is seeded smooth simplex noise in [-1, 1].
	KindSimplexSmooth
	// KindSimplexFast is seeded fast simplex noise in [-1, 1].
	KindSimplexFast
	// KindPerlin is seeded Perlin noise, roughly [-1, 1].
	KindPerlin
	// KindSineField is amp * (sin(fx*x) + cos(fy*y)).
	KindSineField
	// KindUnary applies a UnaryOp to one child.
	KindUnary
	// KindBinary applies a BinaryOp to two children.
	KindBinary
	// KindClamp clamps one child into [A0, A1].
	KindClamp
)

// UnaryOp enumerates the single-child transforms.
type UnaryOp uint8

const (
	OpFloor UnaryOp = iota
	OpCeil
	OpAbs
	// OpRemEuclid is the Euclidean remainder of the child against 1.0,
	// non-negative in [0, 1) for any finite input.
	OpRemEuclid
	// OpToSignedUnit maps [0,1] to [-1,1] linearly: 2v - 1. No clamping.
	OpToSignedUnit
	// OpToUnsignedUnit maps [-1,1] to [0,1] linearly: (v + 1) / 2. No clamping.
	OpToUnsignedUnit
	// OpSignedPow raises |v| to the exponent in A0 and restores v's sign.
	OpSignedPow
	// OpTranslate evaluates the child at (x - A0, y - A1).
	OpTranslate
	// OpScale evaluates the child at (x * A0, y * A1).
	OpScale
)

// BinaryOp enumerates the two-child arithmetic operators. All of them apply
// the corresponding IEEE-754 float operation to the evaluated children.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	// OpMod is fmod-style: the sign follows the dividend, not Euclidean.
	OpMod
	// OpMin and OpMax propagate NaN: if either operand is NaN the result
	// is NaN, matching IEEE min/max rather than numeric-min semantics.
	OpMin
	OpMax
)

// sampler2 is a prepared 2D coherent-noise source. Primitive nodes build
// their sampler once, at construction time, so evaluation stays pure and
// allocation-free.
type sampler2 interface {
	at(x, y float64) float64
}

// Node is one vertex of the expression DAG. Which fields are meaningful
// depends on Kind:
//
//	KindConst          Value
//	KindSimplex*/Perlin Seed, field
//	KindSineField      A0=freqX, A1=freqY, A2=amp
//	KindUnary          Un, Child; OpSignedPow uses A0=exp,
//	                   OpTranslate/OpScale use A0, A1
//	KindBinary         Bin, Left, Right
//	KindClamp          Child, A0=min, A1=max
type Node struct {
	Kind Kind
	Un   UnaryOp
	Bin  BinaryOp

	Child Handle
	Left  Handle
	Right Handle

	Value      float32
	Seed       int64
	A0, A1, A2 float64

	field sampler2
}

// Graph is a sealed build generation: an immutable node arena plus its
// designated root. Once constructed it is read-only, so any number of
// samplers may evaluate it concurrently without synchronization.
type Graph struct {
	store *Store
	root  Handle
}

// Root returns the designated root handle.
func (g *Graph) Root() Handle {
	return g.root
}

// NodeCount reports the number of nodes in this generation.
func (g *Graph) NodeCount() int {
	return g.store.len()
}
