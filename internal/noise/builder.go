package noise

import "math"

// Builder is the construction API for one build generation. A scripting
// frontend translates its calls into arena nodes, with arity and operand
// types validated at construction time. Calling an operator twice with
// identical operands yields two distinct handles; only Const nodes are
// memoized, as an optimization rather than an observable contract.
//
// A Builder is not safe for concurrent use: builds run on a single
// goroutine (see the manager package).
type Builder struct {
	store    *Store
	finished bool

	// consts memoizes Const handles by bit pattern so that literal-heavy
	// scripts do not balloon the arena. Keyed by bits, not value, so NaN
	// literals memoize too.
	consts map[uint32]Handle
}

// NewBuilder starts a fresh, empty generation.
func NewBuilder() *Builder {
	return &Builder{
		store:  newStore(),
		consts: make(map[uint32]Handle),
	}
}

// checkSealed panics if the builder has already designated a root. Using a
// sealed builder is a programmer error, not a script error.
func (b *Builder) checkSealed() {
	if b.finished {
		panic("noise: builder used after Finish")
	}
}

// checkOperand validates that a handle used in an algorithm position was
// allocated by this generation.
func (b *Builder) checkOperand(h Handle) error {
	if !b.store.contains(h) {
		return buildErrorf(TypeMismatch, "operand handle %d does not resolve in the current generation", h)
	}
	return nil
}

// Const returns a node producing the constant v at every coordinate.
// Non-finite constants are legal; NaN and Inf simply propagate.
func (b *Builder) Const(v float64) Handle {
	b.checkSealed()
	f := float32(v)
	bits := math.Float32bits(f)
	if h, ok := b.consts[bits]; ok {
		return h
	}
	h := b.store.allocate(Node{Kind: KindConst, Value: f})
	b.consts[bits] = h
	return h
}

// SimplexSmooth returns a smooth simplex noise primitive keyed by seed,
// producing values in [-1, 1].
func (b *Builder) SimplexSmooth(seed int64) Handle {
	b.checkSealed()
	return b.store.allocate(Node{
		Kind:  KindSimplexSmooth,
		Seed:  seed,
		field: newSmoothSimplex(seed),
	})
}

// SimplexFast returns a fast simplex noise primitive keyed by seed,
// producing values in [-1, 1].
func (b *Builder) SimplexFast(seed int64) Handle {
	b.checkSealed()
	return b.store.allocate(Node{
		Kind:  KindSimplexFast,
		Seed:  seed,
		field: newFastSimplex(seed),
	})
}

// Perlin returns a Perlin noise primitive keyed by seed.
func (b *Builder) Perlin(seed int64) Handle {
	b.checkSealed()
	return b.store.allocate(Node{
		Kind:  KindPerlin,
		Seed:  seed,
		field: newPerlinField(seed),
	})
}

// SineField returns amp * (sin(freqX*x) + cos(freqY*y)). Frequencies must
// be finite.
func (b *Builder) SineField(freqX, freqY, amp float64) (Handle, error) {
	b.checkSealed()
	if math.IsNaN(freqX) || math.IsInf(freqX, 0) || math.IsNaN(freqY) || math.IsInf(freqY, 0) {
		return 0, buildErrorf(InvalidRange, "sinefield frequencies must be finite, got (%v, %v)", freqX, freqY)
	}
	return b.store.allocate(Node{Kind: KindSineField, A0: freqX, A1: freqY, A2: amp}), nil
}

// Binary combines two sub-expressions with an arithmetic operator. When the
// frontend was handed a bare numeric literal instead of a graph it wraps it
// with Const before calling here.
func (b *Builder) Binary(op BinaryOp, left, right Handle) (Handle, error) {
	b.checkSealed()
	if err := b.checkOperand(left); err != nil {
		return 0, err
	}
	if err := b.checkOperand(right); err != nil {
		return 0, err
	}
	return b.store.allocate(Node{Kind: KindBinary, Bin: op, Left: left, Right: right}), nil
}

// Unary applies a parameterless transform (Floor, Ceil, Abs, RemEuclid,
// ToSignedUnit, ToUnsignedUnit) to a sub-expression. Parameterized ops have
// their own constructors.
func (b *Builder) Unary(op UnaryOp, child Handle) (Handle, error) {
	b.checkSealed()
	switch op {
	case OpSignedPow, OpTranslate, OpScale:
		panic("noise: parameterized op passed to Unary")
	}
	if err := b.checkOperand(child); err != nil {
		return 0, err
	}
	return b.store.allocate(Node{Kind: KindUnary, Un: op, Child: child}), nil
}

// SignedPow raises |child| to exp while preserving the child's sign.
func (b *Builder) SignedPow(child Handle, exp float64) (Handle, error) {
	b.checkSealed()
	if err := b.checkOperand(child); err != nil {
		return 0, err
	}
	return b.store.allocate(Node{Kind: KindUnary, Un: OpSignedPow, Child: child, A0: exp}), nil
}

// Translate shifts the child's coordinate space by (dx, dy): the result at
// (x, y) is the child at (x-dx, y-dy).
func (b *Builder) Translate(child Handle, dx, dy float64) (Handle, error) {
	b.checkSealed()
	if err := b.checkOperand(child); err != nil {
		return 0, err
	}
	return b.store.allocate(Node{Kind: KindUnary, Un: OpTranslate, Child: child, A0: dx, A1: dy}), nil
}

// Scale multiplies the child's input coordinates by (sx, sy), dividing the
// effective wavelength.
func (b *Builder) Scale(child Handle, sx, sy float64) (Handle, error) {
	b.checkSealed()
	if err := b.checkOperand(child); err != nil {
		return 0, err
	}
	return b.store.allocate(Node{Kind: KindUnary, Un: OpScale, Child: child, A0: sx, A1: sy}), nil
}

// Clamp restricts the child's output to [min, max]. Bounds must be finite
// and ordered; min > max is rejected at build time, never silently swapped.
func (b *Builder) Clamp(child Handle, min, max float64) (Handle, error) {
	b.checkSealed()
	if err := b.checkOperand(child); err != nil {
		return 0, err
	}
	if math.IsNaN(min) || math.IsNaN(max) {
		return 0, buildErrorf(InvalidRange, "clamp bounds must not be NaN")
	}
	if min > max {
		return 0, buildErrorf(InvalidRange, "clamp lower bound %v exceeds upper bound %v", min, max)
	}
	return b.store.allocate(Node{Kind: KindClamp, Child: child, A0: min, A1: max}), nil
}

// Octaves builds the summed-and-weighted composition
//
//	sum over i in 0..count of ampScale^i * scale(child, freqScale^i, freqScale^i)
//
// expanded at construction time. The i=0 term is the child itself, so
// octaves(1, *, *) is exactly the child. There is no renormalization of
// total amplitude: callers are expected to prefer ampScale in (0,1] and
// freqScale > 1, but out-of-range values are legal and simply change the
// magnitude and frequency content of the result.
func (b *Builder) Octaves(child Handle, count int, ampScale, freqScale float64) (Handle, error) {
	b.checkSealed()
	if err := b.checkOperand(child); err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, buildErrorf(InvalidRange, "octave count must be non-negative, got %d", count)
	}
	if count == 0 {
		return b.Const(0), nil
	}

	sum := child
	amp, freq := 1.0, 1.0
	for i := 1; i < count; i++ {
		amp *= ampScale
		freq *= freqScale
		scaled, err := b.Scale(child, freq, freq)
		if err != nil {
			return 0, err
		}
		term, err := b.Binary(OpMul, b.Const(amp), scaled)
		if err != nil {
			return 0, err
		}
		sum, err = b.Binary(OpAdd, sum, term)
		if err != nil {
			return 0, err
		}
	}
	return sum, nil
}

// Finish designates the root and seals the generation into an immutable
// Graph. A build pass that never calls Finish leaves an orphaned
// generation behind; the manager simply discards it.
func (b *Builder) Finish(root Handle) (*Graph, error) {
	b.checkSealed()
	if !b.store.contains(root) {
		return nil, buildErrorf(TypeMismatch, "root handle %d does not resolve in the current generation", root)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	b.finished = true
	return &Graph{store: b.store, root: root}, nil
}

// validate re-checks the no-forward-reference invariant across the whole
// arena. The Builder can only produce well-ordered nodes, so a violation
// here means memory corruption or a Builder bug; it is still cheap enough
// to verify once per build.
func (b *Builder) validate() error {
	for i := range b.store.nodes {
		n := &b.store.nodes[i]
		h := Handle(i)
		switch n.Kind {
		case KindUnary, KindClamp:
			if n.Child >= h {
				return buildErrorf(TypeMismatch, "node %d references non-prior child %d", h, n.Child)
			}
		case KindBinary:
			if n.Left >= h || n.Right >= h {
				return buildErrorf(TypeMismatch, "node %d references non-prior children (%d, %d)", h, n.Left, n.Right)
			}
		}
	}
	return nil
}
