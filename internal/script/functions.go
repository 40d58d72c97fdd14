package script

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/vk/noisebench/internal/noise"
)

// algoType is the cty capsule carrying a node handle through HCL
// expression evaluation. Scripts never see the handle itself; they only
// pass algo values between functions.
var algoType = cty.Capsule("algo", reflect.TypeOf(noise.Handle(0)))

// wrapHandle boxes a handle as a script-level algo value.
func wrapHandle(h noise.Handle) cty.Value {
	return cty.CapsuleVal(algoType, &h)
}

// handleFromValue unboxes a script-level algo value.
func handleFromValue(v cty.Value) (noise.Handle, bool) {
	if !v.Type().Equals(algoType) {
		return 0, false
	}
	return *(v.EncapsulatedValue().(*noise.Handle)), true
}

// frontend binds the construction functions of one build pass to its
// Builder. cty flattens function errors into diagnostics, so the frontend
// also records the first build error verbatim; the loader prefers that over
// the flattened diagnostic to keep the error taxonomy intact.
type frontend struct {
	builder *noise.Builder
	err     error
}

// fail records and returns a build error from inside a function Impl.
func (f *frontend) fail(err error) (cty.Value, error) {
	if f.err == nil {
		f.err = err
	}
	return cty.NilVal, err
}

// operand resolves a value used in an algorithm position: an algo passes
// through, a bare number is auto-wrapped as a Const node, anything else is
// a type mismatch.
func (f *frontend) operand(name string, v cty.Value) (noise.Handle, error) {
	if h, ok := handleFromValue(v); ok {
		return h, nil
	}
	if v.Type().Equals(cty.Number) {
		n, _ := v.AsBigFloat().Float64()
		return f.builder.Const(n), nil
	}
	return 0, typeErrf("%s expects an algo or a number, got %s", name, v.Type().FriendlyName())
}

func number(name string, v cty.Value) (float64, error) {
	if !v.Type().Equals(cty.Number) {
		return 0, typeErrf("%s expects a number, got %s", name, v.Type().FriendlyName())
	}
	n, _ := v.AsBigFloat().Float64()
	return n, nil
}

func integer(name string, v cty.Value) (int64, error) {
	if !v.Type().Equals(cty.Number) {
		return 0, typeErrf("%s expects an integer, got %s", name, v.Type().FriendlyName())
	}
	bf := v.AsBigFloat()
	if !bf.IsInt() {
		return 0, typeErrf("%s expects an integer, got %s", name, bf.Text('g', -1))
	}
	i, _ := bf.Int64()
	return i, nil
}

func typeErrf(format string, args ...any) *noise.BuildError {
	return &noise.BuildError{Kind: noise.TypeMismatch, Detail: fmt.Sprintf(format, args...)}
}

func arityErrf(name string, want string, got int) *noise.BuildError {
	return &noise.BuildError{
		Kind:   noise.ArityMismatch,
		Detail: fmt.Sprintf("%s expects %s argument(s), got %d", name, want, got),
	}
}

// fn builds one construction function. Every function takes a dynamic
// variadic parameter and checks its own arity and operand types, so a bad
// call surfaces as the exact BuildError kind the contract promises instead
// of a cty conversion error.
func (f *frontend) fn(name, want string, minArgs, maxArgs int, impl func(args []cty.Value) (noise.Handle, error)) function.Function {
	return function.New(&function.Spec{
		VarParam: &function.Parameter{Name: "args", Type: cty.DynamicPseudoType},
		Type:     function.StaticReturnType(algoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			if len(args) < minArgs || len(args) > maxArgs {
				return f.fail(arityErrf(name, want, len(args)))
			}
			h, err := impl(args)
			if err != nil {
				return f.fail(err)
			}
			return wrapHandle(h), nil
		},
	})
}

// unaryFn covers the parameterless single-operand transforms.
func (f *frontend) unaryFn(name string, op noise.UnaryOp) function.Function {
	return f.fn(name, "1", 1, 1, func(args []cty.Value) (noise.Handle, error) {
		h, err := f.operand(name, args[0])
		if err != nil {
			return 0, err
		}
		return f.builder.Unary(op, h)
	})
}

// binaryFn covers the two-operand arithmetic operators; either side may be
// an algo or a bare number.
func (f *frontend) binaryFn(name string, op noise.BinaryOp) function.Function {
	return f.fn(name, "2", 2, 2, func(args []cty.Value) (noise.Handle, error) {
		l, err := f.operand(name, args[0])
		if err != nil {
			return 0, err
		}
		r, err := f.operand(name, args[1])
		if err != nil {
			return 0, err
		}
		return f.builder.Binary(op, l, r)
	})
}

// seededFn covers the coherent-noise primitives.
func (f *frontend) seededFn(name string, make func(seed int64) noise.Handle) function.Function {
	return f.fn(name, "1", 1, 1, func(args []cty.Value) (noise.Handle, error) {
		seed, err := integer(name, args[0])
		if err != nil {
			return 0, err
		}
		return make(seed), nil
	})
}

// functions assembles the script-visible construction API.
func (f *frontend) functions() map[string]function.Function {
	b := f.builder
	funcs := map[string]function.Function{
		"const": f.fn("const", "1", 1, 1, func(args []cty.Value) (noise.Handle, error) {
			v, err := number("const", args[0])
			if err != nil {
				return 0, err
			}
			return b.Const(v), nil
		}),

		"simplex":      f.seededFn("simplex", b.SimplexSmooth),
		"simplex_fast": f.seededFn("simplex_fast", b.SimplexFast),
		"perlin":       f.seededFn("perlin", b.Perlin),

		"sinefield": f.fn("sinefield", "0 to 3", 0, 3, func(args []cty.Value) (noise.Handle, error) {
			params := [3]float64{1, 1, 1} // freqX, freqY, amp
			names := [3]string{"sinefield freq_x", "sinefield freq_y", "sinefield amp"}
			for i, a := range args {
				v, err := number(names[i], a)
				if err != nil {
					return 0, err
				}
				params[i] = v
			}
			return b.SineField(params[0], params[1], params[2])
		}),

		"clamp": f.fn("clamp", "3", 3, 3, func(args []cty.Value) (noise.Handle, error) {
			h, err := f.operand("clamp", args[0])
			if err != nil {
				return 0, err
			}
			lo, err := number("clamp lo", args[1])
			if err != nil {
				return 0, err
			}
			hi, err := number("clamp hi", args[2])
			if err != nil {
				return 0, err
			}
			return b.Clamp(h, lo, hi)
		}),

		"signed_pow": f.fn("signed_pow", "2", 2, 2, func(args []cty.Value) (noise.Handle, error) {
			h, err := f.operand("signed_pow", args[0])
			if err != nil {
				return 0, err
			}
			exp, err := number("signed_pow exp", args[1])
			if err != nil {
				return 0, err
			}
			return b.SignedPow(h, exp)
		}),

		// translate(a, dx, dy=dx) and scale(a, sx, sy=sx) default the
		// second axis to the first, as the original scripting API did.
		"translate": f.coordFn("translate", b.Translate),
		"scale":     f.coordFn("scale", b.Scale),

		"octaves": f.fn("octaves", "2 to 4", 2, 4, func(args []cty.Value) (noise.Handle, error) {
			h, err := f.operand("octaves", args[0])
			if err != nil {
				return 0, err
			}
			count, err := integer("octaves count", args[1])
			if err != nil {
				return 0, err
			}
			ampScale, freqScale := 0.5, 2.0
			if len(args) > 2 {
				if ampScale, err = number("octaves amp_scale", args[2]); err != nil {
					return 0, err
				}
			}
			if len(args) > 3 {
				if freqScale, err = number("octaves freq_scale", args[3]); err != nil {
					return 0, err
				}
			}
			return b.Octaves(h, int(count), ampScale, freqScale)
		}),
	}

	for name, op := range map[string]noise.BinaryOp{
		"add": noise.OpAdd,
		"sub": noise.OpSub,
		"mul": noise.OpMul,
		"div": noise.OpDiv,
		"pow": noise.OpPow,
		"mod": noise.OpMod,
		"min": noise.OpMin,
		"max": noise.OpMax,
	} {
		funcs[name] = f.binaryFn(name, op)
	}

	for name, op := range map[string]noise.UnaryOp{
		"floor":            noise.OpFloor,
		"ceil":             noise.OpCeil,
		"abs":              noise.OpAbs,
		"rem_euclid":       noise.OpRemEuclid,
		"to_signed_unit":   noise.OpToSignedUnit,
		"to_unsigned_unit": noise.OpToUnsignedUnit,
	} {
		funcs[name] = f.unaryFn(name, op)
	}

	return funcs
}

// coordFn covers the two coordinate-space transforms with an optional
// second axis.
func (f *frontend) coordFn(name string, make func(child noise.Handle, x, y float64) (noise.Handle, error)) function.Function {
	return f.fn(name, "2 or 3", 2, 3, func(args []cty.Value) (noise.Handle, error) {
		h, err := f.operand(name, args[0])
		if err != nil {
			return 0, err
		}
		x, err := number(name+" x", args[1])
		if err != nil {
			return 0, err
		}
		y := x
		if len(args) > 2 {
			if y, err = number(name+" y", args[2]); err != nil {
				return 0, err
			}
		}
		return make(h, x, y)
	})
}
