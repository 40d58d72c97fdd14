package noise

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// smoothSimplex wraps the OpenSimplex implementation for the SimplexSmooth
// primitive. Output is in [-1, 1].
type smoothSimplex struct {
	n opensimplex.Noise
}

func newSmoothSimplex(seed int64) sampler2 {
	return smoothSimplex{n: opensimplex.New(seed)}
}

func (s smoothSimplex) at(x, y float64) float64 {
	return s.n.Eval2(x, y)
}

// perlinField wraps the go-perlin generator for the Perlin primitive.
type perlinField struct {
	p *perlin.Perlin
}

// Perlin smoothing/frequency parameters. Octave layering is the graph's
// job (the octaves combinator), so the generator itself stays single-pass
// apart from go-perlin's minimum of interpolation iterations.
const (
	perlinAlpha      = 2.0
	perlinBeta       = 2.0
	perlinIterations = 3
)

func newPerlinField(seed int64) sampler2 {
	return perlinField{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinIterations, seed)}
}

func (f perlinField) at(x, y float64) float64 {
	return f.p.Noise2D(x, y)
}

// fastSimplex is classic Gustavson 2D simplex noise over a seed-shuffled
// permutation table: cheaper per sample than the OpenSimplex variant, with
// slightly harsher gradients. Output is in [-1, 1].
type fastSimplex struct {
	perm [512]int
}

// Skew factors for 2D: (sqrt(3)-1)/2 and (3-sqrt(3))/6.
const (
	skew2   = 0.3660254037844386
	unskew2 = 0.21132486540518713
)

func newFastSimplex(seed int64) sampler2 {
	fs := &fastSimplex{}
	r := rand.New(rand.NewSource(seed))

	p := make([]int, 256)
	for i := range p {
		p[i] = i
	}
	r.Shuffle(256, func(i, j int) { p[i], p[j] = p[j], p[i] })

	// Doubled so corner lookups never wrap at index 255.
	for i := 0; i < 512; i++ {
		fs.perm[i] = p[i&255]
	}
	return fs
}

// grad2 is the dot product of a pseudo-random gradient and (x, y).
func grad2(hash int, x, y float64) float64 {
	h := hash & 7
	u, v := x, y
	if h >= 4 {
		u, v = y, x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

func (fs *fastSimplex) at(x, y float64) float64 {
	// Skew input space to find the containing simplex cell.
	s := (x + y) * skew2
	i := math.Floor(x + s)
	j := math.Floor(y + s)

	t := (i + j) * unskew2
	x0 := x - (i - t)
	y0 := y - (j - t)

	// Lower or upper triangle of the cell.
	var i1, j1 int
	if x0 > y0 {
		i1, j1 = 1, 0
	} else {
		i1, j1 = 0, 1
	}

	x1 := x0 - float64(i1) + unskew2
	y1 := y0 - float64(j1) + unskew2
	x2 := x0 - 1.0 + 2.0*unskew2
	y2 := y0 - 1.0 + 2.0*unskew2

	ii := int(i) & 255
	jj := int(j) & 255

	var n0, n1, n2 float64

	t0 := 0.5 - x0*x0 - y0*y0
	if t0 > 0 {
		t0 *= t0
		n0 = t0 * t0 * grad2(fs.perm[ii+fs.perm[jj]], x0, y0)
	}

	t1 := 0.5 - x1*x1 - y1*y1
	if t1 > 0 {
		t1 *= t1
		n1 = t1 * t1 * grad2(fs.perm[ii+i1+fs.perm[jj+j1]], x1, y1)
	}

	t2 := 0.5 - x2*x2 - y2*y2
	if t2 > 0 {
		t2 *= t2
		n2 = t2 * t2 * grad2(fs.perm[ii+1+fs.perm[jj+1]], x2, y2)
	}

	// Scale the corner contributions into [-1, 1].
	return 70.0 * (n0 + n1 + n2)
}
