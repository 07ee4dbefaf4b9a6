package bijector

import (
	"fmt"
	"slices"

	"github.com/born-ml/bijectors/internal/prng"
	"gonum.org/v1/gonum/mat"
)

// ColorTransform converts photometric magnitudes into colors.
//
// Given the magnitude columns bands = [b0, b1, ..., bM-1] and a reference
// band ref among them, the output is laid out as
//
//	[non-band columns..., m[ref], m[b0]-m[b1], m[b1]-m[b2], ..., m[bM-2]-m[bM-1]]
//
// Non-band columns keep their relative order at the front. The map is linear
// and volume preserving, so log|det J| = 0.
//
// For data [redshift, u, g, ellipticity, r, i, z, y, mass],
// ColorTransform(4, [1, 2, 4, 5, 6, 7]) outputs
// [redshift, ellipticity, mass, r, u-g, g-r, r-i, i-z, z-y].
type ColorTransform struct {
	ref   int
	bands []int
}

// NewColorTransform creates a ColorTransform bijector.
//
// ref must be one of bands; bands must be distinct, non-negative column
// indices. Their range is checked against the dimension in Initialize.
func NewColorTransform(ref int, bands []int) (*ColorTransform, error) {
	seen := make(map[int]bool, len(bands))
	for _, b := range bands {
		if b < 0 {
			return nil, configErrorf("ColorTransform", "bands", "negative column index %d", b)
		}
		if seen[b] {
			return nil, configErrorf("ColorTransform", "bands", "duplicate column index %d", b)
		}
		seen[b] = true
	}
	if !seen[ref] {
		return nil, configErrorf("ColorTransform", "ref", "reference band %d is not in bands %v", ref, bands)
	}
	return &ColorTransform{ref: ref, bands: slices.Clone(bands)}, nil
}

// Descriptor implements Bijector.
func (c *ColorTransform) Descriptor() Descriptor {
	return Descriptor{Name: "ColorTransform", Args: []any{c.ref, slices.Clone(c.bands)}}
}

// Initialize implements Bijector.
func (c *ColorTransform) Initialize(_ prng.Key, dim int) (Params, error) {
	if err := checkDim("ColorTransform", dim); err != nil {
		return nil, err
	}
	isBand := make([]bool, dim)
	for _, b := range c.bands {
		if b >= dim {
			return nil, configErrorf("ColorTransform", "bands", "column %d out of range for dimension %d", b, dim)
		}
		isBand[b] = true
	}

	front := make([]int, 0, dim-len(c.bands))
	for j, band := range isBand {
		if !band {
			front = append(front, j)
		}
	}
	return ColorParams{D: dim, Front: front, RefPos: slices.Index(c.bands, c.ref)}, nil
}

// Forward implements Bijector.
func (c *ColorTransform) Forward(p Params, x mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	cp, n, err := c.check(p, x)
	if err != nil {
		return nil, nil, err
	}

	nf := len(cp.Front)
	out := mat.NewDense(n, cp.D, nil)
	for i := 0; i < n; i++ {
		row := out.RawRowView(i)
		for j, col := range cp.Front {
			row[j] = x.At(i, col)
		}
		row[nf] = x.At(i, c.ref)
		for k := 0; k+1 < len(c.bands); k++ {
			row[nf+1+k] = x.At(i, c.bands[k]) - x.At(i, c.bands[k+1])
		}
	}
	return out, constLogDet(n, 0), nil
}

// Inverse implements Bijector.
func (c *ColorTransform) Inverse(p Params, y mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	cp, n, err := c.check(p, y)
	if err != nil {
		return nil, nil, err
	}

	nf := len(cp.Front)
	mags := make([]float64, len(c.bands))
	out := mat.NewDense(n, cp.D, nil)
	for i := 0; i < n; i++ {
		row := out.RawRowView(i)
		for j, col := range cp.Front {
			row[col] = y.At(i, j)
		}

		// Walk outwards from the reference band through the colors.
		mags[cp.RefPos] = y.At(i, nf)
		for k := cp.RefPos - 1; k >= 0; k-- {
			mags[k] = mags[k+1] + y.At(i, nf+1+k)
		}
		for k := cp.RefPos + 1; k < len(mags); k++ {
			mags[k] = mags[k-1] - y.At(i, nf+k)
		}
		for k, col := range c.bands {
			row[col] = mags[k]
		}
	}
	return out, constLogDet(n, 0), nil
}

func (c *ColorTransform) check(p Params, x mat.Matrix) (ColorParams, int, error) {
	cp, err := paramsAs[ColorParams]("ColorTransform", p)
	if err != nil {
		return ColorParams{}, 0, err
	}
	if len(cp.Front)+len(c.bands) != cp.D || cp.RefPos < 0 || cp.RefPos >= len(c.bands) {
		return ColorParams{}, 0, fmt.Errorf("%w: ColorTransform params do not match bands %v", ErrParams, c.bands)
	}
	n, err := checkBatch("ColorTransform", cp, x)
	return cp, n, err
}
