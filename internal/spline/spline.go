// Package spline implements monotonic rational-quadratic splines.
//
// A spline with K bins maps [-B, B] onto itself through K rational-quadratic
// segments and is the identity outside that interval. Widths and heights are
// strictly positive and the knot derivatives are positive, so the map is
// strictly increasing and has a closed-form inverse (Durkan et al., 2019,
// "Neural Spline Flows").
//
// Evaluation never branches on data beyond locating the bin, and every loop
// runs over K, so a spline behaves identically for every row of a batch.
package spline

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Lower bounds applied to bin sizes and interior knot derivatives.
//
// Widths and heights are fractions of the total span 2B.
const (
	MinBinWidth   = 1e-3
	MinBinHeight  = 1e-3
	MinDerivative = 1e-3
)

// MaxLogit bounds the magnitude of every logit handed to NewKnots. NaN logits
// are read as 0. Knots therefore stay finite and strictly increasing whatever
// the conditioner produces.
const MaxLogit = 1e3

// ErrInvalidKnots reports malformed spline parameters.
var ErrInvalidKnots = errors.New("spline: invalid knot parameters")

// NumParams returns how many unconstrained values parameterize one spline
// with k bins: k width-logits, k height-logits and k-1 derivative-logits.
func NumParams(k int) int {
	return 3*k - 1
}

// Knots are the control points of one spline.
//
// X and Y hold the K+1 knot abscissae and ordinates, both running from -Bound
// to Bound. Deriv holds the K+1 knot derivatives; the first and last are 1 so
// the spline joins the identity tails smoothly.
type Knots struct {
	X     []float64
	Y     []float64
	Deriv []float64
	Bound float64
}

// NewKnots builds knots from unconstrained logits.
//
// Widths and heights are soft-maxed (with MinBinWidth/MinBinHeight floors) and
// scaled to the span 2*bound; interior derivatives pass through
// MinDerivative + softplus.
func NewKnots(widthLogits, heightLogits, derivLogits []float64, bound float64) (*Knots, error) {
	k := len(widthLogits)
	switch {
	case k == 0:
		return nil, fmt.Errorf("%w: need at least one bin", ErrInvalidKnots)
	case len(heightLogits) != k:
		return nil, fmt.Errorf("%w: %d width logits but %d height logits", ErrInvalidKnots, k, len(heightLogits))
	case len(derivLogits) != k-1:
		return nil, fmt.Errorf("%w: expected %d derivative logits, got %d", ErrInvalidKnots, k-1, len(derivLogits))
	case !(bound > 0) || math.IsInf(bound, 1):
		return nil, fmt.Errorf("%w: bound must be positive and finite, got %v", ErrInvalidKnots, bound)
	case float64(k)*math.Max(MinBinWidth, MinBinHeight) >= 1:
		return nil, fmt.Errorf("%w: %d bins leave no room above the minimum bin size", ErrInvalidKnots, k)
	}

	deriv := make([]float64, k+1)
	deriv[0], deriv[k] = 1, 1
	for i, v := range derivLogits {
		deriv[i+1] = MinDerivative + softplus(clampLogit(v))
	}

	return &Knots{
		X:     knotPositions(widthLogits, MinBinWidth, bound),
		Y:     knotPositions(heightLogits, MinBinHeight, bound),
		Deriv: deriv,
		Bound: bound,
	}, nil
}

// Unpack splits a NumParams(k) vector into width, height and derivative logits.
// The returned slices alias v.
func Unpack(v []float64, k int) (widths, heights, derivs []float64, err error) {
	if len(v) != NumParams(k) {
		return nil, nil, nil, fmt.Errorf("%w: expected %d parameters for %d bins, got %d",
			ErrInvalidKnots, NumParams(k), k, len(v))
	}
	return v[:k], v[k : 2*k], v[2*k:], nil
}

// Bins returns the number of bins K.
func (kn *Knots) Bins() int {
	return len(kn.X) - 1
}

// Forward evaluates the spline at x and returns log(dy/dx).
//
// NaN passes through unchanged with a zero log-derivative.
func (kn *Knots) Forward(x float64) (y, logDeriv float64) {
	if math.IsNaN(x) || x <= -kn.Bound || x >= kn.Bound {
		return x, 0
	}
	k := bin(kn.X, x)

	w := kn.X[k+1] - kn.X[k]
	xi := clamp01((x - kn.X[k]) / w)
	return kn.evaluate(k, xi), kn.logDeriv(k, xi)
}

// Inverse solves Forward(x) = y for x and returns log(dx/dy).
//
// Within a bin the rational-quadratic equation reduces to a quadratic in the
// normalized position xi whose unique root in [0, 1] is computed in the
// cancellation-free form 2c / (-b - sqrt(b^2 - 4ac)).
func (kn *Knots) Inverse(y float64) (x, logDeriv float64) {
	if math.IsNaN(y) || y <= -kn.Bound || y >= kn.Bound {
		return y, 0
	}
	k := bin(kn.Y, y)

	w := kn.X[k+1] - kn.X[k]
	h := kn.Y[k+1] - kn.Y[k]
	s := h / w
	d0, d1 := kn.Deriv[k], kn.Deriv[k+1]
	dy := y - kn.Y[k]
	curv := d1 + d0 - 2*s

	a := h*(s-d0) + dy*curv
	b := h*d0 - dy*curv
	c := -s * dy

	disc := math.Max(b*b-4*a*c, 0)
	var xi float64
	if denom := -b - math.Sqrt(disc); denom != 0 {
		xi = clamp01(2 * c / denom)
	}

	return kn.X[k] + xi*w, -kn.logDeriv(k, xi)
}

// evaluate returns the spline value at normalized position xi of bin k.
func (kn *Knots) evaluate(k int, xi float64) float64 {
	w := kn.X[k+1] - kn.X[k]
	h := kn.Y[k+1] - kn.Y[k]
	s := h / w
	d0, d1 := kn.Deriv[k], kn.Deriv[k+1]
	t := xi * (1 - xi)

	num := h * (s*xi*xi + d0*t)
	den := s + (d1+d0-2*s)*t
	return kn.Y[k] + num/den
}

// logDeriv returns log(dy/dx) at normalized position xi of bin k.
func (kn *Knots) logDeriv(k int, xi float64) float64 {
	w := kn.X[k+1] - kn.X[k]
	h := kn.Y[k+1] - kn.Y[k]
	s := h / w
	d0, d1 := kn.Deriv[k], kn.Deriv[k+1]
	t := xi * (1 - xi)

	den := s + (d1+d0-2*s)*t
	num := s * s * (d1*xi*xi + 2*s*t + d0*(1-xi)*(1-xi))
	return math.Log(num) - 2*math.Log(den)
}

// bin returns the k with pos[k] <= v < pos[k+1], clamped to [0, len(pos)-2].
func bin(pos []float64, v float64) int {
	k := sort.Search(len(pos), func(i int) bool { return pos[i] > v }) - 1
	return min(max(k, 0), len(pos)-2)
}

// knotPositions turns K logits into K+1 increasing positions on [-bound, bound].
func knotPositions(logits []float64, minFrac, bound float64) []float64 {
	k := len(logits)
	clamped := make([]float64, k)
	for i, v := range logits {
		clamped[i] = clampLogit(v)
	}
	lse := floats.LogSumExp(clamped)

	sizes := make([]float64, k)
	for i, v := range clamped {
		sizes[i] = 2 * bound * (minFrac + (1-float64(k)*minFrac)*math.Exp(v-lse))
	}

	pos := make([]float64, k+1)
	floats.CumSum(pos[1:], sizes)
	floats.AddConst(-bound, pos)
	pos[0], pos[k] = -bound, bound
	return pos
}

func softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}

func clampLogit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, -MaxLogit), MaxLogit)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
