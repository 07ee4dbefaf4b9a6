package bijector_test

import (
	"fmt"
	"testing"

	"github.com/born-ml/bijectors/internal/bijector"
	"github.com/born-ml/bijectors/internal/parallel"
	"github.com/born-ml/bijectors/internal/prng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const tol = 1e-6

// fixture returns a 3x7 batch of small values, all positive in columns 0, 1
// and 3 so InvSoftplus cases stay in its domain.
func fixture() *mat.Dense {
	return mat.NewDense(3, 7, []float64{
		0.2, 0.1, -0.3, 0.5, 0.1, -0.4, -0.3,
		0.6, 0.5, 0.2, 0.2, -0.4, -0.1, 0.7,
		0.9, 0.2, -0.3, 0.3, 0.4, -0.4, -0.1,
	})
}

type bijectorCase struct {
	name string
	args []any
}

func mustScale(t *testing.T, f float64) *bijector.Scale {
	t.Helper()
	s, err := bijector.NewScale(f)
	require.NoError(t, err)
	return s
}

func validCases(t *testing.T) []bijectorCase {
	t.Helper()
	return []bijectorCase{
		{"ColorTransform", []any{3, []int{1, 3, 5}}},
		{"Reverse", nil},
		{"Roll", []any{2}},
		{"Scale", []any{2.0}},
		{"Shuffle", nil},
		{"InvSoftplus", []any{0}},
		{"InvSoftplus", []any{[]int{1, 3}, []float64{2.0, 12.0}}},
		{"StandardScaler", []any{floats.Span(make([]float64, 7), -1, 1), floats.Span(make([]float64, 7), 1, 8)}},
		{"Chain", []any{bijector.NewReverse(), mustScale(t, 1.0/6), bijector.NewRoll(-1)}},
		{"NeuralSplineCoupling", nil},
		{"RollingSplineCoupling", []any{2}},
	}
}

type initialized struct {
	params  bijector.Params
	forward bijector.ForwardFunc
	inverse bijector.InverseFunc
}

func initCase(t *testing.T, tc bijectorCase, dim int) initialized {
	t.Helper()
	initFn, desc, err := bijector.Configure(tc.name, tc.args...)
	require.NoError(t, err)
	assert.Equal(t, tc.name, desc.Name)

	p, fwd, inv, err := initFn(prng.NewKey(0), dim)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, dim, p.Dim())
	return initialized{params: p, forward: fwd, inverse: inv}
}

// TestBijectors_Shape tests that outputs keep the batch shape and return one
// log-determinant per row.
func TestBijectors_Shape(t *testing.T) {
	x := fixture()
	for _, tc := range validCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			b := initCase(t, tc, 7)

			y, ld, err := b.forward(b.params, x)
			require.NoError(t, err)
			r, c := y.Dims()
			assert.Equal(t, 3, r)
			assert.Equal(t, 7, c)
			assert.Equal(t, 3, ld.Len())

			z, ld, err := b.inverse(b.params, x)
			require.NoError(t, err)
			r, c = z.Dims()
			assert.Equal(t, 3, r)
			assert.Equal(t, 7, c)
			assert.Equal(t, 3, ld.Len())
		})
	}
}

// TestBijectors_Invertible tests inverse(forward(x)) == x and that the two
// log-determinants negate each other.
func TestBijectors_Invertible(t *testing.T) {
	x := fixture()
	for _, tc := range validCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			b := initCase(t, tc, 7)

			y, fwdLD, err := b.forward(b.params, x)
			require.NoError(t, err)
			back, invLD, err := b.inverse(b.params, y)
			require.NoError(t, err)

			assert.True(t, mat.EqualApprox(x, back, tol), "round trip:\n%v\n%v", mat.Formatted(x), mat.Formatted(back))

			sum := mat.NewVecDense(3, nil)
			sum.AddVec(fwdLD, invLD)
			for i := 0; i < 3; i++ {
				assert.InDelta(t, 0, sum.AtVec(i), tol)
			}
		})
	}
}

// TestBijectors_Compiled tests that sharded execution returns exactly the
// values of direct execution.
func TestBijectors_Compiled(t *testing.T) {
	x := fixture()
	cfg := parallel.Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1}
	require.Len(t, parallel.Chunks(3, cfg), 3)

	for _, tc := range validCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			b := initCase(t, tc, 7)

			for _, f := range []bijector.ForwardFunc{b.forward, b.inverse} {
				want, wantLD, err := f(b.params, x)
				require.NoError(t, err)
				got, gotLD, err := bijector.Compile(f, cfg)(b.params, x)
				require.NoError(t, err)

				assert.True(t, mat.Equal(want, got))
				assert.True(t, mat.Equal(wantLD, gotLD))
			}
		})
	}
}

// TestBijectors_ParamsUnchanged tests that Forward and Inverse leave both
// the batch and the params untouched.
func TestBijectors_ParamsUnchanged(t *testing.T) {
	for _, tc := range validCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			b := initCase(t, tc, 7)
			again := initCase(t, tc, 7)
			x := fixture()

			_, _, err := b.forward(b.params, x)
			require.NoError(t, err)
			_, _, err = b.inverse(b.params, x)
			require.NoError(t, err)

			assert.Equal(t, again.params, b.params)
			assert.True(t, mat.Equal(fixture(), x))
		})
	}
}

// TestBijectors_DimensionMismatch tests that a batch with the wrong column
// count is rejected.
func TestBijectors_DimensionMismatch(t *testing.T) {
	x := fixture()
	for _, tc := range validCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			b := initCase(t, tc, 7)
			narrow := x.Slice(0, 3, 0, 6)

			_, _, err := b.forward(b.params, narrow)
			require.ErrorIs(t, err, bijector.ErrDimension)
			_, _, err = b.inverse(b.params, narrow)
			require.ErrorIs(t, err, bijector.ErrDimension)
		})
	}
}

func TestBijectors_NilParams(t *testing.T) {
	for _, tc := range validCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			b := initCase(t, tc, 7)
			_, _, err := b.forward(nil, fixture())
			require.ErrorIs(t, err, bijector.ErrParams)
		})
	}
}

// TestBijectors_SeedReproducible tests that the same key yields the same
// params and different keys yield different shuffles.
func TestBijectors_SeedReproducible(t *testing.T) {
	coupling, err := bijector.NewNeuralSplineCoupling(bijector.DefaultCouplingConfig())
	require.NoError(t, err)

	p1, err := coupling.Initialize(prng.NewKey(42), 7)
	require.NoError(t, err)
	p2, err := coupling.Initialize(prng.NewKey(42), 7)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	shuffle := bijector.NewShuffle()
	perms := make(map[string]bool)
	for seed := int64(0); seed < 8; seed++ {
		p, err := shuffle.Initialize(prng.NewKey(seed), 7)
		require.NoError(t, err)
		perms[fmt.Sprint(p.(bijector.ShuffleParams).Perm)] = true
	}
	assert.Greater(t, len(perms), 1)
}

// TestChain_Composition tests that a chain equals applying its links in turn
// and that its log-determinant is the sum of theirs.
func TestChain_Composition(t *testing.T) {
	x := fixture()
	key := prng.NewKey(3)

	links := []bijector.Bijector{bijector.NewShuffle(), mustScale(t, 0.5), bijector.NewRoll(2)}
	chain, err := bijector.NewChain(links...)
	require.NoError(t, err)

	cp, err := chain.Initialize(key, 7)
	require.NoError(t, err)
	got, gotLD, err := chain.Forward(cp, x)
	require.NoError(t, err)

	keys := key.Split(len(links))
	var h mat.Matrix = x
	sum := mat.NewVecDense(3, nil)
	for i, b := range links {
		p, err := b.Initialize(keys[i], 7)
		require.NoError(t, err)
		out, ld, err := b.Forward(p, h)
		require.NoError(t, err)
		sum.AddVec(sum, ld)
		h = out
	}

	assert.True(t, mat.EqualApprox(h, got, 1e-12))
	assert.True(t, mat.EqualApprox(sum, gotLD, 1e-12))
}

func TestChain_Invalid(t *testing.T) {
	_, err := bijector.NewChain()
	require.ErrorIs(t, err, bijector.ErrConfig)

	_, err = bijector.NewChain(bijector.NewReverse(), nil)
	require.ErrorIs(t, err, bijector.ErrConfig)
}

func TestChain_ParamsMismatch(t *testing.T) {
	chain, err := bijector.NewChain(bijector.NewReverse(), bijector.NewRoll(1))
	require.NoError(t, err)

	_, _, err = chain.Forward(bijector.ChainParams{D: 7, Links: []bijector.Params{bijector.ShapeParams{D: 7}}}, fixture())
	require.ErrorIs(t, err, bijector.ErrParams)

	_, _, err = chain.Forward(bijector.ShapeParams{D: 7}, fixture())
	require.ErrorIs(t, err, bijector.ErrParams)
}
