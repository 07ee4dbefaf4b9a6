package bijector

import (
	"fmt"
	"slices"

	"github.com/born-ml/bijectors/internal/prng"
	"gonum.org/v1/gonum/mat"
)

// Chain composes bijectors into one.
//
// Forward applies the links in order and sums their log-determinants;
// Inverse applies the link inverses in reverse order. Each link is
// initialized from its own child of the chain's key.
//
// Example:
//
//	scale, _ := bijector.NewScale(0.5)
//	chain, _ := bijector.NewChain(bijector.NewReverse(), scale, bijector.NewRoll(-1))
//
// This is equivalent to applying Reverse, then Scale, then Roll.
type Chain struct {
	links []Bijector
}

// NewChain creates a Chain from one or more bijectors.
func NewChain(links ...Bijector) (*Chain, error) {
	if len(links) == 0 {
		return nil, configErrorf("Chain", "", "needs at least one bijector")
	}
	for i, b := range links {
		if b == nil {
			return nil, configErrorf("Chain", fmt.Sprintf("link %d", i), "nil bijector")
		}
	}
	return &Chain{links: slices.Clone(links)}, nil
}

// Len returns the number of links in the chain.
func (c *Chain) Len() int {
	return len(c.links)
}

// Link returns the bijector at the given index.
//
// Panics if index is out of bounds.
func (c *Chain) Link(index int) Bijector {
	if index < 0 || index >= len(c.links) {
		panic("Chain.Link: index out of bounds")
	}
	return c.links[index]
}

// Descriptor implements Bijector. Args are the links' descriptors.
func (c *Chain) Descriptor() Descriptor {
	args := make([]any, len(c.links))
	for i, b := range c.links {
		args[i] = b.Descriptor()
	}
	return Descriptor{Name: "Chain", Args: args}
}

// Initialize implements Bijector.
func (c *Chain) Initialize(key prng.Key, dim int) (Params, error) {
	if err := checkDim("Chain", dim); err != nil {
		return nil, err
	}
	keys := key.Split(len(c.links))
	params := ChainParams{D: dim, Links: make([]Params, len(c.links))}
	for i, b := range c.links {
		p, err := b.Initialize(keys[i], dim)
		if err != nil {
			return nil, fmt.Errorf("link %d (%s): %w", i, b.Descriptor().Name, err)
		}
		params.Links[i] = p
	}
	return params, nil
}

// Forward implements Bijector.
func (c *Chain) Forward(p Params, x mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	cp, n, err := c.check(p, x)
	if err != nil {
		return nil, nil, err
	}

	total := mat.NewVecDense(n, nil)
	h := x
	var out *mat.Dense
	for i, b := range c.links {
		var ld *mat.VecDense
		out, ld, err = b.Forward(cp.Links[i], h)
		if err != nil {
			return nil, nil, fmt.Errorf("link %d (%s): %w", i, b.Descriptor().Name, err)
		}
		total.AddVec(total, ld)
		h = out
	}
	return out, total, nil
}

// Inverse implements Bijector.
func (c *Chain) Inverse(p Params, y mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	cp, n, err := c.check(p, y)
	if err != nil {
		return nil, nil, err
	}

	total := mat.NewVecDense(n, nil)
	h := y
	var out *mat.Dense
	for i := len(c.links) - 1; i >= 0; i-- {
		b := c.links[i]
		var ld *mat.VecDense
		out, ld, err = b.Inverse(cp.Links[i], h)
		if err != nil {
			return nil, nil, fmt.Errorf("link %d (%s): %w", i, b.Descriptor().Name, err)
		}
		total.AddVec(total, ld)
		h = out
	}
	return out, total, nil
}

func (c *Chain) check(p Params, x mat.Matrix) (ChainParams, int, error) {
	cp, err := paramsAs[ChainParams]("Chain", p)
	if err != nil {
		return ChainParams{}, 0, err
	}
	if len(cp.Links) != len(c.links) {
		return ChainParams{}, 0, fmt.Errorf("%w: Chain has %d links, params for %d", ErrParams, len(c.links), len(cp.Links))
	}
	n, err := checkBatch("Chain", cp, x)
	return cp, n, err
}
