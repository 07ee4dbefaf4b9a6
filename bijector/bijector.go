// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package bijector

import (
	"github.com/born-ml/bijectors/internal/bijector"
	"github.com/born-ml/bijectors/internal/parallel"
	"github.com/born-ml/bijectors/internal/prng"
)

// Core contract

// Bijector is an invertible map between [N, D] batches with a tractable
// log-determinant.
type Bijector = bijector.Bijector

// Params are the data produced by Initialize.
type Params = bijector.Params

// ForwardFunc is the functional form of Bijector.Forward.
type ForwardFunc = bijector.ForwardFunc

// InverseFunc is the functional form of Bijector.Inverse.
type InverseFunc = bijector.InverseFunc

// InitFunc initializes a configured bijector for a dimension.
type InitFunc = bijector.InitFunc

// Descriptor records a bijector's name and configuration arguments.
type Descriptor = bijector.Descriptor

// Initializer returns the InitFunc of b.
func Initializer(b Bijector) InitFunc {
	return bijector.Initializer(b)
}

// Params types

type (
	// ShapeParams are the params of bijectors configured entirely up front.
	ShapeParams = bijector.ShapeParams
	// ShuffleParams hold a column permutation and its inverse.
	ShuffleParams = bijector.ShuffleParams
	// ColorParams hold the resolved column layout of a ColorTransform.
	ColorParams = bijector.ColorParams
	// ChainParams hold the params of every link of a Chain.
	ChainParams = bijector.ChainParams
	// CouplingParams hold the split and conditioner of a NeuralSplineCoupling.
	CouplingParams = bijector.CouplingParams
)

// Randomness

// Key is a splittable random key.
type Key = prng.Key

// NewKey creates a root key from a seed.
//
// Example:
//
//	key := bijector.NewKey(0)
//	keys := key.Split(3)
func NewKey(seed int64) Key {
	return prng.NewKey(seed)
}

// Elementary bijectors

// Reverse reverses the column order.
type Reverse = bijector.Reverse

// NewReverse creates a Reverse bijector.
func NewReverse() *Reverse {
	return bijector.NewReverse()
}

// Roll cyclically shifts columns.
type Roll = bijector.Roll

// NewRoll creates a Roll bijector that moves column j to (j+shift) mod D.
func NewRoll(shift int) *Roll {
	return bijector.NewRoll(shift)
}

// Scale multiplies every column by a constant factor.
type Scale = bijector.Scale

// NewScale creates a Scale bijector. The factor must be finite and nonzero.
func NewScale(factor float64) (*Scale, error) {
	return bijector.NewScale(factor)
}

// Shuffle applies a fixed random column permutation.
type Shuffle = bijector.Shuffle

// NewShuffle creates a Shuffle bijector.
func NewShuffle() *Shuffle {
	return bijector.NewShuffle()
}

// InvSoftplus applies the inverse softplus to selected columns.
type InvSoftplus = bijector.InvSoftplus

// NewInvSoftplus creates an InvSoftplus bijector.
//
// nil columns selects every column; nil sharpness uses 1.
//
// Example:
//
//	b, err := bijector.NewInvSoftplus([]int{1, 3}, []float64{2, 12})
func NewInvSoftplus(columns []int, sharpness []float64) (*InvSoftplus, error) {
	return bijector.NewInvSoftplus(columns, sharpness)
}

// StandardScaler standardizes columns with fixed means and deviations.
type StandardScaler = bijector.StandardScaler

// NewStandardScaler creates a StandardScaler bijector.
func NewStandardScaler(means, stds []float64) (*StandardScaler, error) {
	return bijector.NewStandardScaler(means, stds)
}

// ColorTransform converts magnitudes into a reference magnitude and colors.
type ColorTransform = bijector.ColorTransform

// NewColorTransform creates a ColorTransform bijector.
//
// Example:
//
//	// [redshift, u, g, ellipticity, r, i, z, y, mass] becomes
//	// [redshift, ellipticity, mass, r, u-g, g-r, r-i, i-z, z-y].
//	b, err := bijector.NewColorTransform(4, []int{1, 2, 4, 5, 6, 7})
func NewColorTransform(ref int, bands []int) (*ColorTransform, error) {
	return bijector.NewColorTransform(ref, bands)
}

// Composition

// Chain applies bijectors in sequence.
type Chain = bijector.Chain

// NewChain creates a Chain of at least one bijector.
func NewChain(links ...Bijector) (*Chain, error) {
	return bijector.NewChain(links...)
}

// Spline couplings

// Split selects the column partition of a coupling layer.
type Split = bijector.Split

// Column partitions.
const (
	SplitInterleaved = bijector.SplitInterleaved
	SplitHalves      = bijector.SplitHalves
)

// CouplingConfig configures a spline coupling layer.
type CouplingConfig = bijector.CouplingConfig

// DefaultCouplingConfig returns the standard coupling configuration.
func DefaultCouplingConfig() CouplingConfig {
	return bijector.DefaultCouplingConfig()
}

// NeuralSplineCoupling is a coupling layer of rational-quadratic splines.
type NeuralSplineCoupling = bijector.NeuralSplineCoupling

// NewNeuralSplineCoupling creates a NeuralSplineCoupling bijector.
func NewNeuralSplineCoupling(cfg CouplingConfig) (*NeuralSplineCoupling, error) {
	return bijector.NewNeuralSplineCoupling(cfg)
}

// RollingSplineCoupling alternates rolls and spline couplings.
type RollingSplineCoupling = bijector.RollingSplineCoupling

// NewRollingSplineCoupling creates a RollingSplineCoupling bijector.
//
// A zero shift picks the smallest roll that lets the repetitions
// transform every column.
func NewRollingSplineCoupling(layers, shift int, cfg CouplingConfig) (*RollingSplineCoupling, error) {
	return bijector.NewRollingSplineCoupling(layers, shift, cfg)
}

// Dynamic configuration

// Configure builds the named bijector from positional arguments.
//
// Example:
//
//	init, desc, err := bijector.Configure("Scale", 2.0)
func Configure(name string, args ...any) (InitFunc, Descriptor, error) {
	return bijector.Configure(name, args...)
}

// FromDescriptor rebuilds the bijector described by d.
func FromDescriptor(d Descriptor) (Bijector, error) {
	return bijector.FromDescriptor(d)
}

// Names returns the bijector names accepted by Configure.
func Names() []string {
	return bijector.Names()
}

// Compiled execution

// CompileConfig controls how Compile shards batches.
type CompileConfig = parallel.Config

// DefaultCompileConfig returns a sharding configuration sized to the CPU.
func DefaultCompileConfig() CompileConfig {
	return bijector.DefaultCompileConfig()
}

// Compile returns f evaluated on row shards in parallel.
//
// Example:
//
//	forward := bijector.Compile(chain.Forward, bijector.DefaultCompileConfig())
//	y, logDet, err := forward(params, x)
func Compile(f ForwardFunc, cfg CompileConfig) ForwardFunc {
	return bijector.Compile(f, cfg)
}

// Errors

var (
	// ErrConfig reports an invalid configuration.
	ErrConfig = bijector.ErrConfig
	// ErrDimension reports a batch whose shape disagrees with the params.
	ErrDimension = bijector.ErrDimension
	// ErrParams reports params that do not belong to the bijector.
	ErrParams = bijector.ErrParams
	// ErrUnknownBijector reports an unknown name passed to Configure.
	ErrUnknownBijector = bijector.ErrUnknownBijector
)

// ConfigError describes a rejected configuration argument.
type ConfigError = bijector.ConfigError
