// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package bijector provides invertible transforms with tractable Jacobians
// for building normalizing flows.
//
// # Overview
//
// This package contains:
//   - Elementary bijectors: Reverse, Roll, Scale, Shuffle, InvSoftplus,
//     StandardScaler, ColorTransform
//   - Composition: Chain
//   - Learnable layers: NeuralSplineCoupling, RollingSplineCoupling
//   - Dynamic configuration: Configure, FromDescriptor, Descriptor
//   - Row-sharded execution: Compile
//
// # Basic Usage
//
//	import "github.com/born-ml/bijectors/bijector"
//
//	func main() {
//	    scale, _ := bijector.NewScale(0.5)
//	    chain, _ := bijector.NewChain(bijector.NewReverse(), scale, bijector.NewRoll(1))
//
//	    params, _ := chain.Initialize(bijector.NewKey(0), 7)
//	    y, logDet, _ := chain.Forward(params, x)      // x is a [N, 7] *mat.Dense
//	    back, _, _ := chain.Inverse(params, y)
//	}
//
// # Lifecycle
//
// A bijector is configured first; constructors validate their arguments
// and return errors wrapping ErrConfig. Initialize then fixes the dimension
// and draws any random parameters from a Key. Forward and Inverse are pure
// functions of the params and the batch and may run concurrently or through
// Compile.
//
// # Dynamic Configuration
//
// Configure builds a bijector by name from positional arguments, the form
// used when flows are described by data:
//
//	initFn, desc, err := bijector.Configure("RollingSplineCoupling", 2)
//	params, forward, inverse, err := initFn(bijector.NewKey(0), 7)
//
// Every bijector reports a Descriptor, which encodes to JSON and rebuilds
// the same bijector through FromDescriptor.
package bijector
