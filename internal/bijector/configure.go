package bijector

import (
	"fmt"
	"slices"
)

// builder constructs a bijector from positional arguments.
type builder struct {
	minArgs, maxArgs int // maxArgs < 0 means variadic
	build            func(args []any) (Bijector, error)
}

// registry is filled in init to break the initialization cycle through
// Chain, whose links may themselves be descriptors.
var registry map[string]builder

func init() {
	registry = map[string]builder{
		"Reverse": {0, 0, func([]any) (Bijector, error) { return NewReverse(), nil }},
		"Shuffle": {0, 0, func([]any) (Bijector, error) { return NewShuffle(), nil }},
		"Roll":    {0, 1, buildRoll},
		"Scale":   {1, 1, buildScale},

		"InvSoftplus":           {0, 2, buildInvSoftplus},
		"StandardScaler":        {2, 2, buildStandardScaler},
		"ColorTransform":        {2, 2, buildColorTransform},
		"Chain":                 {1, -1, buildChain},
		"NeuralSplineCoupling":  {0, 5, buildNeuralSplineCoupling},
		"RollingSplineCoupling": {1, 7, buildRollingSplineCoupling},
	}
}

// Names returns the names accepted by Configure, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Configure builds the named bijector from positional arguments and returns
// its initializer together with its descriptor.
//
// Arguments are validated eagerly. Integer parameters accept Go integer
// values or integral json.Numbers; floating-point parameters accept Go
// floats or json.Numbers and reject Go integers, so Configure("Scale", 2)
// fails while Configure("Scale", 2.0) succeeds.
//
// Positional arguments:
//
//	Reverse()
//	Shuffle()
//	Roll(shift=1)
//	Scale(factor)
//	InvSoftplus(columns=nil, sharpness=nil)
//	StandardScaler(means, stds)
//	ColorTransform(ref, bands)
//	Chain(links...)
//	NeuralSplineCoupling(K=16, B=5, hidden_layers=2, hidden_dim=128, split="interleaved")
//	RollingSplineCoupling(nlayers, shift=0, K=16, B=5, hidden_layers=2, hidden_dim=128, split="interleaved")
func Configure(name string, args ...any) (InitFunc, Descriptor, error) {
	b, err := build(name, args)
	if err != nil {
		return nil, Descriptor{}, err
	}
	return Initializer(b), b.Descriptor(), nil
}

// FromDescriptor rebuilds the bijector described by d.
func FromDescriptor(d Descriptor) (Bijector, error) {
	return build(d.Name, d.Args)
}

func build(name string, args []any) (Bijector, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", ErrConfig, ErrUnknownBijector, name)
	}
	if len(args) < b.minArgs || (b.maxArgs >= 0 && len(args) > b.maxArgs) {
		return nil, &ConfigError{
			Bijector: name,
			Details:  fmt.Sprintf("wrong number of arguments: got %d, want %s", len(args), arity(b)),
		}
	}
	return b.build(args)
}

func arity(b builder) string {
	switch {
	case b.maxArgs < 0:
		return fmt.Sprintf("at least %d", b.minArgs)
	case b.minArgs == b.maxArgs:
		return fmt.Sprint(b.minArgs)
	default:
		return fmt.Sprintf("%d to %d", b.minArgs, b.maxArgs)
	}
}

func buildRoll(args []any) (Bijector, error) {
	shift := 1
	if len(args) > 0 {
		var err error
		if shift, err = intArg("Roll", "shift", args[0]); err != nil {
			return nil, err
		}
	}
	return NewRoll(shift), nil
}

func buildScale(args []any) (Bijector, error) {
	factor, err := floatArg("Scale", "factor", args[0])
	if err != nil {
		return nil, err
	}
	return NewScale(factor)
}

func buildInvSoftplus(args []any) (Bijector, error) {
	var (
		cols      []int
		sharpness []float64
		err       error
	)
	if len(args) > 0 {
		if cols, err = intsArg("InvSoftplus", "columns", args[0]); err != nil {
			return nil, err
		}
	}
	if len(args) > 1 {
		if sharpness, err = floatsArg("InvSoftplus", "sharpness", args[1]); err != nil {
			return nil, err
		}
	}
	return NewInvSoftplus(cols, sharpness)
}

func buildStandardScaler(args []any) (Bijector, error) {
	means, err := floatsArg("StandardScaler", "means", args[0])
	if err != nil {
		return nil, err
	}
	stds, err := floatsArg("StandardScaler", "stds", args[1])
	if err != nil {
		return nil, err
	}
	return NewStandardScaler(means, stds)
}

func buildColorTransform(args []any) (Bijector, error) {
	ref, err := intArg("ColorTransform", "ref", args[0])
	if err != nil {
		return nil, err
	}
	bands, err := intsArg("ColorTransform", "bands", args[1])
	if err != nil {
		return nil, err
	}
	return NewColorTransform(ref, bands)
}

func buildChain(args []any) (Bijector, error) {
	links := make([]Bijector, len(args))
	for i, a := range args {
		b, err := bijectorArg("Chain", fmt.Sprintf("link %d", i), a)
		if err != nil {
			return nil, err
		}
		links[i] = b
	}
	return NewChain(links...)
}

// couplingConfig fills cfg from args laid out as
// [K, B, hidden_layers, hidden_dim, split]; missing trailing args keep
// their defaults.
func couplingConfig(bijector string, args []any) (CouplingConfig, error) {
	cfg := DefaultCouplingConfig()
	var err error
	for i, a := range args {
		switch i {
		case 0:
			cfg.K, err = intArg(bijector, "K", a)
		case 1:
			cfg.Bound, err = floatArg(bijector, "B", a)
		case 2:
			cfg.HiddenLayers, err = intArg(bijector, "hidden_layers", a)
		case 3:
			cfg.HiddenDim, err = intArg(bijector, "hidden_dim", a)
		case 4:
			var name string
			if name, err = stringArg(bijector, "split", a); err == nil {
				if cfg.Split, err = ParseSplit(name); err != nil {
					err = configErrorf(bijector, "split", "%v", err)
				}
			}
		}
		if err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func buildNeuralSplineCoupling(args []any) (Bijector, error) {
	cfg, err := couplingConfig("NeuralSplineCoupling", args)
	if err != nil {
		return nil, err
	}
	return NewNeuralSplineCoupling(cfg)
}

func buildRollingSplineCoupling(args []any) (Bijector, error) {
	layers, err := intArg("RollingSplineCoupling", "nlayers", args[0])
	if err != nil {
		return nil, err
	}
	shift := 0
	if len(args) > 1 {
		if shift, err = intArg("RollingSplineCoupling", "shift", args[1]); err != nil {
			return nil, err
		}
	}
	var rest []any
	if len(args) > 2 {
		rest = args[2:]
	}
	cfg, err := couplingConfig("RollingSplineCoupling", rest)
	if err != nil {
		return nil, err
	}
	return NewRollingSplineCoupling(layers, shift, cfg)
}
