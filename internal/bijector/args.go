package bijector

import (
	"encoding/json"
	"math"
)

// Argument coercion for Configure. Integer parameters accept Go integer
// kinds and integral json.Numbers; floating-point parameters accept Go
// float kinds and json.Numbers but reject Go integer kinds.

func intArg(bijector, name string, v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int8:
		return int(x), nil
	case int16:
		return int(x), nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case uint8:
		return int(x), nil
	case uint16:
		return int(x), nil
	case uint32:
		return int(x), nil
	case uint:
		if x > math.MaxInt {
			return 0, configErrorf(bijector, name, "integer %d overflows int", x)
		}
		return int(x), nil
	case uint64:
		if x > math.MaxInt {
			return 0, configErrorf(bijector, name, "integer %d overflows int", x)
		}
		return int(x), nil
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, configErrorf(bijector, name, "must be an integer, got %s", x)
		}
		return int(i), nil
	case float32, float64:
		return 0, configErrorf(bijector, name, "must be an integer, got %v", x)
	default:
		return 0, configErrorf(bijector, name, "must be an integer, got %T", v)
	}
}

func floatArg(bijector, name string, v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, configErrorf(bijector, name, "must be a number, got %s", x)
		}
		return f, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return 0, configErrorf(bijector, name, "must be a floating-point value, got integer %v", x)
	default:
		return 0, configErrorf(bijector, name, "must be a floating-point value, got %T", v)
	}
}

func stringArg(bijector, name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", configErrorf(bijector, name, "must be a string, got %T", v)
	}
	return s, nil
}

// intsArg accepts nil, a single integer, []int or a list of integers.
func intsArg(bijector, name string, v any) ([]int, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []int:
		return append([]int{}, x...), nil
	case []any:
		out := make([]int, len(x))
		for i, e := range x {
			n, err := intArg(bijector, name, e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		n, err := intArg(bijector, name, v)
		if err != nil {
			return nil, err
		}
		return []int{n}, nil
	}
}

// floatsArg accepts nil, a single float, []float64 or a list of floats.
func floatsArg(bijector, name string, v any) ([]float64, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []float64:
		return append([]float64{}, x...), nil
	case []any:
		out := make([]float64, len(x))
		for i, e := range x {
			f, err := floatArg(bijector, name, e)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	default:
		f, err := floatArg(bijector, name, v)
		if err != nil {
			return nil, err
		}
		return []float64{f}, nil
	}
}

func bijectorArg(bijector, name string, v any) (Bijector, error) {
	switch x := v.(type) {
	case Bijector:
		return x, nil
	case Descriptor:
		return FromDescriptor(x)
	case *Descriptor:
		if x == nil {
			return nil, configErrorf(bijector, name, "nil descriptor")
		}
		return FromDescriptor(*x)
	default:
		return nil, configErrorf(bijector, name, "must be a bijector or descriptor, got %T", v)
	}
}
