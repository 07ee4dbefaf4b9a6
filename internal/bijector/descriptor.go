package bijector

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Descriptor records how a bijector was configured: its name and the
// positional arguments it was built from.
//
// Descriptors are plain data for reporting and for external serializers;
// FromDescriptor rebuilds the bijector. Chain arguments are nested
// Descriptors.
type Descriptor struct {
	Name string `json:"name"`
	Args []any  `json:"args"`
}

// String returns a compact human-readable form, e.g. Scale(2).
func (d Descriptor) String() string {
	var buf bytes.Buffer
	buf.WriteString(d.Name)
	buf.WriteByte('(')
	for i, a := range d.Args {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprint(&buf, a)
	}
	buf.WriteByte(')')
	return buf.String()
}

// UnmarshalJSON decodes a descriptor.
//
// Numbers are kept as json.Number so that integer and floating-point
// arguments are validated by the bijector being rebuilt; nested
// {"name", "args"} objects decode as Descriptors.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string            `json:"name"`
		Args []json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Name == "" {
		return fmt.Errorf("descriptor: missing name")
	}

	args := make([]any, len(raw.Args))
	for i, msg := range raw.Args {
		v, err := decodeArg(msg)
		if err != nil {
			return fmt.Errorf("descriptor %s: arg %d: %w", raw.Name, i, err)
		}
		args[i] = v
	}

	d.Name = raw.Name
	d.Args = args
	return nil
}

func decodeArg(msg json.RawMessage) (any, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) > 0 && msg[0] == '{' {
		var nested Descriptor
		if err := json.Unmarshal(msg, &nested); err != nil {
			return nil, err
		}
		return nested, nil
	}

	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
