package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// marshalAttributes encodes an attribute bag as JSON for the jsonb
// column. A nil bag stores as an empty object.
func marshalAttributes(attrs map[string]any) ([]byte, error) {
	if attrs == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("marshal attributes: %w", err)
	}
	return b, nil
}

// unmarshalAttributes decodes a jsonb attribute bag, keeping integers as
// int64 instead of collapsing every number to float64.
func unmarshalAttributes(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal attributes: %w", err)
	}
	attrs := make(map[string]any, len(raw))
	for k, v := range raw {
		if num, ok := v.(json.Number); ok {
			if n, err := num.Int64(); err == nil {
				attrs[k] = n
				continue
			}
			f, err := num.Float64()
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", k, err)
			}
			attrs[k] = f
			continue
		}
		attrs[k] = v
	}
	return attrs, nil
}
