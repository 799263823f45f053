package database

import (
	"encoding/json"
	"fmt"
)

// MarshalJSONColumn encodes v for storage in a JSON/JSONB column. Nil slices become "[]".
func MarshalJSONColumn[T any](v []T) ([]byte, error) {
	if v == nil {
		v = []T{}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	return raw, nil
}

// UnmarshalJSONColumn decodes a JSON column into dst. NULL and empty columns are left untouched.
func UnmarshalJSONColumn(raw []byte, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode json column: %w", err)
	}
	return nil
}
