package utils

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONValue encodes v for storage in a jsonb column.
func JSONValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("JSONValue: marshal failed: %w", err)
	}
	return b, nil
}

// JSONScan decodes a jsonb column into dst. NULL leaves dst untouched.
func JSONScan(value any, dst any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("JSONScan: expected []byte or string but got %T", value)
	}
}
