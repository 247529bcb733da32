// Package transform turns validated snapshot records into ordered batches of
// idempotent upsert statements, one unit per entity type.
package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// All statement text in this package goes through the encoders below. Nothing
// interpolates raw values into SQL anywhere else.

// Quote returns the SQL string literal for s. Embedded quote characters are
// doubled per the statement literal syntax.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Int returns the SQL literal for an integer value.
func Int(v int64) string {
	return strconv.FormatInt(v, 10)
}

// NullableString resolves an optional string at the encoding boundary:
// nil becomes the NULL literal, which is distinct from the empty string.
func NullableString(p *string) string {
	if p == nil {
		return "NULL"
	}
	return Quote(*p)
}

// NullableInt resolves an optional integer: nil becomes the NULL literal,
// which is distinct from the numeric literal 0.
func NullableInt(p *int64) string {
	if p == nil {
		return "NULL"
	}
	return Int(*p)
}

// JSONValue serializes a structured value to its canonical compact textual
// form and quotes it. A nil or empty raw message becomes NULL.
func JSONValue(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "NULL", nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", fmt.Errorf("serializing json value: %w", err)
	}
	return Quote(buf.String()), nil
}
