package base

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/imeji/pkg/imeji"
)

// ParseProperties parses "key=value" pairs separated by semicolons into
// resource fields. Values starting with '{' or '[' are decoded as JSON so
// that nested fields such as metadata can be given on the command line.
func ParseProperties(s string) (imeji.Fields, error) {
	fields := imeji.Fields{}
	if strings.TrimSpace(s) == "" {
		return fields, nil
	}

	for _, pair := range strings.Split(s, ";") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid property %q: expected key=value", pair)
		}

		if v := strings.TrimSpace(value); strings.HasPrefix(v, "{") || strings.HasPrefix(v, "[") {
			dec := json.NewDecoder(bytes.NewReader([]byte(v)))
			dec.UseNumber()
			var decoded any
			if err := dec.Decode(&decoded); err != nil {
				return nil, fmt.Errorf("invalid JSON value for property %q: %w", key, err)
			}
			fields[key] = decoded
			continue
		}
		fields[key] = value
	}
	return fields, nil
}
