package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Answers decodes a quiz answer list whose elements are strings or
// nested lists of strings, flattened in order.
type Answers []string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Answers) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("answers must be a list: %w", err)
	}
	flat := make([]string, 0, len(raw))
	if err := flatten(raw, &flat); err != nil {
		return err
	}
	*a = flat
	return nil
}

func flatten(items []interface{}, out *[]string) error {
	for _, item := range items {
		switch v := item.(type) {
		case string:
			*out = append(*out, v)
		case []interface{}:
			if err := flatten(v, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("answers may only contain strings, got %T", item)
		}
	}
	return nil
}

// Keywords returns the answers lowercased and trimmed, blanks dropped.
func (a Answers) Keywords() []string {
	out := make([]string, 0, len(a))
	for _, s := range a {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
