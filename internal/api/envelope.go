package api

import (
	"bytes"
	"encoding/json"
)

// List responses come in a few shapes. These are the only ones handled:
//
//	[ ... ]
//	{"transactions": [ ... ]}   (or "customers")
//	{"items": [ ... ]}
//	{"data": [ ... ]}
//	{"results": [ ... ]}
//	{"records": [ ... ]}
//
// Anything else normalizes to an empty list.
var envelopeKeys = []string{"items", "data", "results", "records"}

// normalizeList extracts the element list from a list response. primary is
// the resource's own plural key and is tried first.
func normalizeList(body []byte, primary string) []json.RawMessage {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	var list []json.RawMessage
	if body[0] == '[' {
		if json.Unmarshal(body, &list) == nil {
			return list
		}
		return nil
	}

	var obj map[string]json.RawMessage
	if json.Unmarshal(body, &obj) != nil {
		return nil
	}
	for _, key := range append([]string{primary}, envelopeKeys...) {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		if json.Unmarshal(raw, &list) == nil {
			return list
		}
	}
	return nil
}
