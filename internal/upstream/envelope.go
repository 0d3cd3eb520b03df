package upstream

import "encoding/json"

// The school API wraps the same logical list three ways depending on endpoint
// and version: a bare array, {"data": [...]}, or a named key like {"bills":
// [...]}. Normalize enumerates the accepted shapes in that order and hands the
// rest of the pipeline a plain slice. Anything unrecognizable is an empty
// list, never an error.

// Normalize extracts the list payload from any accepted envelope shape.
func Normalize(raw []byte, keys ...string) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		return items
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil
	}
	for _, key := range append([]string{"data"}, keys...) {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &items); err == nil {
			return items
		}
	}
	return nil
}

// decodeList normalizes the envelope and decodes each element, skipping
// elements that fail to decode rather than failing the whole list.
func decodeList[T any](raw []byte, keys ...string) []T {
	items := Normalize(raw, keys...)
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// normalizeObject unwraps {"data": {...}} one level for single-object payloads.
func normalizeObject(raw []byte) []byte {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		return envelope.Data
	}
	return raw
}
