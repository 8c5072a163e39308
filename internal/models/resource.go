package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Resource is a server-returned object decoded without a fixed schema. The
// API is loose about types (ids and prices arrive as numbers, the form holds
// strings), so values are kept as decoded and converted on access.
type Resource map[string]any

// DecodeResource parses a single JSON object. Numbers are kept as
// json.Number so they print exactly as the server sent them.
func DecodeResource(data []byte) (Resource, error) {
	var r Resource
	if err := decode(data, &r); err != nil {
		return nil, fmt.Errorf("decode resource: %w", err)
	}
	if r == nil {
		r = Resource{}
	}
	return r, nil
}

// DecodeResources parses a JSON array of objects.
func DecodeResources(data []byte) ([]Resource, error) {
	var rs []Resource
	if err := decode(data, &rs); err != nil {
		return nil, fmt.Errorf("decode resource list: %w", err)
	}
	return rs, nil
}

func decode(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(dst)
}

// String returns the value under key rendered as a string. Absent and null
// values yield "".
func (r Resource) String(key string) string {
	if r == nil {
		return ""
	}
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// Bool reports the value under key as a boolean. Strings are accepted the
// way the REST API accepts query flags ("true", "yes", "1").
func (r Resource) Bool(key string) bool {
	if r == nil {
		return false
	}
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		switch v {
		case "true", "True", "TRUE", "yes", "1":
			return true
		}
	case json.Number:
		return v.String() != "0"
	}
	return false
}
