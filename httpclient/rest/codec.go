package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"

	"github.com/kbukum/netkit/httpclient"
)

// Decode converts a successful response into T.
//
// When T is string the raw body text is returned unchanged. Otherwise the
// body is decoded as JSON; an empty body, a literal null, a nil result or a
// parse failure is a decode *httpclient.RestError carrying the original
// status and body.
func Decode[T any](resp *httpclient.Response) (T, error) {
	return DecodePath[T](resp, "")
}

// DecodePath is Decode applied to the value at a gjson path. A string value
// that itself holds a JSON document is unwrapped once.
func DecodePath[T any](resp *httpclient.Response, path string) (T, error) {
	var out T
	raw := resp.Body

	if path != "" {
		if !gjson.ValidBytes(raw) {
			return out, decodeError(resp, "JSON parse failed: invalid document", nil)
		}
		res := gjson.GetBytes(raw, path)
		if !res.Exists() {
			return out, decodeError(resp, fmt.Sprintf("JSON path %q not found", path), nil)
		}
		if s, ok := any(&out).(*string); ok {
			*s = res.String()
			return out, nil
		}
		raw = []byte(res.Raw)
		if res.Type == gjson.String && gjson.Valid(res.Str) {
			raw = []byte(res.Str)
		}
	} else if s, ok := any(&out).(*string); ok {
		*s = resp.Text()
		return out, nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return out, decodeError(resp, "JSON parse failed: empty body", nil)
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return out, decodeError(resp, "JSON parse produced null", nil)
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, decodeError(resp, "JSON parse failed: "+err.Error(), err)
	}
	if isNil(out) {
		return out, decodeError(resp, "JSON parse produced null", nil)
	}
	return out, nil
}

func decodeError(resp *httpclient.Response, msg string, err error) *httpclient.RestError {
	return httpclient.NewDecodeError(resp.StatusCode, resp.Body, msg, err)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
