package rest

import (
	"testing"

	"github.com/kbukum/netkit/httpclient"
)

func response(status int, body string) *httpclient.Response {
	return &httpclient.Response{StatusCode: status, Body: []byte(body)}
}

func TestDecode_Struct(t *testing.T) {
	got, err := Decode[testItem](response(200, `{"id":4,"name":"bow"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 4 || got.Name != "bow" {
		t.Errorf("unexpected value: %+v", got)
	}
}

func TestDecode_StringIsRaw(t *testing.T) {
	got, err := Decode[string](response(200, `{"not":"parsed"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"not":"parsed"}` {
		t.Errorf("unexpected text: %q", got)
	}

	empty, err := Decode[string](response(204, ""))
	if err != nil || empty != "" {
		t.Errorf("empty string body: %q, %v", empty, err)
	}
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace", "  \n"},
		{"null", "null"},
		{"malformed", `{"id":`},
		{"wrong type", `"text"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[testItem](response(201, tt.body))
			rerr, ok := httpclient.AsRestError(err)
			if !ok || rerr.Kind != httpclient.KindDecode {
				t.Fatalf("expected decode error, got %v", err)
			}
			if rerr.StatusCode != 201 {
				t.Errorf("status = %d, want 201", rerr.StatusCode)
			}
			if string(rerr.Body) != tt.body {
				t.Errorf("body = %q, want %q", rerr.Body, tt.body)
			}
		})
	}
}

func TestDecode_NilPointerResult(t *testing.T) {
	_, err := Decode[*testItem](response(200, "null"))
	if !IsDecode(err) {
		t.Errorf("expected decode error, got %v", err)
	}

	got, err := Decode[*testItem](response(200, `{"id":1}`))
	if err != nil || got == nil || got.ID != 1 {
		t.Errorf("pointer decode: %+v, %v", got, err)
	}
}

func TestDecode_EmptyCollectionsAreValues(t *testing.T) {
	list, err := Decode[[]testItem](response(200, "[]"))
	if err != nil || list == nil || len(list) != 0 {
		t.Errorf("empty list: %v, %v", list, err)
	}
	m, err := Decode[map[string]int](response(200, "{}"))
	if err != nil || m == nil {
		t.Errorf("empty map: %v, %v", m, err)
	}
}

func TestDecodePath(t *testing.T) {
	body := `{"data":{"player":{"id":9,"name":"kai"}},"meta":{"v":1}}`

	got, err := DecodePath[testItem](response(200, body), "data.player")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 9 || got.Name != "kai" {
		t.Errorf("unexpected value: %+v", got)
	}

	name, err := DecodePath[string](response(200, body), "data.player.name")
	if err != nil || name != "kai" {
		t.Errorf("string path: %q, %v", name, err)
	}

	_, err = DecodePath[testItem](response(200, body), "data.missing")
	if !IsDecode(err) {
		t.Errorf("missing path should be a decode error, got %v", err)
	}

	_, err = DecodePath[testItem](response(200, `{"data":null}`), "data")
	if !IsDecode(err) {
		t.Errorf("null at path should be a decode error, got %v", err)
	}

	_, err = DecodePath[testItem](response(200, `not json`), "data")
	if !IsDecode(err) {
		t.Errorf("invalid document should be a decode error, got %v", err)
	}
}

func TestDecodePath_NestedStringDocument(t *testing.T) {
	body := `{"data":"{\"id\":5,\"name\":\"gem\"}"}`
	got, err := DecodePath[testItem](response(200, body), "data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 5 || got.Name != "gem" {
		t.Errorf("unexpected value: %+v", got)
	}
}
