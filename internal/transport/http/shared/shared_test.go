package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query  string
		limit  int
		offset int
	}{
		{"", 100, 0},
		{"?limit=20&offset=40", 20, 40},
		{"?limit=9999", 500, 0},
		{"?limit=-1&offset=-5", 100, 0},
		{"?limit=abc", 100, 0},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/audit"+tt.query, nil)
		page := ParsePagination(req, 100, 500)
		if page.Limit != tt.limit || page.Offset != tt.offset {
			t.Fatalf("%q: got %+v", tt.query, page)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana","extra":1}`))
	if !DecodeJSON(rec, req, &dst, "") || dst.Name != "Ana" {
		t.Fatalf("expected decode to succeed, got %+v", dst)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	if DecodeJSON(rec, req, &dst, "") {
		t.Fatal("expected decode failure")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if DecodeJSON(rec, req, &dst, "") {
		t.Fatal("expected empty body failure")
	}
}

func TestDecodeJSONNamesWronglyTypedField(t *testing.T) {
	var dst struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	tests := []struct {
		body  string
		field string
	}{
		{`{"name":123}`, `{"field":"name","reason":"must be a string"}`},
		{`{"name":"Ana","count":"two"}`, `{"field":"count","reason":"must be a number"}`},
		{`[1,2]`, `{"field":"body","reason":"must be an object"}`},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
		if DecodeJSON(rec, req, &dst, "") {
			t.Fatalf("%s: expected decode failure", tt.body)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tt.body, rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `"code":"validation_error"`) || !strings.Contains(body, tt.field) {
			t.Fatalf("%s: unexpected body %s", tt.body, body)
		}
	}
}
