package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
)

// BookPayload returns a schema-valid create payload. The map is fresh on every
// call so tests can mutate it.
func BookPayload() map[string]any {
	return map[string]any{
		"isbn":       "0393307050",
		"amazon_url": "https://www.amazon.com/Master-And-Commander",
		"author":     "Patrick O'Brian",
		"language":   "english",
		"pages":      400,
		"publisher":  "W. W. Norton & Company",
		"title":      "Master and Commander",
		"year":       2021,
	}
}

// UpdatePayload returns BookPayload without the isbn key.
func UpdatePayload() map[string]any {
	p := BookPayload()
	delete(p, "isbn")
	return p
}

// NewRequest creates a new HTTP request for testing. A string body is sent verbatim.
func NewRequest(method, path string, body interface{}) *http.Request {
	var r *http.Request
	switch b := body.(type) {
	case nil:
		r = httptest.NewRequest(method, path, nil)
	case string:
		r = httptest.NewRequest(method, path, strings.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
	default:
		bodyBytes, _ := json.Marshal(b)
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()
	return decode(result)
}

// ReadResponse decodes a response received from a live test server.
func ReadResponse(resp *http.Response) RecordResponse {
	defer resp.Body.Close()
	return decode(resp)
}

func decode(resp *http.Response) RecordResponse {
	bodyBytes, _ := io.ReadAll(resp.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   resp.StatusCode,
		Header: resp.Header,
		Body:   bodyMap,
	}
}

// ErrorMessages extracts error.message as a list of strings.
func ErrorMessages(body map[string]interface{}) []string {
	errBody, _ := body["error"].(map[string]interface{})
	switch m := errBody["message"].(type) {
	case []interface{}:
		out := make([]string, 0, len(m))
		for _, v := range m {
			s, _ := v.(string)
			out = append(out, s)
		}
		return out
	case string:
		return []string{m}
	}
	return nil
}
