package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// performRequest runs one request through a router and captures the response.
func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

type mockRefChecker struct {
	exists func(ctx context.Context, id int) (bool, error)
}

func (m *mockRefChecker) Exists(ctx context.Context, id int) (bool, error) {
	return m.exists(ctx, id)
}

func refAlwaysExists() *mockRefChecker {
	return &mockRefChecker{exists: func(context.Context, int) (bool, error) { return true, nil }}
}

func refNeverExists() *mockRefChecker {
	return &mockRefChecker{exists: func(context.Context, int) (bool, error) { return false, nil }}
}
