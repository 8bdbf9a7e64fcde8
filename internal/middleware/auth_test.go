package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func operatorEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetOperatorFromContext(r.Context())))
	})
}

func TestAccessKeyAuth(t *testing.T) {
	h := AccessKeyAuth(map[string]string{"procurement": "k-123"})(operatorEcho())

	cases := []struct {
		name   string
		path   string
		header string
		code   int
		body   string
	}{
		{"bearer", "/v1/workspaces", "Bearer k-123", http.StatusOK, "procurement"},
		{"bare key", "/v1/workspaces", "k-123", http.StatusOK, "procurement"},
		{"missing", "/v1/workspaces", "", http.StatusUnauthorized, ""},
		{"wrong", "/v1/workspaces", "Bearer nope", http.StatusUnauthorized, ""},
		{"health skipped", "/health/ready", "", http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusOK {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestAccessKeyAuthDisabledWithoutKeys(t *testing.T) {
	h := AccessKeyAuth(nil)(operatorEcho())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/reports", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
