package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireOpsToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name     string
		expected string
		header   string
		want     int
	}{
		{name: "disabled", expected: "", header: "", want: http.StatusOK},
		{name: "match", expected: "s3cret", header: "s3cret", want: http.StatusOK},
		{name: "missing", expected: "s3cret", header: "", want: http.StatusUnauthorized},
		{name: "mismatch", expected: "s3cret", header: "guess", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.header != "" {
				req.Header.Set(HeaderOpsToken, tt.header)
			}
			rec := httptest.NewRecorder()
			RequireOpsToken(tt.expected, logger)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
