package main

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	inventoryhandler "rigcheck/internal/inventory/handler"
	inventorymocks "rigcheck/internal/inventory/handler/mocks"
	issuehandler "rigcheck/internal/issue/handler"
	issuemocks "rigcheck/internal/issue/handler/mocks"
	"rigcheck/pkg/platform/middleware/admin"
	"rigcheck/pkg/platform/middleware/auth"
	"rigcheck/pkg/testutil"
)

type rejectAll struct{}

func (rejectAll) ValidateToken(string) (*auth.Claims, error) { return nil, errors.New("no") }

func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctrl := gomock.NewController(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newRouter(routerDeps{
		log:       log,
		db:        db,
		validator: rejectAll{},
		opsToken:  "ops",
		inventory: inventoryhandler.New(inventorymocks.NewMockService(ctrl), log),
		issues:    issuehandler.New(issuemocks.NewMockService(ctrl), log),
	}), mock
}

func TestRouter(t *testing.T) {
	router, mock := newTestRouter(t)

	t.Run("health reports database state", func(t *testing.T) {
		mock.ExpectPing()
		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		rec = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("metrics require the ops token", func(t *testing.T) {
		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		req := testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil)
		req.Header.Set(admin.HeaderOpsToken, "ops")
		rec = testutil.DoRequest(router, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "rigcheck_http_requests_total")
	})

	t.Run("api routes require a bearer token", func(t *testing.T) {
		for _, path := range []string{"/checks/" + "00000000-0000-0000-0000-000000000001", "/issues/00000000-0000-0000-0000-000000000001"} {
			req := testutil.NewJSONRequest(t, http.MethodGet, path, nil)
			req.Header.Set("Authorization", "Bearer forged")
			testutil.AssertStatusAndError(t, testutil.DoRequest(router, req), http.StatusUnauthorized, "unauthorized")
		}
	})
}
