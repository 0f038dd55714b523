package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"production-ledger/internal/service/alerts"
)

type MockAlertFeed struct {
	mock.Mock
}

func (m *MockAlertFeed) Alerts(ctx context.Context) ([]alerts.Alert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]alerts.Alert), args.Error(1)
}

func TestGetAlerts(t *testing.T) {
	feed := new(MockAlertFeed)
	feed.On("Alerts", mock.Anything).Return([]alerts.Alert{
		{SourceID: "CNC-03", Kind: alerts.KindMachine, Severity: alerts.SeverityCritical, Message: "Machine EDM is in error state"},
	}, nil)

	rr := httptest.NewRecorder()
	GetAlerts(slog.Default(), feed).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/alerts", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"source_id":"CNC-03"`)
	assert.NotContains(t, rr.Body.String(), "cost_if_resolved")
}

func TestGetAlerts_EmptyIsArray(t *testing.T) {
	feed := new(MockAlertFeed)
	feed.On("Alerts", mock.Anything).Return(nil, nil)

	rr := httptest.NewRecorder()
	GetAlerts(slog.Default(), feed).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/alerts", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestGetAlerts_SourceFailure(t *testing.T) {
	feed := new(MockAlertFeed)
	feed.On("Alerts", mock.Anything).Return(nil, errors.New("issues: timeout"))

	rr := httptest.NewRecorder()
	GetAlerts(slog.Default(), feed).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/alerts", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
