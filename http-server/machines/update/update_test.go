package update

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"production-ledger/internal/storage"
)

type MockMachineStatusSetter struct {
	mock.Mock
}

func (m *MockMachineStatusSetter) SetMachineStatus(ctx context.Context, id string, status storage.MachineStatus, fault string) error {
	args := m.Called(ctx, id, status, fault)
	return args.Error(0)
}

func serve(setter MachineStatusSetter, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/admin/machines/"+id+"/status", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	UpdateMachineStatusAdmin(slog.Default(), setter).ServeHTTP(rr, req)
	return rr
}

func TestUpdateMachineStatusAdmin_Fault(t *testing.T) {
	setter := new(MockMachineStatusSetter)
	setter.On("SetMachineStatus", mock.Anything, "CNC-02", storage.MachineError, "coolant low").Return(nil)

	rr := serve(setter, "CNC-02", `{"status": "error", "fault_message": "coolant low"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	setter.AssertExpectations(t)
}

func TestUpdateMachineStatusAdmin_RunningIsRefused(t *testing.T) {
	setter := new(MockMachineStatusSetter)

	rr := serve(setter, "CNC-02", `{"status": "running"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	setter.AssertNotCalled(t, "SetMachineStatus")
}

func TestUpdateMachineStatusAdmin_UnknownMachine(t *testing.T) {
	setter := new(MockMachineStatusSetter)
	setter.On("SetMachineStatus", mock.Anything, "CNC-99", storage.MachineIdle, "").
		Return(fmt.Errorf("set: %w", storage.ErrNotFound))

	rr := serve(setter, "CNC-99", `{"status": "idle"}`)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
