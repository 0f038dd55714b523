package main

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"production-ledger/internal/config"
	"production-ledger/internal/service/authorize"
	"production-ledger/internal/service/evm"
	"production-ledger/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	f, err := os.Open("../../config/fixtures.json")
	require.NoError(t, err)
	defer f.Close()

	st, err := memory.Open(f)
	require.NoError(t, err)

	cfg := config.Config{
		AdminLogin:     "admin",
		AdminPass:      "pw",
		AllowedOrigins: []string{"http://localhost:5173"},
		LookupTimeout:  time.Second,
	}

	srv := httptest.NewServer(routes(cfg, slog.Default(), st, newServices(cfg, st)))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string, withAuth bool) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if withAuth {
		req.SetBasicAuth("admin", "pw")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decision(t *testing.T, resp *http.Response) authorize.Decision {
	t.Helper()
	var d authorize.Decision
	require.NoError(t, render.DecodeJSON(resp.Body, &d))
	return d
}

func TestProductionFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/production/start",
		`{"operator_id": "OP-101", "machine_id": "CNC-01", "work_order_id": "WO-1001"}`, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, authorize.Approved, decision(t, resp).Outcome)

	resp = do(t, http.MethodPost, srv.URL+"/api/production/start",
		`{"operator_id": "OP-101", "machine_id": "CNC-01", "work_order_id": "WO-1003"}`, false)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, authorize.MachineBusy, decision(t, resp).Outcome)

	resp = do(t, http.MethodPost, srv.URL+"/api/production/start",
		`{"operator_id": "OP-101", "machine_id": "CNC-02", "work_order_id": "WO-1001"}`, false)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, authorize.WorkOrderNotPending, decision(t, resp).Outcome)

	resp = do(t, http.MethodPost, srv.URL+"/api/production/start",
		`{"operator_id": "OP-102", "machine_id": "CNC-02", "work_order_id": "WO-1002"}`, false)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, authorize.RejectedQualityHold, decision(t, resp).Outcome)

	resp = do(t, http.MethodGet, srv.URL+"/api/projects/PRJ-7/evm", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap evm.Snapshot
	require.NoError(t, render.DecodeJSON(resp.Body, &snap))
	assert.Equal(t, 500.0, snap.AC)

	resp = do(t, http.MethodPost, srv.URL+"/api/production/complete",
		`{"operator_id": "OP-101", "machine_id": "CNC-01"}`, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/production/start",
		`{"operator_id": "OP-101", "machine_id": "CNC-01", "work_order_id": "WO-1001"}`, false)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	d := decision(t, resp)
	assert.Equal(t, authorize.WorkOrderNotPending, d.Outcome)
	assert.Equal(t, "completed", string(d.WorkOrderStatus))

	resp = do(t, http.MethodPost, srv.URL+"/api/production/complete",
		`{"operator_id": "OP-999", "machine_id": "CNC-01"}`, false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/traceability?work_order_id=WO-1001", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAlertResolveFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/alerts", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var feed []map[string]interface{}
	require.NoError(t, render.DecodeJSON(resp.Body, &feed))
	require.Len(t, feed, 3)
	assert.Equal(t, "CNC-03", feed[0]["source_id"])
	assert.Equal(t, "NCR-2024-017", feed[1]["source_id"])
	assert.Equal(t, "PM-55", feed[2]["source_id"])

	resp = do(t, http.MethodPost, srv.URL+"/api/alerts/PM-55/resolve", "", false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/alerts/PM-55/resolve", "", false)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/alerts/NCR-2024-017/resolve", "", false)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/projects/PRJ-7/evm", "", false)
	var snap evm.Snapshot
	require.NoError(t, render.DecodeJSON(resp.Body, &snap))
	assert.Equal(t, 850.0, snap.AC)
}

func TestAdminLiftsQualityHold(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPut, srv.URL+"/api/admin/fai/PN-99887-D", `{"status": "approved"}`, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/api/admin/fai/PN-99887-D", `{"status": "approved", "note": "CAPA closed"}`, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/production/start",
		`{"operator_id": "OP-102", "machine_id": "CNC-02", "work_order_id": "WO-1002"}`, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, authorize.Approved, decision(t, resp).Outcome)

	resp = do(t, http.MethodGet, srv.URL+"/api/fai/PN-99887-D", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fai struct {
		Current struct {
			Status string `json:"status"`
		} `json:"current"`
		History []map[string]interface{} `json:"history"`
	}
	require.NoError(t, render.DecodeJSON(resp.Body, &fai))
	assert.Equal(t, "approved", fai.Current.Status)
	require.Len(t, fai.History, 2)
	assert.Equal(t, "rejected", fai.History[0]["status"])
}

func TestLedgerReport(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/report/ledger.xlsx?project_id=PRJ-7", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Ledger_PRJ-7_")

	resp = do(t, http.MethodGet, srv.URL+"/api/report/ledger.xlsx?project_id=NOPE", "", false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMachineFaultRaisesAlertAndBlocksStarts(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPut, srv.URL+"/api/admin/machines/CNC-02/status",
		`{"status": "error", "fault_message": "coolant low"}`, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/alerts", "", false)
	var feed []map[string]interface{}
	require.NoError(t, render.DecodeJSON(resp.Body, &feed))
	require.GreaterOrEqual(t, len(feed), 2)
	assert.Equal(t, "CNC-02", feed[0]["source_id"])
	assert.Equal(t, "CNC-03", feed[1]["source_id"])

	resp = do(t, http.MethodPost, srv.URL+"/api/production/start",
		`{"operator_id": "OP-101", "machine_id": "CNC-02", "work_order_id": "WO-1001"}`, false)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	d := decision(t, resp)
	assert.Equal(t, authorize.MachineBusy, d.Outcome)
	assert.Equal(t, "error", string(d.MachineStatus))
}
