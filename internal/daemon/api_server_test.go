package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aryan-Kanada/FSMFINAL/internal/api"
	"github.com/Aryan-Kanada/FSMFINAL/internal/daemon"
	"github.com/Aryan-Kanada/FSMFINAL/internal/logging"
	"github.com/Aryan-Kanada/FSMFINAL/internal/plc"
	"github.com/Aryan-Kanada/FSMFINAL/internal/testsupport"
)

func startAPIDaemon(t *testing.T, token string) (*daemon.Daemon, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIToken = token

	d, err := daemon.New(cfg, plc.NewSimPort(), logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(func() { _ = d.Close() })

	return d, "http://" + d.APIAddr()
}

func TestAPIHealth(t *testing.T) {
	_, base := startAPIDaemon(t, "")

	resp, err := http.Get(base + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "ok", payload["status"])
}

func TestAPIStoreAndPositions(t *testing.T) {
	_, base := startAPIDaemon(t, "")

	body, _ := json.Marshal(map[string]any{"product_id": "WIDGET"})
	resp, err := http.Post(base+"/api/store", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var accepted map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accepted))
	assert.NotEmpty(t, accepted["task_id"])

	require.Eventually(t, func() bool {
		r, err := http.Get(base + "/api/positions")
		if err != nil {
			return false
		}
		defer r.Body.Close()
		var positions api.PositionListResponse
		if err := json.NewDecoder(r.Body).Decode(&positions); err != nil {
			return false
		}
		return positions.Positions[0].State == "occupied"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestAPIRetrieveValidation(t *testing.T) {
	_, base := startAPIDaemon(t, "")

	body, _ := json.Marshal(map[string]any{"position": 3})
	resp, err := http.Post(base+"/api/retrieve", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	// Position 3 is empty, so the submission is rejected up front.
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPIFindAndHistory(t *testing.T) {
	_, base := startAPIDaemon(t, "")

	body, _ := json.Marshal(map[string]any{"product_id": "GEAR", "position": 2})
	resp, err := http.Post(base+"/api/store", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Eventually(t, func() bool {
		r, err := http.Get(base + "/api/find?product=GEAR")
		if err != nil {
			return false
		}
		defer r.Body.Close()
		var found api.FindResponse
		if err := json.NewDecoder(r.Body).Decode(&found); err != nil {
			return false
		}
		return len(found.Positions) == 1 && found.Positions[0].ID == 2
	}, 2*time.Second, 20*time.Millisecond)

	r, err := http.Get(base + "/api/history")
	require.NoError(t, err)
	defer r.Body.Close()
	var history api.HistoryResponse
	require.NoError(t, json.NewDecoder(r.Body).Decode(&history))
	require.Len(t, history.Records, 1)
	assert.Equal(t, "store", history.Records[0].Kind)

	// Missing product parameter is a client error.
	bad, err := http.Get(base + "/api/find")
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestAPIBearerToken(t *testing.T) {
	_, base := startAPIDaemon(t, "sekrit")

	resp, err := http.Get(base + "/api/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, base+"/api/status", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer sekrit")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status api.DaemonStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status.Running)

	// Health stays open even with a token configured.
	resp2, err := http.Get(base + "/health")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestAPIMethodNotAllowed(t *testing.T) {
	_, base := startAPIDaemon(t, "")

	resp, err := http.Post(base+"/api/status", "application/json", bytes.NewReader(nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(fmt.Sprintf("%s/api/refresh", base))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
