package connector

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carehaven-edgesim/internal/config"
	"carehaven-edgesim/internal/models"
)

func newTestClient(url string) *EdgeClient {
	cfg := &config.Config{}
	cfg.EdgeConnector.URL = url
	cfg.EdgeConnector.FunctionCode = "test-code"
	cfg.EdgeConnector.TimeoutSec = 5
	cfg.EdgeConnector.RetryCount = 0

	return NewEdgeClient(cfg, zap.NewNop())
}

func TestIngestSession_Success(t *testing.T) {
	var gotCode string
	var gotBody models.CognitiveSession

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCode = r.URL.Query().Get("code")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(IngestResponse{
			Status:         "success",
			DocumentID:     "doc-1",
			PatientID:      gotBody.PatientID,
			CognitiveIndex: 0.7312,
			Timestamp:      gotBody.SessionDate,
			MLModelStatus:  "success",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	session := &models.CognitiveSession{
		DeviceID:    "SPK-001",
		PatientID:   "patient-123",
		SessionDate: "2025-09-01T08:30:00Z",
	}

	resp, err := client.IngestSession(session)

	require.NoError(t, err)
	assert.Equal(t, "test-code", gotCode)
	assert.Equal(t, "patient-123", gotBody.PatientID)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "doc-1", resp.DocumentID)
	assert.Equal(t, 0.7312, resp.CognitiveIndex)
	assert.Equal(t, "success", resp.MLModelStatus)
}

func TestIngestSession_FallbackIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(IngestResponse{
			Status:         "success",
			DocumentID:     "doc-2",
			PatientID:      "patient-123",
			CognitiveIndex: 0.4418,
			MLModelStatus:  "fallback_used",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.IngestSession(&models.CognitiveSession{PatientID: "patient-123"})

	require.NoError(t, err)
	assert.Equal(t, "fallback_used", resp.MLModelStatus)
	assert.Equal(t, 0.4418, resp.CognitiveIndex)
}

func TestIngestSession_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Failed to store data"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.IngestSession(&models.CognitiveSession{PatientID: "patient-123"})

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "status 500")
}

func TestIngestSession_NilSession(t *testing.T) {
	client := newTestClient("http://localhost:0")

	resp, err := client.IngestSession(nil)

	assert.Error(t, err)
	assert.Nil(t, resp)
}
