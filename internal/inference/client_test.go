package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Predict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/infer", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload inferenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, []float64{100, 2, 1, 1, 2, 0, 1}, payload.Features)

		json.NewEncoder(w).Encode(inferenceResponse{Price: 1_745_000})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, logrus.New())
	price, err := client.Predict(context.Background(), FeatureVector{100, 2, 1, 1, 2, 0, 1})

	require.NoError(t, err)
	assert.Equal(t, 1_745_000.0, price)
}

func TestClient_PredictServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "feature vector shape mismatch", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, logrus.New())
	_, err := client.Predict(context.Background(), FeatureVector{100})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
}

func TestClient_PredictUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second, logrus.New())
	_, err := client.Predict(context.Background(), FeatureVector{100})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model inference call failed")
}

func TestClient_PredictContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, 5*time.Second, logrus.New())
	_, err := client.Predict(ctx, FeatureVector{100})
	require.Error(t, err)
}
