package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Predictor is the opaque regression model boundary. An inference
// failure indicates a malformed feature vector rather than a transient
// fault, so callers must not retry.
type Predictor interface {
	Predict(ctx context.Context, features FeatureVector) (float64, error)
}

// PredictorFunc adapts a plain function to the Predictor interface.
type PredictorFunc func(ctx context.Context, features FeatureVector) (float64, error)

func (f PredictorFunc) Predict(ctx context.Context, features FeatureVector) (float64, error) {
	return f(ctx, features)
}

// Client calls an external model server over HTTP. The server exposes a
// single inference endpoint taking the raw feature vector and returning
// the unadjusted base price.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

// NewClient creates a model client. Timeout bounds the whole inference
// call including connection setup.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type inferenceRequest struct {
	Features []float64 `json:"features"`
}

type inferenceResponse struct {
	Price float64 `json:"price"`
}

// Predict sends the feature vector to the model server and returns the
// base price. Errors are surfaced verbatim; the caller treats them as
// terminal for the item.
func (c *Client) Predict(ctx context.Context, features FeatureVector) (float64, error) {
	body, err := json.Marshal(inferenceRequest{Features: features})
	if err != nil {
		return 0, fmt.Errorf("failed to encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/infer", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("model inference call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(payload),
		}).Error("Model server returned non-OK status")
		return 0, fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	var out inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode inference response: %w", err)
	}
	return out.Price, nil
}
