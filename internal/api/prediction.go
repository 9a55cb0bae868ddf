package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/josephgoksu/voltsight/models"
)

// PredictionClient requests battery-health predictions.
type PredictionClient struct {
	t *transport
}

// NewPredictionClient creates a prediction client.
func NewPredictionClient(cfg Config) (*PredictionClient, error) {
	t, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}
	return &PredictionClient{t: t}, nil
}

type predictRequest struct {
	UserID          string  `json:"user_id"`
	VehicleID       string  `json:"vehicle_id"`
	BatteryType     string  `json:"battery_type"`
	TotalDistanceKm float64 `json:"total_dist_km"`
	ChargingTimeMin float64 `json:"charging_time_min"`
}

// Prediction is a decoded result together with the exact object the backend sent.
// Raw is what gets forwarded as chat context, so fields the client does not model survive.
type Prediction struct {
	Result models.PredictionResult
	Raw    json.RawMessage
}

// Predict runs the health model for one vehicle and its usage telemetry.
func (c *PredictionClient) Predict(ctx context.Context, sess models.Session, vehicleID string, in models.TelemetryInput) (*Prediction, error) {
	body := predictRequest{
		UserID:          sess.UserID,
		VehicleID:       vehicleID,
		BatteryType:     in.BatteryType,
		TotalDistanceKm: in.TotalDistanceKm,
		ChargingTimeMin: in.ChargingTimeMin,
	}

	var raw json.RawMessage
	if err := c.t.postJSON(ctx, "/predict", body, &raw); err != nil {
		return nil, fmt.Errorf("predict %s: %w", vehicleID, err)
	}

	p := &Prediction{Raw: raw}
	if err := json.Unmarshal(raw, &p.Result); err != nil {
		return nil, fmt.Errorf("predict %s: decode result: %w", vehicleID, err)
	}
	return p, nil
}
