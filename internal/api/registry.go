package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/josephgoksu/voltsight/models"
)

// RegistryClient registers, lists and updates vehicles.
type RegistryClient struct {
	t *transport
}

// NewRegistryClient creates a vehicle registry client.
func NewRegistryClient(cfg Config) (*RegistryClient, error) {
	t, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}
	return &RegistryClient{t: t}, nil
}

// vehicleRequest is the body of /register_vehicle and /update_vehicle.
type vehicleRequest struct {
	UserID          string  `json:"user_id"`
	VehicleID       string  `json:"vehicle_id"`
	BatteryType     string  `json:"battery_type"`
	BuyingPrice     float64 `json:"buying_price"`
	BuyingDate      string  `json:"buying_date"`
	ManufactureDate string  `json:"manufacture_date"`
}

// messageResponse is the acknowledgement returned by write endpoints.
type messageResponse struct {
	Message string `json:"message"`
}

type vehiclesResponse struct {
	Vehicles []models.Vehicle `json:"vehicles"`
}

func newVehicleRequest(sess models.Session, v models.Vehicle) vehicleRequest {
	return vehicleRequest{
		UserID:          sess.UserID,
		VehicleID:       v.VehicleID,
		BatteryType:     v.BatteryType,
		BuyingPrice:     v.BuyingPrice,
		BuyingDate:      v.BuyingDate,
		ManufactureDate: v.ManufactureDate,
	}
}

// RegisterVehicle creates a vehicle for the session's user and returns the
// backend's acknowledgement message.
func (c *RegistryClient) RegisterVehicle(ctx context.Context, sess models.Session, v models.Vehicle) (string, error) {
	var resp messageResponse
	if err := c.t.postJSON(ctx, "/register_vehicle", newVehicleRequest(sess, v), &resp); err != nil {
		return "", fmt.Errorf("register vehicle %s: %w", v.VehicleID, err)
	}
	return resp.Message, nil
}

// ListVehicles returns every vehicle owned by userID.
func (c *RegistryClient) ListVehicles(ctx context.Context, userID string) ([]models.Vehicle, error) {
	var resp vehiclesResponse
	if err := c.t.getJSON(ctx, "/get_vehicles/"+url.PathEscape(userID), &resp); err != nil {
		return nil, fmt.Errorf("list vehicles for %s: %w", userID, err)
	}
	if resp.Vehicles == nil {
		resp.Vehicles = []models.Vehicle{}
	}
	return resp.Vehicles, nil
}

// UpdateVehicle overwrites the stored metadata of an existing vehicle.
func (c *RegistryClient) UpdateVehicle(ctx context.Context, sess models.Session, v models.Vehicle) (string, error) {
	var resp messageResponse
	if err := c.t.postJSON(ctx, "/update_vehicle", newVehicleRequest(sess, v), &resp); err != nil {
		return "", fmt.Errorf("update vehicle %s: %w", v.VehicleID, err)
	}
	return resp.Message, nil
}
