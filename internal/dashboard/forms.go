package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/josephgoksu/voltsight/models"
)

// VehicleField names an input of the registration and edit forms.
type VehicleField string

const (
	FieldVehicleID       VehicleField = "vehicle_id"
	FieldBatteryType     VehicleField = "battery_type"
	FieldBuyingPrice     VehicleField = "buying_price"
	FieldBuyingDate      VehicleField = "buying_date"
	FieldManufactureDate VehicleField = "manufacture_date"
)

// VehicleFields lists the form inputs in display order.
func VehicleFields() []VehicleField {
	return []VehicleField{FieldVehicleID, FieldBatteryType, FieldBuyingPrice, FieldBuyingDate, FieldManufactureDate}
}

// VehicleForm holds raw text as typed; nothing is parsed until submit.
type VehicleForm struct {
	VehicleID       string
	BatteryType     string
	BuyingPrice     string
	BuyingDate      string
	ManufactureDate string
}

// Get returns the value of field f.
func (f VehicleForm) Get(field VehicleField) string {
	switch field {
	case FieldVehicleID:
		return f.VehicleID
	case FieldBatteryType:
		return f.BatteryType
	case FieldBuyingPrice:
		return f.BuyingPrice
	case FieldBuyingDate:
		return f.BuyingDate
	case FieldManufactureDate:
		return f.ManufactureDate
	}
	return ""
}

func (f *VehicleForm) set(field VehicleField, value string) error {
	switch field {
	case FieldVehicleID:
		f.VehicleID = value
	case FieldBatteryType:
		f.BatteryType = value
	case FieldBuyingPrice:
		f.BuyingPrice = value
	case FieldBuyingDate:
		f.BuyingDate = value
	case FieldManufactureDate:
		f.ManufactureDate = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// formFromVehicle copies v's attributes into a fresh form.
func formFromVehicle(v models.Vehicle) VehicleForm {
	return VehicleForm{
		VehicleID:       v.VehicleID,
		BatteryType:     v.BatteryType,
		BuyingPrice:     strconv.FormatFloat(v.BuyingPrice, 'f', -1, 64),
		BuyingDate:      v.BuyingDate,
		ManufactureDate: v.ManufactureDate,
	}
}

// Vehicle parses and validates the form.
func (f VehicleForm) Vehicle() (models.Vehicle, error) {
	priceText := strings.TrimSpace(f.BuyingPrice)
	if priceText == "" {
		return models.Vehicle{}, fmt.Errorf("%w: buying price is required", ErrInvalidVehicle)
	}
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return models.Vehicle{}, fmt.Errorf("%w: buying price %q is not a number", ErrInvalidVehicle, f.BuyingPrice)
	}

	v := models.Vehicle{
		VehicleID:       strings.TrimSpace(f.VehicleID),
		BatteryType:     strings.TrimSpace(f.BatteryType),
		BuyingPrice:     price,
		BuyingDate:      strings.TrimSpace(f.BuyingDate),
		ManufactureDate: strings.TrimSpace(f.ManufactureDate),
	}
	if err := models.ValidateStruct(v); err != nil {
		return models.Vehicle{}, fmt.Errorf("%w: %v", ErrInvalidVehicle, err)
	}
	return v, nil
}

// TelemetryField names an input of the prediction form.
type TelemetryField string

const (
	FieldTotalDistance TelemetryField = "total_dist_km"
	FieldChargingTime  TelemetryField = "charging_time_min"
)

// Initial telemetry form values.
const (
	DefaultTotalDistanceKm = "12500"
	DefaultChargingTimeMin = "45"
)

// TelemetryForm is the usage data typed before a prediction.
type TelemetryForm struct {
	TotalDistanceKm string
	ChargingTimeMin string
}

func (f *TelemetryForm) set(field TelemetryField, value string) error {
	switch field {
	case FieldTotalDistance:
		f.TotalDistanceKm = value
	case FieldChargingTime:
		f.ChargingTimeMin = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func parseNonNegative(name, text string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidTelemetry, name, text)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidTelemetry, name)
	}
	return n, nil
}

// Input parses the form for a vehicle with the given chemistry.
func (f TelemetryForm) Input(batteryType string) (models.TelemetryInput, error) {
	dist, err := parseNonNegative("total distance", f.TotalDistanceKm)
	if err != nil {
		return models.TelemetryInput{}, err
	}
	charging, err := parseNonNegative("charging time", f.ChargingTimeMin)
	if err != nil {
		return models.TelemetryInput{}, err
	}
	return models.TelemetryInput{
		TotalDistanceKm: dist,
		ChargingTimeMin: charging,
		BatteryType:     batteryType,
	}, nil
}
