package models

// Session identifies the user whose vehicles the dashboard works with.
// There is no authentication beyond this free-text identifier.
type Session struct {
	UserID string `json:"user_id" validate:"required"`
}

// IsZero reports whether the session carries no user.
func (s Session) IsZero() bool {
	return s.UserID == ""
}

// Date layout used for buying and manufacture dates on the wire.
const DateLayout = "2006-01-02"

// Vehicle is a registered vehicle as stored by the registry backend.
type Vehicle struct {
	UserID          string  `json:"user_id,omitempty"`
	VehicleID       string  `json:"vehicle_id" validate:"required,max=64"`
	BatteryType     string  `json:"battery_type" validate:"required"`
	BuyingPrice     float64 `json:"buying_price" validate:"gte=0"`
	BuyingDate      string  `json:"buying_date" validate:"required,datetime=2006-01-02"`
	ManufactureDate string  `json:"manufacture_date" validate:"required,datetime=2006-01-02"`
}

// TelemetryInput is the per-request usage data sent along with a prediction.
// It is never persisted.
type TelemetryInput struct {
	TotalDistanceKm float64 `json:"total_dist_km" validate:"gte=0"`
	ChargingTimeMin float64 `json:"charging_time_min" validate:"gte=0"`
	BatteryType     string  `json:"battery_type" validate:"required"`
}

// Battery chemistries offered by the registration form.
const (
	BatteryLiIon     = "Li-ion"
	BatteryLiIonNMC  = "Li-ion (NMC)"
	BatteryLFP       = "LiFePO4"
	BatteryNCMType1  = "NCM_Type1"
	DefaultChemistry = BatteryLiIonNMC
)

// RegistrationBatteryTypes lists the chemistries a user can pick when registering.
func RegistrationBatteryTypes() []string {
	return []string{BatteryLiIon, BatteryLFP, BatteryNCMType1}
}
