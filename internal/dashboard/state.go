package dashboard

import (
	"slices"

	"github.com/josephgoksu/voltsight/internal/api"
	"github.com/josephgoksu/voltsight/models"
)

// Phase is the verification/selection state. The variants below are the
// only implementations.
type Phase interface {
	Name() string
	isPhase()
}

// Unverified is the initial state. Err holds the last verification failure.
type Unverified struct {
	Err error
}

// Verifying is entered while the vehicle list for UserID is being fetched.
type Verifying struct {
	UserID string
}

// VerifiedNoVehicles means the user exists but owns nothing yet; the
// registration form is always shown.
type VerifiedNoVehicles struct {
	Session models.Session
}

// VerifiedWithVehicles holds a non-empty vehicle list with nothing selected.
type VerifiedWithVehicles struct {
	Session     models.Session
	Vehicles    []models.Vehicle
	Registering bool
}

// VehicleSelected can only be produced from a vehicle present in the loaded
// list, so its fields are read through accessors.
type VehicleSelected struct {
	session     models.Session
	vehicles    []models.Vehicle
	selected    models.Vehicle
	registering bool
}

func (Unverified) Name() string           { return "unverified" }
func (Verifying) Name() string            { return "verifying" }
func (VerifiedNoVehicles) Name() string   { return "verified, no vehicles" }
func (VerifiedWithVehicles) Name() string { return "verified" }
func (VehicleSelected) Name() string      { return "vehicle selected" }

func (Unverified) isPhase()           {}
func (Verifying) isPhase()            {}
func (VerifiedNoVehicles) isPhase()   {}
func (VerifiedWithVehicles) isPhase() {}
func (VehicleSelected) isPhase()      {}

func (p VehicleSelected) Session() models.Session    { return p.session }
func (p VehicleSelected) Vehicles() []models.Vehicle { return slices.Clone(p.vehicles) }
func (p VehicleSelected) Selected() models.Vehicle   { return p.selected }
func (p VehicleSelected) Registering() bool          { return p.registering }

// selectFrom picks vehicleID out of vehicles.
func selectFrom(sess models.Session, vehicles []models.Vehicle, vehicleID string, registering bool) (VehicleSelected, bool) {
	for _, v := range vehicles {
		if v.VehicleID == vehicleID {
			return VehicleSelected{
				session:     sess,
				vehicles:    slices.Clone(vehicles),
				selected:    v,
				registering: registering,
			}, true
		}
	}
	return VehicleSelected{}, false
}

// View is one of the four dashboard screens.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewBatteries View = "batteries"
	ViewWarranty  View = "warranty"
	ViewProfile   View = "profile"
)

// Views lists the screens in navigation order.
func Views() []View {
	return []View{ViewDashboard, ViewBatteries, ViewWarranty, ViewProfile}
}

// Title is the sidebar label.
func (v View) Title() string {
	switch v {
	case ViewBatteries:
		return "Batteries"
	case ViewWarranty:
		return "Extend Warranty"
	case ViewProfile:
		return "Profile & Settings"
	default:
		return "Dashboard"
	}
}

// ParseView resolves a view name.
func ParseView(s string) (View, error) {
	v := View(s)
	if slices.Contains(Views(), v) {
		return v, nil
	}
	return "", ErrUnknownView
}

// State is a point-in-time copy of everything the dashboard shows.
type State struct {
	Phase       Phase
	View        View
	DarkMode    bool
	SidebarOpen bool

	RegisterForm VehicleForm
	EditForm     VehicleForm
	Telemetry    TelemetryForm

	// Result is the current prediction. It is replaced, never mutated.
	Result *api.Prediction

	// Notice is the last backend acknowledgement, e.g. "Vehicle registered successfully".
	Notice string

	// InFlight counts backend calls that have not returned yet.
	InFlight int
}

// Session returns the verified session, if any.
func (s State) Session() (models.Session, bool) {
	switch p := s.Phase.(type) {
	case VerifiedNoVehicles:
		return p.Session, true
	case VerifiedWithVehicles:
		return p.Session, true
	case VehicleSelected:
		return p.session, true
	}
	return models.Session{}, false
}

// Verified reports whether a user id has been accepted.
func (s State) Verified() bool {
	_, ok := s.Session()
	return ok
}

// Vehicles returns the loaded vehicle list.
func (s State) Vehicles() []models.Vehicle {
	switch p := s.Phase.(type) {
	case VerifiedWithVehicles:
		return slices.Clone(p.Vehicles)
	case VehicleSelected:
		return p.Vehicles()
	}
	return nil
}

// Selected returns the selected vehicle.
func (s State) Selected() (models.Vehicle, bool) {
	if p, ok := s.Phase.(VehicleSelected); ok {
		return p.selected, true
	}
	return models.Vehicle{}, false
}

// RegisterFormVisible reports whether the registration form is on screen.
func (s State) RegisterFormVisible() bool {
	switch p := s.Phase.(type) {
	case VerifiedNoVehicles:
		return true
	case VerifiedWithVehicles:
		return p.Registering
	case VehicleSelected:
		return p.registering
	}
	return false
}

// BatteryType is the chemistry used for spec lookups: the selected
// vehicle's, or the default before anything is selected.
func (s State) BatteryType() string {
	if v, ok := s.Selected(); ok && v.BatteryType != "" {
		return v.BatteryType
	}
	return models.DefaultChemistry
}

// CurrentResult returns a copy of the decoded current prediction, or nil.
func (s State) CurrentResult() *models.PredictionResult {
	if s.Result == nil {
		return nil
	}
	r := s.Result.Result
	return &r
}
