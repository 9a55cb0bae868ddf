// Package dashboard holds the view state of the battery-health dashboard:
// user verification, the vehicle list and selection, the three forms, the
// current prediction and the display preferences.
//
// Controller methods block on the backend and are safe to call from several
// goroutines. State writes are serialised but requests are not: when two
// calls overlap, whichever response arrives last determines the state.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/josephgoksu/voltsight/internal/api"
	"github.com/josephgoksu/voltsight/internal/logger"
	"github.com/josephgoksu/voltsight/models"
)

// Registry is the vehicle registry backend.
type Registry interface {
	RegisterVehicle(ctx context.Context, sess models.Session, v models.Vehicle) (string, error)
	ListVehicles(ctx context.Context, userID string) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, sess models.Session, v models.Vehicle) (string, error)
}

// Predictor is the prediction backend.
type Predictor interface {
	Predict(ctx context.Context, sess models.Session, vehicleID string, in models.TelemetryInput) (*api.Prediction, error)
}

// SessionStore persists the verified user id between runs.
type SessionStore interface {
	Load() (models.Session, bool, error)
	Save(models.Session) error
	Clear() error
}

// Preferences are the initial display settings and form values.
type Preferences struct {
	DarkMode        bool
	SidebarOpen     bool
	TotalDistanceKm string
	ChargingTimeMin string
}

// DefaultPreferences matches a first launch.
func DefaultPreferences() Preferences {
	return Preferences{
		SidebarOpen:     true,
		TotalDistanceKm: DefaultTotalDistanceKm,
		ChargingTimeMin: DefaultChargingTimeMin,
	}
}

// Controller owns the dashboard state.
type Controller struct {
	registry  Registry
	predictor Predictor
	sessions  SessionStore
	prefs     Preferences

	mu    sync.Mutex
	state State
	// epoch advances whenever the signed-in user is dropped.
	epoch uint64
}

// New creates a controller in the Unverified state.
func New(registry Registry, predictor Predictor, sessions SessionStore, prefs Preferences) *Controller {
	if prefs.TotalDistanceKm == "" {
		prefs.TotalDistanceKm = DefaultTotalDistanceKm
	}
	if prefs.ChargingTimeMin == "" {
		prefs.ChargingTimeMin = DefaultChargingTimeMin
	}
	c := &Controller{
		registry:  registry,
		predictor: predictor,
		sessions:  sessions,
		prefs:     prefs,
	}
	c.state = State{
		Phase:       Unverified{},
		View:        ViewDashboard,
		DarkMode:    prefs.DarkMode,
		SidebarOpen: prefs.SidebarOpen,
	}
	c.resetDomainLocked()
	return c
}

// resetDomainLocked drops everything tied to a user, keeping display preferences.
func (c *Controller) resetDomainLocked() {
	c.epoch++
	c.state.Phase = Unverified{}
	c.state.RegisterForm = VehicleForm{}
	c.state.EditForm = VehicleForm{}
	c.state.Telemetry = TelemetryForm{
		TotalDistanceKm: c.prefs.TotalDistanceKm,
		ChargingTimeMin: c.prefs.ChargingTimeMin,
	}
	c.state.Result = nil
	c.state.Notice = ""
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	if p, ok := s.Phase.(VerifiedWithVehicles); ok {
		p.Vehicles = append([]models.Vehicle(nil), p.Vehicles...)
		s.Phase = p
	}
	return s
}

func (c *Controller) begin() {
	c.mu.Lock()
	c.state.InFlight++
	c.mu.Unlock()
}

// endLocked must be called with mu held.
func (c *Controller) endLocked() {
	if c.state.InFlight > 0 {
		c.state.InFlight--
	}
}

func (c *Controller) session() (models.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Session()
}

// Resume verifies the stored user id, if there is one.
func (c *Controller) Resume(ctx context.Context) error {
	sess, ok, err := c.sessions.Load()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	logger.Debugf("dashboard: resuming session for %s", sess.UserID)
	return c.Verify(ctx, sess.UserID)
}

// Verify accepts userID once its vehicle list loads.
func (c *Controller) Verify(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrEmptyUserID
	}
	logger.SetLastInput(userID)

	c.mu.Lock()
	prev, _ := c.state.Session()
	keep := ""
	if sel, ok := c.state.Phase.(VehicleSelected); ok {
		keep = sel.selected.VehicleID
	}
	c.state.Phase = Verifying{UserID: userID}
	c.state.InFlight++
	c.mu.Unlock()

	vehicles, err := c.registry.ListVehicles(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLocked()
	if err != nil {
		logger.Debugf("dashboard: verify %s: %v", userID, err)
		c.resetDomainLocked()
		c.state.Phase = Unverified{Err: err}
		return fmt.Errorf("user check failed: %w", err)
	}

	sess := models.Session{UserID: userID}
	if prev.UserID != userID {
		c.resetDomainLocked()
		keep = ""
	}
	editing := c.state.EditForm
	c.applyVehiclesLocked(sess, vehicles, keep)
	if _, ok := c.state.Phase.(VehicleSelected); ok {
		c.state.EditForm = editing
	}
	c.persistLocked(sess)
	return nil
}

// persistLocked stores the session. A storage failure does not undo the
// verification; it is reported through Notice.
func (c *Controller) persistLocked(sess models.Session) {
	if err := c.sessions.Save(sess); err != nil {
		logger.Debugf("dashboard: %v", err)
		c.state.Notice = "Signed in, but the session could not be saved: " + err.Error()
	}
}

// applyVehiclesLocked installs a freshly loaded list, keeping keepID
// selected when it is still present.
func (c *Controller) applyVehiclesLocked(sess models.Session, vehicles []models.Vehicle, keepID string) {
	registering := c.state.RegisterFormVisible()
	if _, ok := c.state.Phase.(VerifiedNoVehicles); ok {
		registering = false
	}

	if len(vehicles) == 0 {
		c.state.Phase = VerifiedNoVehicles{Session: sess}
		c.state.EditForm = VehicleForm{}
		return
	}
	if keepID != "" {
		if sel, ok := selectFrom(sess, vehicles, keepID, registering); ok {
			c.state.Phase = sel
			return
		}
	}
	c.state.Phase = VerifiedWithVehicles{
		Session:     sess,
		Vehicles:    append([]models.Vehicle(nil), vehicles...),
		Registering: registering,
	}
	c.state.EditForm = VehicleForm{}
}

// SelectVehicle selects a loaded vehicle and pre-fills the edit form with a
// copy of its attributes.
func (c *Controller) SelectVehicle(vehicleID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		sess        models.Session
		vehicles    []models.Vehicle
		registering bool
	)
	switch p := c.state.Phase.(type) {
	case VerifiedWithVehicles:
		sess, vehicles, registering = p.Session, p.Vehicles, p.Registering
	case VehicleSelected:
		sess, vehicles, registering = p.session, p.vehicles, p.registering
	case VerifiedNoVehicles:
		return ErrUnknownVehicle
	default:
		return ErrNotVerified
	}

	sel, ok := selectFrom(sess, vehicles, vehicleID, registering)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVehicle, vehicleID)
	}
	c.state.Phase = sel
	c.state.EditForm = formFromVehicle(sel.selected)
	return nil
}

// ResetEditForm discards unsaved edits.
func (c *Controller) ResetEditForm() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	sel, ok := c.state.Phase.(VehicleSelected)
	if !ok {
		return ErrNoVehicleSelected
	}
	c.state.EditForm = formFromVehicle(sel.selected)
	return nil
}

func (c *Controller) setRegistering(on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.state.Phase.(VerifiedNoVehicles); ok {
		// The form cannot be hidden before the first vehicle exists.
		return nil
	}
	if !c.setRegisteringLocked(on) {
		return ErrNotVerified
	}
	return nil
}

// ShowRegisterForm opens the registration form for another vehicle.
func (c *Controller) ShowRegisterForm() error { return c.setRegistering(true) }

// HideRegisterForm closes the registration form, keeping what was typed.
func (c *Controller) HideRegisterForm() error { return c.setRegistering(false) }

// SetRegisterField updates one input of the registration form.
func (c *Controller) SetRegisterField(field VehicleField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.RegisterForm.set(field, value)
}

// SetEditField updates one input of the edit form. The vehicle id is fixed.
func (c *Controller) SetEditField(field VehicleField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.state.Phase.(VehicleSelected); !ok {
		return ErrNoVehicleSelected
	}
	if field == FieldVehicleID {
		return fmt.Errorf("%w: vehicle id cannot be edited", ErrUnknownField)
	}
	return c.state.EditForm.set(field, value)
}

// SetTelemetryField updates one input of the prediction form.
func (c *Controller) SetTelemetryField(field TelemetryField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Telemetry.set(field, value)
}

// RegisterVehicle submits the registration form. On success the form is
// cleared and hidden and the vehicle list reloaded; on failure the form is
// left as typed.
func (c *Controller) RegisterVehicle(ctx context.Context) error {
	c.mu.Lock()
	sess, ok := c.state.Session()
	form := c.state.RegisterForm
	epoch := c.epoch
	c.mu.Unlock()
	if !ok {
		return ErrNotVerified
	}

	v, err := form.Vehicle()
	if err != nil {
		return err
	}

	c.begin()
	msg, err := c.registry.RegisterVehicle(ctx, sess, v)
	if err != nil {
		c.mu.Lock()
		c.endLocked()
		c.mu.Unlock()
		logger.Debugf("dashboard: register %s: %v", v.VehicleID, err)
		return fmt.Errorf("vehicle registration failed: %w", err)
	}

	c.mu.Lock()
	c.endLocked()
	if c.epoch != epoch {
		c.mu.Unlock()
		logger.Debugf("dashboard: register %s finished after logout, discarded", v.VehicleID)
		return nil
	}
	c.state.Notice = msg
	c.state.RegisterForm = VehicleForm{}
	_ = c.setRegisteringLocked(false)
	c.persistLocked(sess)
	keep := ""
	if sel, ok := c.state.Phase.(VehicleSelected); ok {
		keep = sel.selected.VehicleID
	}
	c.mu.Unlock()

	return c.reload(ctx, sess, keep, epoch)
}

func (c *Controller) setRegisteringLocked(on bool) bool {
	switch p := c.state.Phase.(type) {
	case VerifiedWithVehicles:
		p.Registering = on
		c.state.Phase = p
	case VehicleSelected:
		p.registering = on
		c.state.Phase = p
	default:
		return false
	}
	return true
}

// reload fetches the vehicle list again, keeping keepID selected if it survives.
// The list is dropped when the user signed out or changed since epoch.
func (c *Controller) reload(ctx context.Context, sess models.Session, keepID string, epoch uint64) error {
	c.begin()
	vehicles, err := c.registry.ListVehicles(ctx, sess.UserID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLocked()
	if err != nil {
		logger.Debugf("dashboard: reload vehicles: %v", err)
		return fmt.Errorf("vehicle load failed: %w", err)
	}

	if c.epoch != epoch {
		return nil
	}
	if cur, ok := c.state.Session(); ok && cur.UserID != sess.UserID {
		return nil
	}
	editing := c.state.EditForm
	c.applyVehiclesLocked(sess, vehicles, keepID)
	if _, ok := c.state.Phase.(VehicleSelected); ok {
		c.state.EditForm = editing
	}
	return nil
}

// UpdateVehicle saves the edit form for the selected vehicle.
func (c *Controller) UpdateVehicle(ctx context.Context) error {
	c.mu.Lock()
	sel, ok := c.state.Phase.(VehicleSelected)
	form := c.state.EditForm
	epoch := c.epoch
	c.mu.Unlock()
	if !ok {
		return ErrNoVehicleSelected
	}

	form.VehicleID = sel.selected.VehicleID
	v, err := form.Vehicle()
	if err != nil {
		return err
	}

	c.begin()
	msg, err := c.registry.UpdateVehicle(ctx, sel.session, v)
	c.mu.Lock()
	c.endLocked()
	if err != nil {
		c.mu.Unlock()
		logger.Debugf("dashboard: update %s: %v", v.VehicleID, err)
		return fmt.Errorf("update failed: %w", err)
	}
	if c.epoch != epoch {
		c.mu.Unlock()
		return nil
	}
	c.state.Notice = msg
	c.mu.Unlock()

	if err := c.reload(ctx, sel.session, v.VehicleID, epoch); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.state.Phase.(VehicleSelected); ok && cur.selected.VehicleID == v.VehicleID {
		c.state.EditForm = formFromVehicle(cur.selected)
	}
	return nil
}

// Predict requests a prediction for the selected vehicle and makes it the
// current result. Nothing is sent unless a vehicle is selected and the
// telemetry form parses.
func (c *Controller) Predict(ctx context.Context) error {
	c.mu.Lock()
	sel, ok := c.state.Phase.(VehicleSelected)
	form := c.state.Telemetry
	c.mu.Unlock()
	if !ok {
		return ErrNoVehicleSelected
	}

	in, err := form.Input(sel.selected.BatteryType)
	if err != nil {
		return err
	}

	c.begin()
	p, err := c.predictor.Predict(ctx, sel.session, sel.selected.VehicleID, in)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLocked()
	if err != nil {
		logger.Debugf("dashboard: predict %s: %v", sel.selected.VehicleID, err)
		return fmt.Errorf("prediction failed: %w", err)
	}
	if cur, ok := c.state.Session(); !ok || cur.UserID != sel.session.UserID {
		// The user signed out or switched while the request was in flight.
		return nil
	}
	c.state.Result = p
	return nil
}

// Logout forgets the stored session and returns to Unverified. Theme and
// sidebar are kept.
func (c *Controller) Logout() error {
	c.mu.Lock()
	c.resetDomainLocked()
	c.state.View = ViewDashboard
	c.mu.Unlock()

	if err := c.sessions.Clear(); err != nil {
		return err
	}
	return nil
}

// ToggleTheme flips dark mode and reports the new value.
func (c *Controller) ToggleTheme() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.DarkMode = !c.state.DarkMode
	return c.state.DarkMode
}

// ToggleSidebar flips the sidebar and reports the new value.
func (c *Controller) ToggleSidebar() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SidebarOpen = !c.state.SidebarOpen
	return c.state.SidebarOpen
}

// SetView switches the visible screen.
func (c *Controller) SetView(v View) error {
	if _, err := ParseView(string(v)); err != nil {
		return fmt.Errorf("%w: %q", err, v)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.View = v
	logger.SetView(string(v))
	return nil
}

// ClearNotice drops the last acknowledgement once it has been shown.
func (c *Controller) ClearNotice() {
	c.mu.Lock()
	c.state.Notice = ""
	c.mu.Unlock()
}

// ObserveSession reacts to another process changing the stored user id.
// A removed or different id drops the current user; the new one, if any,
// is verified.
func (c *Controller) ObserveSession(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if cur, ok := c.session(); ok && cur.UserID == userID {
		return nil
	}
	if userID == "" {
		c.mu.Lock()
		c.resetDomainLocked()
		c.mu.Unlock()
		return nil
	}
	return c.Verify(ctx, userID)
}
