package ui

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/voltsight/internal/api"
	"github.com/josephgoksu/voltsight/internal/chat"
	"github.com/josephgoksu/voltsight/internal/dashboard"
	"github.com/josephgoksu/voltsight/internal/session"
	"github.com/josephgoksu/voltsight/internal/storage"
	"github.com/josephgoksu/voltsight/models"
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeLogin
	modeRegister
	modeEdit
	modeTelemetry
	modeChat
)

// Backend operations run as commands and report back with opDoneMsg.
const (
	opResume   = "resume"
	opVerify   = "verify"
	opObserve  = "observe"
	opRegister = "register"
	opUpdate   = "update"
	opPredict  = "predict"
)

type opDoneMsg struct {
	op  string
	err error
}

type chatReplyMsg struct {
	err error
}

type sessionChangeMsg struct {
	change storage.Change
	ok     bool
}

var (
	editFields      = dashboard.VehicleFields()[1:]
	telemetryFields = []dashboard.TelemetryField{dashboard.FieldTotalDistance, dashboard.FieldChargingTime}
)

// DashboardModel is the interactive dashboard. It renders controller
// snapshots; every change goes through the controller.
type DashboardModel struct {
	ctx     context.Context
	ctrl    *dashboard.Controller
	chat    *chat.Panel
	changes <-chan storage.Change

	state  dashboard.State
	mode   inputMode
	cursor int
	field  int
	busy   int
	errMsg string

	login     textinput.Model
	register  []textinput.Model
	edit      []textinput.Model
	telemetry []textinput.Model
	chatInput textinput.Model

	spinner  spinner.Model
	width    int
	height   int
	quitting bool
}

// NewDashboardModel creates the dashboard. changes may be nil when the
// storage backend cannot be watched.
func NewDashboardModel(ctx context.Context, ctrl *dashboard.Controller, panel *chat.Panel, changes <-chan storage.Change) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	login := newInput("user id", 64)
	login.Focus()

	register := make([]textinput.Model, 0, len(dashboard.VehicleFields()))
	for _, f := range dashboard.VehicleFields() {
		register = append(register, newFieldInput(f))
	}
	edit := make([]textinput.Model, 0, len(editFields))
	for _, f := range editFields {
		edit = append(edit, newFieldInput(f))
	}
	telemetry := []textinput.Model{newInput("km", 12), newInput("min", 8)}

	chatInput := newInput("Ask about your battery...", 500)
	chatInput.Width = 60

	return DashboardModel{
		ctx:       ctx,
		ctrl:      ctrl,
		chat:      panel,
		changes:   changes,
		state:     ctrl.Snapshot(),
		mode:      modeLogin,
		busy:      1, // the resume queued by Init
		login:     login,
		register:  register,
		edit:      edit,
		telemetry: telemetry,
		chatInput: chatInput,
		spinner:   s,
	}
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 32
	ti.Prompt = ""
	return ti
}

func newFieldInput(f dashboard.VehicleField) textinput.Model {
	switch f {
	case dashboard.FieldBatteryType:
		ti := newInput(models.BatteryLiIon, 32)
		ti.ShowSuggestions = true
		ti.SetSuggestions(models.RegistrationBatteryTypes())
		return ti
	case dashboard.FieldBuyingPrice:
		return newInput("31999.50", 16)
	case dashboard.FieldBuyingDate, dashboard.FieldManufactureDate:
		return newInput(models.DateLayout, 10)
	}
	return newInput("EV-1042", 64)
}

// Init resumes the stored session and starts the background listeners.
func (m DashboardModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, m.call(opResume, m.ctrl.Resume)}
	if listen := m.listen(); listen != nil {
		cmds = append(cmds, listen)
	}
	return tea.Batch(cmds...)
}

// run executes a blocking controller call off the event loop.
func (m *DashboardModel) run(op string, fn func(context.Context) error) tea.Cmd {
	m.busy++
	return m.call(op, fn)
}

// call wraps fn without counting it as busy.
func (m DashboardModel) call(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m DashboardModel) listen() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		c, ok := <-ch
		return sessionChangeMsg{change: c, ok: ok}
	}
}

// Busy reports whether a backend call started by the dashboard is pending.
func (m DashboardModel) Busy() bool {
	return m.busy > 0 || m.state.InFlight > 0
}

func (m *DashboardModel) refresh() {
	m.state = m.ctrl.Snapshot()
	n := len(m.state.Vehicles())
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *DashboardModel) fail(err error) {
	if err == nil {
		m.errMsg = ""
		return
	}
	m.errMsg = errorText(err)
}

// errorText prefers the backend's own explanation.
func errorText(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	return err.Error()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case opDoneMsg:
		return m.handleOpDone(msg)

	case chatReplyMsg:
		// The panel already holds the reply or the fallback text.
		m.busy = max(m.busy-1, 0)
		m.refresh()
		return m, nil

	case sessionChangeMsg:
		if !msg.ok {
			m.changes = nil
			return m, nil
		}
		if msg.change.Key != session.Key {
			return m, m.listen()
		}
		user := msg.change.NewValue
		if msg.change.Removed {
			user = ""
		}
		observe := m.run(opObserve, func(ctx context.Context) error {
			return m.ctrl.ObserveSession(ctx, user)
		})
		return m, tea.Batch(observe, m.listen())

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeLogin:
			return m.updateLogin(msg)
		case modeRegister, modeEdit, modeTelemetry:
			return m.updateForm(msg)
		case modeChat:
			return m.updateChat(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m DashboardModel) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = max(m.busy-1, 0)
	m.refresh()
	m.fail(msg.err)

	var cmd tea.Cmd
	switch msg.op {
	case opResume, opVerify, opObserve:
		switch {
		case !m.state.Verified():
			if m.mode != modeChat {
				m.mode = modeLogin
				cmd = m.login.Focus()
			}
		case m.mode == modeLogin:
			m.mode = modeBrowse
			m.login.Blur()
			m.login.Reset()
			if _, empty := m.state.Phase.(dashboard.VerifiedNoVehicles); empty {
				cmd = m.enterForm(modeRegister)
			}
		}
	case opRegister:
		if msg.err == nil {
			m.leaveForm()
		}
	case opUpdate:
		if msg.err == nil {
			m.leaveForm()
		}
	}
	return m, cmd
}

func (m DashboardModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		user := m.login.Value()
		m.errMsg = ""
		return m, m.run(opVerify, func(ctx context.Context) error {
			return m.ctrl.Verify(ctx, user)
		})
	case tea.KeyTab, tea.KeyEsc:
		m.login.Blur()
		m.mode = modeBrowse
		return m, nil
	}
	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	return m, cmd
}

func (m DashboardModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "t":
		m.ctrl.ToggleTheme()
	case "b":
		m.ctrl.ToggleSidebar()
	case "1", "2", "3", "4":
		i, _ := strconv.Atoi(msg.String())
		m.fail(m.ctrl.SetView(dashboard.Views()[i-1]))
	case "c":
		if m.chat.Toggle() {
			m.mode = modeChat
			m.refresh()
			return m, m.chatInput.Focus()
		}
	case "esc":
		m.errMsg = ""
		m.ctrl.ClearNotice()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Vehicles())-1 {
			m.cursor++
		}
	case "enter", "i":
		if !m.state.Verified() {
			m.mode = modeLogin
			return m, m.login.Focus()
		}
		if vs := m.state.Vehicles(); len(vs) > 0 {
			m.fail(m.ctrl.SelectVehicle(vs[m.cursor].VehicleID))
		}
	case "n":
		if err := m.ctrl.ShowRegisterForm(); err != nil {
			m.fail(err)
			break
		}
		m.refresh()
		return m, m.enterForm(modeRegister)
	case "e":
		if _, ok := m.state.Selected(); !ok {
			m.fail(dashboard.ErrNoVehicleSelected)
			break
		}
		return m, m.enterForm(modeEdit)
	case "f":
		return m, m.enterForm(modeTelemetry)
	case "p":
		m.errMsg = ""
		return m, m.run(opPredict, m.ctrl.Predict)
	case "L":
		m.fail(m.ctrl.Logout())
		m.refresh()
		m.mode = modeLogin
		return m, m.login.Focus()
	}
	m.refresh()
	return m, nil
}

// inputs returns the inputs of the form being edited.
func (m DashboardModel) inputs() []textinput.Model {
	switch m.mode {
	case modeRegister:
		return m.register
	case modeEdit:
		return m.edit
	case modeTelemetry:
		return m.telemetry
	}
	return nil
}

// enterForm loads a form's inputs from the controller state and focuses it.
func (m *DashboardModel) enterForm(mode inputMode) tea.Cmd {
	m.refresh()
	m.mode = mode
	m.field = 0
	switch mode {
	case modeRegister:
		for i, f := range dashboard.VehicleFields() {
			m.register[i].SetValue(m.state.RegisterForm.Get(f))
		}
	case modeEdit:
		for i, f := range editFields {
			m.edit[i].SetValue(m.state.EditForm.Get(f))
		}
	case modeTelemetry:
		m.telemetry[0].SetValue(m.state.Telemetry.TotalDistanceKm)
		m.telemetry[1].SetValue(m.state.Telemetry.ChargingTimeMin)
	}
	return m.focusField(0)
}

func (m *DashboardModel) leaveForm() {
	inputs := m.inputs()
	for i := range inputs {
		inputs[i].Blur()
	}
	m.mode = modeBrowse
	m.refresh()
}

func (m *DashboardModel) focusField(i int) tea.Cmd {
	inputs := m.inputs()
	if len(inputs) == 0 {
		return nil
	}
	m.field = (i + len(inputs)) % len(inputs)
	for j := range inputs {
		inputs[j].Blur()
	}
	return inputs[m.field].Focus()
}

// setField pushes the focused input's text into the controller.
func (m *DashboardModel) setField(value string) error {
	switch m.mode {
	case modeRegister:
		return m.ctrl.SetRegisterField(dashboard.VehicleFields()[m.field], value)
	case modeEdit:
		return m.ctrl.SetEditField(editFields[m.field], value)
	case modeTelemetry:
		return m.ctrl.SetTelemetryField(telemetryFields[m.field], value)
	}
	return nil
}

func (m DashboardModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		switch m.mode {
		case modeRegister:
			m.fail(m.ctrl.HideRegisterForm())
		case modeEdit:
			m.fail(m.ctrl.ResetEditForm())
		}
		m.leaveForm()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.focusField(m.field + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.focusField(m.field - 1)
	case tea.KeyEnter:
		m.errMsg = ""
		switch m.mode {
		case modeRegister:
			return m, m.run(opRegister, m.ctrl.RegisterVehicle)
		case modeEdit:
			return m, m.run(opUpdate, m.ctrl.UpdateVehicle)
		case modeTelemetry:
			m.leaveForm()
			return m, m.run(opPredict, m.ctrl.Predict)
		}
	}

	inputs := m.inputs()
	var cmd tea.Cmd
	inputs[m.field], cmd = inputs[m.field].Update(msg)
	m.fail(m.setField(inputs[m.field].Value()))
	m.refresh()
	return m, cmd
}

func (m DashboardModel) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.chat.Close()
		m.chatInput.Blur()
		m.mode = modeBrowse
		return m, nil
	case tea.KeyEnter:
		text := m.chatInput.Value()
		if _, ok := m.chat.Post(text); !ok {
			return m, nil
		}
		m.chatInput.Reset()

		var result json.RawMessage
		if m.state.Result != nil {
			result = m.state.Result.Raw
		}
		m.busy++
		panel, ctx := m.chat, m.ctx
		return m, func() tea.Msg {
			_, err := panel.Deliver(ctx, text, result)
			return chatReplyMsg{err: err}
		}
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

// RunDashboard runs the dashboard until the user quits.
func RunDashboard(m DashboardModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
