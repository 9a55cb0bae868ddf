package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/voltsight/internal/chat"
	"github.com/josephgoksu/voltsight/internal/dashboard"
	"github.com/josephgoksu/voltsight/internal/warranty"
)

var vehicleFieldLabels = map[dashboard.VehicleField]string{
	dashboard.FieldVehicleID:       "Vehicle ID",
	dashboard.FieldBatteryType:     "Battery type",
	dashboard.FieldBuyingPrice:     "Buying price (USD)",
	dashboard.FieldBuyingDate:      "Buying date",
	dashboard.FieldManufactureDate: "Manufacture date",
}

var telemetryLabels = []string{"Total distance (km)", "Charging time (min)"}

func (m DashboardModel) View() string {
	if m.quitting {
		return ""
	}
	st := ThemeFor(m.state.DarkMode).Styles()

	body := m.renderBody(st)
	if m.state.SidebarOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(st), "  ", body)
	}

	parts := []string{m.renderHeader(st), body}
	if status := m.renderStatus(st); status != "" {
		parts = append(parts, status)
	}
	if m.chat.IsOpen() {
		parts = append(parts, m.renderChat(st))
	}
	parts = append(parts, m.renderHelp(st))
	return strings.Join(parts, "\n\n") + "\n"
}

func (m DashboardModel) renderHeader(st Styles) string {
	title := st.Primary.Bold(true).Render("⚡ voltsight") + st.Subtle.Render("  ·  ") + st.Title.Render(m.state.View.Title())
	if sess, ok := m.state.Session(); ok {
		title += st.Subtle.Render("  ·  " + sess.UserID)
	}
	if m.Busy() {
		title += "  " + m.spinner.View()
	}
	return title
}

func (m DashboardModel) renderSidebar(st Styles) string {
	var sb strings.Builder
	for i, v := range dashboard.Views() {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		if v == m.state.View {
			sb.WriteString(st.SidebarActive.Render("▌"+label) + "\n")
		} else {
			sb.WriteString(st.SidebarItem.Render(" "+label) + "\n")
		}
	}
	sb.WriteString("\n" + st.Subtle.Render(" theme: "+st.Theme.Name))
	return st.Card.Render(sb.String())
}

func (m DashboardModel) renderStatus(st Styles) string {
	switch {
	case m.errMsg != "":
		return st.Error.Render("✗ " + m.errMsg)
	case m.state.Notice != "":
		return st.Notice.Render("✓ " + m.state.Notice)
	}
	if p, ok := m.state.Phase.(dashboard.Unverified); ok && p.Err != nil {
		return st.Error.Render("✗ " + errorText(p.Err))
	}
	return ""
}

func (m DashboardModel) renderBody(st Styles) string {
	switch m.state.View {
	case dashboard.ViewBatteries:
		return m.renderBatteries(st)
	case dashboard.ViewWarranty:
		return m.renderWarranty(st)
	case dashboard.ViewProfile:
		return m.renderProfile(st)
	}
	return m.renderDashboard(st)
}

func (m DashboardModel) renderDashboard(st Styles) string {
	if !m.state.Verified() {
		return m.renderLogin(st)
	}

	var left []string
	selectedID := ""
	if v, ok := m.state.Selected(); ok {
		selectedID = v.VehicleID
	}
	if vs := m.state.Vehicles(); len(vs) > 0 {
		left = append(left, section(st, "Your vehicles", RenderVehicles(st, vs, selectedID, m.cursor)))
	}
	if m.state.RegisterFormVisible() || m.mode == modeRegister {
		left = append(left, section(st, "Register a vehicle", m.renderVehicleForm(st, modeRegister)))
	}
	if selectedID != "" {
		left = append(left, section(st, "Edit "+selectedID, m.renderVehicleForm(st, modeEdit)))
		left = append(left, section(st, "Telemetry", m.renderTelemetry(st)))
	}

	r := m.state.CurrentResult()
	right := section(st, "Battery health", RenderHealth(st, r)) + "\n" +
		RenderAssessment(st, warranty.DashboardSummary(r))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(left, "\n"),
		"  ",
		st.Card.Render(strings.TrimRight(right, "\n")),
	)
}

func (m DashboardModel) renderLogin(st Styles) string {
	var sb strings.Builder
	sb.WriteString(st.Title.Render("Welcome to voltsight") + "\n")
	sb.WriteString(st.Subtle.Render("Enter your user id to load your vehicles.") + "\n\n")
	input := m.login.View()
	if m.mode == modeLogin {
		input = st.Input.BorderForeground(st.Theme.Primary).Render(input)
	} else {
		input = st.Input.Render(input)
	}
	sb.WriteString(input)
	return st.Card.Render(sb.String())
}

func (m DashboardModel) renderVehicleForm(st Styles, mode inputMode) string {
	var (
		fields []dashboard.VehicleField
		inputs []textinput.Model
		form   dashboard.VehicleForm
	)
	if mode == modeRegister {
		fields, inputs, form = dashboard.VehicleFields(), m.register, m.state.RegisterForm
	} else {
		fields, inputs, form = editFields, m.edit, m.state.EditForm
	}

	var sb strings.Builder
	for i, f := range fields {
		sb.WriteString(m.renderField(st, vehicleFieldLabels[f], inputs[i], form.Get(f), mode, i) + "\n")
	}
	return sb.String()
}

func (m DashboardModel) renderTelemetry(st Styles) string {
	values := []string{m.state.Telemetry.TotalDistanceKm, m.state.Telemetry.ChargingTimeMin}
	var sb strings.Builder
	for i, label := range telemetryLabels {
		sb.WriteString(m.renderField(st, label, m.telemetry[i], values[i], modeTelemetry, i) + "\n")
	}
	return sb.String()
}

// renderField shows the live input while its form is being edited and the
// controller's value otherwise.
func (m DashboardModel) renderField(st Styles, label string, in textinput.Model, value string, mode inputMode, i int) string {
	name := st.Subtle.Render(padRight(label, 20))
	if m.mode != mode {
		if value == "" {
			value = st.Subtle.Render("-")
		}
		return name + " " + value
	}
	marker := "  "
	if i == m.field {
		marker = st.Primary.Render("› ")
	}
	return marker + name + " " + in.View()
}

func (m DashboardModel) renderBatteries(st Styles) string {
	r := m.state.CurrentResult()
	spec := section(st, "Battery specification", RenderSpec(st, m.state.BatteryType(), r))
	materials := section(st, "Material composition", RenderMaterials(st, r))
	return lipgloss.JoinHorizontal(lipgloss.Top, st.Card.Render(spec), "  ", st.Card.Render(materials))
}

func (m DashboardModel) renderWarranty(st Styles) string {
	r := m.state.CurrentResult()
	return RenderAssessment(st, warranty.Assess(r)) + "\n" + RenderPlans(st, warranty.DerivePlans(r))
}

func (m DashboardModel) renderProfile(st Styles) string {
	user := st.Subtle.Render("not signed in")
	if sess, ok := m.state.Session(); ok {
		user = sess.UserID
	}
	rows := [][2]string{
		{"User", user},
		{"Status", m.state.Phase.Name()},
		{"Vehicles", fmt.Sprint(len(m.state.Vehicles()))},
		{"Theme", st.Theme.Name},
		{"Sidebar", onOff(m.state.SidebarOpen)},
	}
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(st.Subtle.Render(padRight(row[0], 10)) + " " + row[1] + "\n")
	}
	sb.WriteString("\n" + st.Subtle.Render("t theme · b sidebar · L log out"))
	return st.Card.Render(section(st, "Profile & Settings", sb.String()))
}

func (m DashboardModel) renderChat(st Styles) string {
	width := 64
	if m.width > 0 {
		width = min(m.width-4, 80)
	}

	var sb strings.Builder
	for _, msg := range m.chat.Messages() {
		if msg.Sender == chat.SenderUser {
			sb.WriteString(st.Primary.Render("You: ") + WrapText(msg.Text, width-6) + "\n")
		} else {
			sb.WriteString(st.Accent.Render("Assistant: ") + WrapText(msg.Text, width-12) + "\n")
		}
	}
	sb.WriteString("\n" + m.chatInput.View())

	return NewPanel(st, "EV Health Assistant", strings.TrimRight(sb.String(), "\n")).
		WithBorderColor(st.Theme.Accent).
		WithWidth(width).
		Render()
}

func (m DashboardModel) renderHelp(st Styles) string {
	var keys string
	switch m.mode {
	case modeLogin:
		keys = "enter verify · tab browse · ctrl+c quit"
	case modeRegister:
		keys = "tab next · enter register · esc close"
	case modeEdit:
		keys = "tab next · enter save · esc discard"
	case modeTelemetry:
		keys = "tab next · enter analyse · esc back"
	case modeChat:
		keys = "enter send · esc close chat"
	default:
		keys = "1-4 views · ↑/↓ enter select · n new · e edit · f telemetry · p analyse · c chat · t theme · b sidebar · q quit"
	}
	return st.Subtle.Render(keys)
}

func section(st Styles, title, body string) string {
	return st.SectionTitle.Render(title) + "\n" + body
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
