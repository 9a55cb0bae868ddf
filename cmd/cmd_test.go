package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/voltsight/internal/chat"
	"github.com/josephgoksu/voltsight/internal/report"
	"github.com/josephgoksu/voltsight/models"
)

// registerEV logs in as driver-7 and registers EV-1.
func registerEV(t *testing.T, env *cliEnv) {
	t.Helper()
	_, err := env.run("login", "driver-7")
	require.NoError(t, err)
	_, err = env.run("register", "EV-1",
		"--battery", "LiFePO4", "--price", "31999.5",
		"--bought", "2023-05-02", "--manufactured", "2023-01-20")
	require.NoError(t, err)
}

func TestLoginWithoutVehicles(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)

	out, err := env.run("login", "driver-7")
	require.NoError(t, err)
	assert.Contains(t, out, "Verified driver-7")
	assert.Contains(t, out, "No vehicles yet")
}

func TestVehiclesNeedsSession(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)

	_, err := env.run("vehicles")
	assert.ErrorIs(t, err, errNoSession)
}

func TestRegisterAndList(t *testing.T) {
	fb, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	out, err := env.run("vehicles", "--json")
	require.NoError(t, err)

	var vehicles []models.Vehicle
	require.NoError(t, json.Unmarshal([]byte(out), &vehicles))
	require.Len(t, vehicles, 1)
	assert.Equal(t, "EV-1", vehicles[0].VehicleID)
	assert.Equal(t, models.BatteryLFP, vehicles[0].BatteryType)
	assert.InDelta(t, 31999.5, vehicles[0].BuyingPrice, 0.001)

	fb.mu.Lock()
	assert.Len(t, fb.vehicles["driver-7"], 1)
	fb.mu.Unlock()

	out, err = env.run("vehicles")
	require.NoError(t, err)
	assert.Contains(t, out, "EV-1")
	assert.Contains(t, out, "driver-7")
}

func TestRegisterDuplicateShowsBackendDetail(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	_, err := env.run("register", "EV-1", "--price", "1", "--bought", "2023-05-02", "--manufactured", "2023-01-20")
	require.Error(t, err)
	assert.Equal(t, "Error: Vehicle already registered", userMessage(err))
}

func TestUserFlagOverridesStoredSession(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.vehicles["fleet-2"] = []models.Vehicle{{UserID: "fleet-2", VehicleID: "VAN-9", BatteryType: models.BatteryLiIon, BuyingDate: "2022-01-01", ManufactureDate: "2021-11-01"}}
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	out, err := env.run("vehicles", "--json", "--user", "fleet-2")
	require.NoError(t, err)
	var vehicles []models.Vehicle
	require.NoError(t, json.Unmarshal([]byte(out), &vehicles))
	require.Len(t, vehicles, 1)
	assert.Equal(t, "VAN-9", vehicles[0].VehicleID)
}

func TestUpdate(t *testing.T) {
	fb, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	_, err := env.run("update", "EV-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")

	out, err := env.run("update", "EV-1", "--price", "28000", "--json")
	require.NoError(t, err)

	var got struct {
		Message string         `json:"message"`
		Vehicle models.Vehicle `json:"vehicle"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Vehicle updated successfully", got.Message)
	assert.InDelta(t, 28000, got.Vehicle.BuyingPrice, 0.001)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	assert.InDelta(t, 28000, fb.vehicles["driver-7"][0].BuyingPrice, 0.001)
	assert.Equal(t, models.BatteryLFP, fb.vehicles["driver-7"][0].BatteryType)
}

func TestUpdateUnknownVehicle(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	_, err := env.run("update", "EV-404", "--price", "1")
	require.Error(t, err)
}

func TestPredictJSONIsBackendBody(t *testing.T) {
	fb, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	out, err := env.run("predict", "EV-1", "--json", "--distance", "42000", "--charging", "55")
	require.NoError(t, err)
	assert.JSONEq(t, fb.predictBody, out)
	assert.Equal(t, 1, fb.predictCalls)
}

func TestPredictText(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	out, err := env.run("predict", "EV-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Battery health")
	assert.Contains(t, out, "92.1")
	assert.Contains(t, out, "Low Risk")
}

func TestPredictRejectsBadTelemetry(t *testing.T) {
	fb, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	_, err := env.run("predict", "EV-1", "--distance", "-5")
	require.Error(t, err)
	assert.Zero(t, fb.predictCalls)
}

func TestPlansWithoutVehicle(t *testing.T) {
	env := newCLIEnv(t, "http://localhost:8000")

	out, err := env.run("plans")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "[not available]"))
}

func TestPlansForHealthyBattery(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.predictBody = predictionBody(95, false)
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	out, err := env.run("plans", "EV-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Platinum Shield $899/yr [recommended]")

	out, err = env.run("plans", "EV-1", "--json")
	require.NoError(t, err)
	var got struct {
		Eligible bool               `json:"eligible"`
		Plans    []models.PlanOffer `json:"plans"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Eligible)
	assert.Len(t, got.Plans, 3)
}

func TestReportWritesParsableFile(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	fs := afero.NewMemMapFs()
	reportFs = fs
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	now = func() time.Time { return at }
	t.Cleanup(func() {
		reportFs = afero.NewOsFs()
		now = time.Now
	})

	out, err := env.run("report", "EV-1", "--out", "reports", "--json")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, filepath.Join("reports", report.FileName("EV-1", at)), got["path"])

	data, err := afero.ReadFile(fs, got["path"])
	require.NoError(t, err)
	fm, err := report.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "driver-7", fm.UserID)
	assert.Equal(t, "EV-1", fm.VehicleID)
	assert.Equal(t, models.BatteryLFP, fm.BatteryType)
	assert.InDelta(t, 92.1, fm.Prediction.PredictedSoh, 0.001)
}

func TestReportToStdout(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	out, err := env.run("report", "EV-1", "--out", "-")
	require.NoError(t, err)
	fm, err := report.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "EV-1", fm.VehicleID)
}

func TestChatSendsPredictionAsContext(t *testing.T) {
	fb, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	out, err := env.run("chat", "is", "my", "battery", "ok?", "--vehicle", "EV-1", "--json")
	require.NoError(t, err)

	var msgs []chat.Message
	require.NoError(t, json.Unmarshal([]byte(out), &msgs))
	require.Len(t, msgs, 3)
	assert.Equal(t, chat.WelcomeText, msgs[0].Text)
	assert.Equal(t, "is my battery ok?", msgs[1].Text)
	assert.Equal(t, "echo: is my battery ok?", msgs[2].Text)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.Len(t, fb.chatContexts, 1)
	assert.JSONEq(t, fb.predictBody, string(fb.chatContexts[0]))
}

func TestChatFallsBackWhenBackendFails(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.chatStatus = 500
	env := newCLIEnv(t, srv.URL)

	out, err := env.run("chat", "hello", "--json")
	require.Error(t, err)

	var msgs []chat.Message
	require.NoError(t, json.Unmarshal([]byte(out), &msgs))
	require.NotEmpty(t, msgs)
	assert.Equal(t, chat.FallbackText, msgs[len(msgs)-1].Text)
	assert.Equal(t, chat.SenderBot, msgs[len(msgs)-1].Sender)
}

func TestLogout(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	out, err := env.run("logout", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")

	_, err = env.run("vehicles")
	assert.ErrorIs(t, err, errNoSession)
}

func TestLogoutCancelled(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	registerEV(t, env)

	out, err := env.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")

	_, err = env.run("vehicles")
	assert.NoError(t, err)
}

func TestConfigSetAndShow(t *testing.T) {
	env := newCLIEnv(t, "http://localhost:8000")
	before, err := os.ReadFile(env.cfgPath)
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, env.cfgPath, before, 0600))
	configFs = fs
	t.Cleanup(func() { configFs = afero.NewOsFs() })

	out, err := env.run("config", "set", "ui.dark_mode", "true")
	require.NoError(t, err)
	assert.Contains(t, out, "ui.dark_mode = true")

	data, err := afero.ReadFile(fs, env.cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dark_mode: true")
	assert.Contains(t, string(data), "base_url: http://localhost:8000")

	_, err = env.run("config", "set", "api.model", "x")
	require.Error(t, err)

	out, err = env.run("config", "show", "--json")
	require.NoError(t, err)
	var shown struct {
		ConfigFile string         `json:"config_file"`
		Settings   map[string]any `json:"settings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, env.cfgPath, shown.ConfigFile)
	assert.Equal(t, "http://localhost:8000", shown.Settings["api.base_url"])
}
