package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/voltsight/models"
)

// fakeRegistry is an in-memory stand-in for the vehicle registry backend.
type fakeRegistry struct {
	mu       sync.Mutex
	vehicles map[string][]models.Vehicle
	paths    []string
}

func newFakeRegistry(t *testing.T) (*fakeRegistry, *httptest.Server) {
	t.Helper()
	f := &fakeRegistry{vehicles: map[string][]models.Vehicle{}}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /register_vehicle", func(w http.ResponseWriter, r *http.Request) {
		var req vehicleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"detail":"bad body"}`, http.StatusUnprocessableEntity)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, v := range f.vehicles[req.UserID] {
			if v.VehicleID == req.VehicleID {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"detail":"Vehicle ID already registered"}`)
				return
			}
		}
		f.vehicles[req.UserID] = append(f.vehicles[req.UserID], models.Vehicle{
			UserID: req.UserID, VehicleID: req.VehicleID, BatteryType: req.BatteryType,
			BuyingPrice: req.BuyingPrice, BuyingDate: req.BuyingDate, ManufactureDate: req.ManufactureDate,
		})
		_, _ = io.WriteString(w, `{"message":"Vehicle registered successfully"}`)
	})
	mux.HandleFunc("POST /update_vehicle", func(w http.ResponseWriter, r *http.Request) {
		var req vehicleRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		list := f.vehicles[req.UserID]
		for i := range list {
			if list[i].VehicleID == req.VehicleID {
				list[i].BuyingPrice = req.BuyingPrice
				list[i].BatteryType = req.BatteryType
				list[i].BuyingDate = req.BuyingDate
				list[i].ManufactureDate = req.ManufactureDate
				_, _ = io.WriteString(w, `{"message":"Vehicle updated"}`)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Vehicle not found"}`)
	})
	mux.HandleFunc("GET /get_vehicles/{userId}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.paths = append(f.paths, r.URL.EscapedPath())
		list := f.vehicles[r.PathValue("userId")]
		if list == nil {
			list = []models.Vehicle{}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"vehicles": list})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func sampleVehicle(id string) models.Vehicle {
	return models.Vehicle{
		VehicleID:       id,
		BatteryType:     models.BatteryLFP,
		BuyingPrice:     32000,
		BuyingDate:      "2023-04-01",
		ManufactureDate: "2022-11-15",
	}
}

func TestNewTransport_RequiresBaseURL(t *testing.T) {
	_, err := NewRegistryClient(Config{BaseURL: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URL")
}

func TestRegistry_RegisterThenListIncludesVehicleOnce(t *testing.T) {
	_, srv := newFakeRegistry(t)
	client, err := NewRegistryClient(Config{BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	ctx := context.Background()
	sess := models.Session{UserID: "dave"}

	msg, err := client.RegisterVehicle(ctx, sess, sampleVehicle("EV-1"))
	require.NoError(t, err)
	assert.Equal(t, "Vehicle registered successfully", msg)

	list, err := client.ListVehicles(ctx, "dave")
	require.NoError(t, err)

	count := 0
	for _, v := range list {
		if v.VehicleID == "EV-1" {
			count++
			assert.Equal(t, "dave", v.UserID)
			assert.Equal(t, models.BatteryLFP, v.BatteryType)
			assert.Equal(t, 32000.0, v.BuyingPrice)
		}
	}
	assert.Equal(t, 1, count)
}

func TestRegistry_DuplicateSurfacesDetail(t *testing.T) {
	_, srv := newFakeRegistry(t)
	client, err := NewRegistryClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	ctx := context.Background()
	sess := models.Session{UserID: "dave"}
	_, err = client.RegisterVehicle(ctx, sess, sampleVehicle("EV-1"))
	require.NoError(t, err)

	_, err = client.RegisterVehicle(ctx, sess, sampleVehicle("EV-1"))
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "Vehicle ID already registered", se.Detail)
	assert.Contains(t, err.Error(), "register vehicle EV-1")
}

func TestRegistry_ListEscapesUserID(t *testing.T) {
	f, srv := newFakeRegistry(t)
	client, err := NewRegistryClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	list, err := client.ListVehicles(context.Background(), "a b/c")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	require.Len(t, f.paths, 1)
	assert.Equal(t, "/get_vehicles/a%20b%2Fc", f.paths[0])
}

func TestRegistry_UpdateVehicle(t *testing.T) {
	_, srv := newFakeRegistry(t)
	client, err := NewRegistryClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	ctx := context.Background()
	sess := models.Session{UserID: "dave"}
	_, err = client.RegisterVehicle(ctx, sess, sampleVehicle("EV-1"))
	require.NoError(t, err)

	edited := sampleVehicle("EV-1")
	edited.BuyingPrice = 28000
	_, err = client.UpdateVehicle(ctx, sess, edited)
	require.NoError(t, err)

	list, err := client.ListVehicles(ctx, "dave")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 28000.0, list[0].BuyingPrice)

	_, err = client.UpdateVehicle(ctx, sess, sampleVehicle("missing"))
	assert.True(t, IsNotFound(err))
}

const predictBody = `{"estimated_soc":78.5,"predicted_soh":92.1,"risk_rating":"Low Risk","anomaly_warning":false,` +
	`"resale_value_usd":21450.5,"material_composition":{"lithium_g":6200,"cobalt_g":0,"iron_g":41000},` +
	`"latent_features":{"pred_charging_cycles":410,"pred_battery_temp":31.2},"model_version":"v7"}`

func TestPrediction_DecodesResultAndKeepsRaw(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, predictBody)
	}))
	defer srv.Close()

	client, err := NewPredictionClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	p, err := client.Predict(context.Background(), models.Session{UserID: "dave"}, "EV-1", models.TelemetryInput{
		TotalDistanceKm: 12500,
		ChargingTimeMin: 45,
		BatteryType:     models.BatteryLFP,
	})
	require.NoError(t, err)

	assert.Equal(t, "dave", got["user_id"])
	assert.Equal(t, "EV-1", got["vehicle_id"])
	assert.Equal(t, models.BatteryLFP, got["battery_type"])
	assert.Equal(t, 12500.0, got["total_dist_km"])
	assert.Equal(t, 45.0, got["charging_time_min"])

	assert.Equal(t, 92.1, p.Result.PredictedSoh)
	assert.Equal(t, models.RiskNormal, p.Result.RiskRating)
	assert.True(t, p.Result.MaterialComposition.HasIron())
	assert.Equal(t, predictBody, string(p.Raw))
}

func TestPrediction_NonJSONBodyFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>oops</html>")
	}))
	defer srv.Close()

	client, err := NewPredictionClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), models.Session{UserID: "dave"}, "EV-1", models.TelemetryInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode result")
}

func TestChat_SendsExactContext(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"response":"Your battery is healthy."}`)
	}))
	defer srv.Close()

	client, err := NewChatClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	reply, err := client.Ask(context.Background(), "How is my battery?", json.RawMessage(predictBody))
	require.NoError(t, err)
	assert.Equal(t, "Your battery is healthy.", reply)

	var sent struct {
		Query   string          `json:"query"`
		Context json.RawMessage `json:"context"`
	}
	require.NoError(t, json.Unmarshal(body, &sent))
	assert.Equal(t, "How is my battery?", sent.Query)
	assert.Equal(t, predictBody, string(sent.Context))
}

func TestChat_NilContextIsNull(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		_, _ = io.WriteString(w, `{"response":"ok"}`)
	}))
	defer srv.Close()

	client, err := NewChatClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"query":"hi","context":null}`, body)
}

func TestChat_ServerErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, strings.Repeat("x", 500))
	}))
	defer srv.Close()

	client, err := NewChatClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), "hi", nil)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Len(t, se.Detail, 203)
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", ""},
		{"string detail", `{"detail":"Vehicle not found"}`, "Vehicle not found"},
		{"list detail", `{"detail":[{"loc":["body","vehicle_id"]}]}`, `[{"loc":["body","vehicle_id"]}]`},
		{"plain text", "Internal Server Error\n", "Internal Server Error"},
		{"long multibyte", strings.Repeat("🔋", 250), strings.Repeat("🔋", 200) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractDetail([]byte(tt.body))
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
