package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"darkveil/internal/config"
	"darkveil/internal/gateway"
	"darkveil/internal/metrics"
	"darkveil/internal/models"
	"darkveil/internal/repository"
	"darkveil/internal/service"
	"darkveil/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(cfg config.APIConfig) *HTTPServer {
	metrics.Register()
	logger := zerolog.Nop()
	st := store.New(
		[]models.Service{{ID: "s1", Name: "Haircut", Price: 60, DurationMinutes: 45}},
		[]models.Barber{{ID: "b1", Name: "Marcus", Rating: 4.9}},
		[]models.Announcement{{ID: "a1", Title: "Holiday Hours", Date: "2023-12-01"}},
		&logger,
	)
	gw := gateway.New(st, []string{"09:00", "10:00"}, config.GatewayConfig{AvailabilityRate: 0.7}, &logger)
	states := repository.NewMemoryStateRepository(time.Hour)
	sessions := service.NewSessionService(st, gw, states, config.BookingConfig{MaxBookingDays: 365}, &logger)
	return NewHTTPServer(cfg, st, gw, sessions, &logger)
}

func openConfig() config.APIConfig {
	// auth off: exercises handlers directly
	return config.APIConfig{HTTP: config.APIHTTPConfig{Port: 0}}
}

func doRequest(srv *HTTPServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer(openConfig())

	t.Run("Services", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/services", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Services []models.Service `json:"services"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Services, 1)
		assert.Equal(t, "s1", body.Services[0].ID)
	})

	t.Run("Barbers", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/barbers", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Marcus")
	})

	t.Run("Announcements", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/announcements", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Holiday Hours")
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/v1/services", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestSlotsEndpoint(t *testing.T) {
	srv := newTestServer(openConfig())

	t.Run("MissingDate", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/slots?barber_id=b1", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("InvalidDate", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/slots?date=tomorrow&barber_id=b1", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("MissingBarber", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/slots?date=2024-06-01", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownBarber", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/slots?date=2024-06-01&barber_id=ghost", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("OK", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/slots?date=2024-06-01&barber_id=b1", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Slots []models.TimeSlot `json:"slots"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Slots, 2)
	})
}

func TestAppointmentsEndpoint(t *testing.T) {
	srv := newTestServer(openConfig())

	draft := models.AppointmentDraft{
		ServiceID: "s1",
		BarberID:  "b1",
		UserID:    "u_123",
		Date:      "2024-06-01",
		Time:      "10:00",
	}

	t.Run("Create", func(t *testing.T) {
		payload, _ := json.Marshal(draft)
		rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader(payload)))
		require.Equal(t, http.StatusCreated, rec.Code)

		var apt models.Appointment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apt))
		assert.Equal(t, models.StatusConfirmed, apt.Status)
		assert.NotEmpty(t, apt.ID)

		apts := srv.store.Appointments()
		require.Len(t, apts, 1)
		assert.Equal(t, apt.ID, apts[0].ID)
	})

	t.Run("List", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "s1")
	})

	t.Run("UnknownService", func(t *testing.T) {
		bad := draft
		bad.ServiceID = "ghost"
		payload, _ := json.Marshal(bad)
		rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader(payload)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("MissingFields", func(t *testing.T) {
		bad := draft
		bad.Time = ""
		payload, _ := json.Marshal(bad)
		rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader(payload)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader([]byte("{"))))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSessionEndpoints(t *testing.T) {
	srv := newTestServer(openConfig())

	login := func(t *testing.T) string {
		t.Helper()
		payload := []byte(`{"email":"client@darkveil.com","password":"password"}`)
		rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(payload)))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Token string      `json:"token"`
			User  models.User `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotEmpty(t, body.Token)
		assert.Equal(t, "u_123", body.User.ID)
		return body.Token
	}

	t.Run("Login", func(t *testing.T) {
		login(t)
	})

	t.Run("LoginMissingCredentials", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader([]byte(`{"email":"x"}`))))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Onboarding", func(t *testing.T) {
		token := login(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding", nil)
		req.Header.Set(sessionTokenHeader, token)
		rec := doRequest(srv, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var user models.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.True(t, user.HasOnboarded)
	})

	t.Run("OnboardingUnknownToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding", nil)
		req.Header.Set(sessionTokenHeader, "nope")
		rec := doRequest(srv, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHTTPAuth(t *testing.T) {
	cfg := config.APIConfig{
		Enabled: true,
		HTTP:    config.APIHTTPConfig{Enabled: true},
		Auth: config.APIAuthConfig{
			Enabled:      true,
			HeaderAPIKey: "x-api-key",
			APIKeys: []config.APIClientKey{
				{Key: "catalog-only", Name: "reader", Permissions: []string{"read:catalog"}},
				{Key: "full", Name: "all"},
			},
		},
	}
	srv := newTestServer(cfg)

	t.Run("MissingKey", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/services", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("InvalidKey", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
		req.Header.Set("x-api-key", "nope")
		rec := doRequest(srv, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ValidKey", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
		req.Header.Set("x-api-key", "catalog-only")
		rec := doRequest(srv, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("PermissionDenied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/slots?date=2024-06-01&barber_id=b1", nil)
		req.Header.Set("x-api-key", "catalog-only")
		rec := doRequest(srv, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("EmptyPermissionsAllowAll", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/slots?date=2024-06-01&barber_id=b1", nil)
		req.Header.Set("x-api-key", "full")
		rec := doRequest(srv, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHTTPRateLimit(t *testing.T) {
	cfg := config.APIConfig{
		Enabled:   true,
		HTTP:      config.APIHTTPConfig{Enabled: true},
		RateLimit: config.APIRateLimitConfig{RPS: 0.001, Burst: 1},
	}
	srv := newTestServer(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
	req.Header.Set("x-api-key", "client")

	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Burst of one: the next request from the same key is throttled.
	rec = doRequest(srv, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
