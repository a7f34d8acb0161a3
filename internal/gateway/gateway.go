package gateway

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"darkveil/internal/config"
	"darkveil/internal/domain"
	"darkveil/internal/metrics"
	"darkveil/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrUnknownService = errors.New("unknown service id")
	ErrMissingFields  = errors.New("appointment draft is missing required fields")
)

// Gateway simulates the backend: every call is independent, resolves
// after a configured delay and owns no durable state. Availability is
// re-randomized per call, so repeated slot queries are not idempotent.
type Gateway struct {
	catalog   domain.Catalog
	slots     []string
	cfg       config.GatewayConfig
	logger    zerolog.Logger
	mu        sync.Mutex
	rng       *rand.Rand
	adminUser models.User
}

func New(catalog domain.Catalog, slots []string, cfg config.GatewayConfig, logger *zerolog.Logger) *Gateway {
	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "gateway").Logger()
	}
	return &Gateway{
		catalog: catalog,
		slots:   append([]string(nil), slots...),
		cfg:     cfg,
		logger:  log,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		adminUser: models.User{
			ID:            "u_admin",
			Name:          "Admin User",
			Email:         "admin@darkveil.com",
			Role:          models.RoleAdmin,
			LoyaltyPoints: 0,
			HasOnboarded:  true,
			AvatarURL:     "https://picsum.photos/100/100?random=99",
		},
	}
}

// SetRandSource replaces the availability randomness; tests use a fixed
// seed to make slot patterns reproducible.
func (g *Gateway) SetRandSource(src rand.Source) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rng = rand.New(src)
}

// Login matches the two demo accounts; any other credentials yield a
// default client profile. This is a demo affordance, not authentication.
func (g *Gateway) Login(ctx context.Context, email, password string) (models.User, error) {
	if err := g.delay(ctx, g.cfg.LoginDelayMs); err != nil {
		return models.User{}, err
	}

	if email == "admin@darkveil.com" && password == "admin" {
		metrics.IncGateway("login", "ok")
		admin := g.adminUser
		admin.Email = email
		return admin, nil
	}

	if email == "client@darkveil.com" && password == "password" {
		metrics.IncGateway("login", "ok")
		return models.User{
			ID:            "u_123",
			Name:          "John Doe",
			Email:         email,
			Role:          models.RoleClient,
			LoyaltyPoints: 150,
			HasOnboarded:  false,
			AvatarURL:     "https://picsum.photos/100/100?random=88",
		}, nil
	}

	metrics.IncGateway("login", "ok")
	return models.User{
		ID:            "u_" + uuid.NewString(),
		Name:          "John Doe",
		Email:         email,
		Role:          models.RoleClient,
		LoyaltyPoints: 150,
		HasOnboarded:  false,
		AvatarURL:     "https://picsum.photos/100/100?random=88",
	}, nil
}

// CompleteOnboarding acknowledges and forgets.
func (g *Gateway) CompleteOnboarding(ctx context.Context, userID string) error {
	if err := g.delay(ctx, g.cfg.OnboardingDelayMs); err != nil {
		return err
	}
	g.logger.Info().Str("user_id", userID).Msg("onboarding completed")
	metrics.IncGateway("complete_onboarding", "ok")
	return nil
}

// AvailableSlots returns one entry per configured slot label. Availability
// is randomized independently on every call; only the label set is stable.
func (g *Gateway) AvailableSlots(ctx context.Context, date, barberID string) ([]models.TimeSlot, error) {
	if err := g.delay(ctx, g.cfg.SlotsDelayMs); err != nil {
		return nil, err
	}

	rate := g.cfg.AvailabilityRate
	if rate <= 0 {
		rate = models.DefaultAvailabilityRate
	}

	g.mu.Lock()
	slots := make([]models.TimeSlot, 0, len(g.slots))
	for _, label := range g.slots {
		slots = append(slots, models.TimeSlot{
			Time:      label,
			Available: g.rng.Float64() < rate,
		})
	}
	g.mu.Unlock()

	g.logger.Debug().Str("date", date).Str("barber_id", barberID).Int("slots", len(slots)).Msg("slots generated")
	metrics.IncGateway("available_slots", "ok")
	return slots, nil
}

// CreateAppointment validates the service reference, assigns a fresh id
// and confirms. Slot availability is not re-checked here, so two
// overlapping bookings can both succeed; there is no conflict policy.
func (g *Gateway) CreateAppointment(ctx context.Context, draft models.AppointmentDraft) (models.Appointment, error) {
	if err := g.delay(ctx, g.cfg.CreateDelayMs); err != nil {
		return models.Appointment{}, err
	}

	if draft.ServiceID == "" || draft.BarberID == "" || draft.UserID == "" || draft.Date == "" || draft.Time == "" {
		metrics.IncGateway("create_appointment", "error")
		return models.Appointment{}, ErrMissingFields
	}

	service, ok := g.catalog.GetServiceByID(draft.ServiceID)
	if !ok {
		metrics.IncGateway("create_appointment", "error")
		return models.Appointment{}, ErrUnknownService
	}

	apt := models.Appointment{
		ID:        "apt_" + uuid.NewString(),
		ServiceID: draft.ServiceID,
		BarberID:  draft.BarberID,
		UserID:    draft.UserID,
		Date:      draft.Date,
		Time:      draft.Time,
		Status:    models.StatusConfirmed,
	}

	g.logger.Info().
		Str("appointment_id", apt.ID).
		Str("service", service.Name).
		Str("date", apt.Date).
		Str("time", apt.Time).
		Msg("confirmation dispatched")
	metrics.IncGateway("create_appointment", "ok")

	return apt, nil
}

// Appointments mirrors the demo backend: no server-side history exists.
func (g *Gateway) Appointments(ctx context.Context, userID string) ([]models.Appointment, error) {
	if err := g.delay(ctx, g.cfg.SlotsDelayMs); err != nil {
		return nil, err
	}
	metrics.IncGateway("appointments", "ok")
	return []models.Appointment{}, nil
}

func (g *Gateway) delay(ctx context.Context, ms int) error {
	if ms <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
