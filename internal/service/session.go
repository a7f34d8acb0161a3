package service

import (
	"context"
	"errors"
	"sync"

	"darkveil/internal/config"
	"darkveil/internal/domain"
	"darkveil/internal/flow"
	"darkveil/internal/models"
	"darkveil/internal/store"

	"github.com/rs/zerolog"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Session binds an authenticated user to their booking wizard.
type Session struct {
	mu   sync.Mutex
	user models.User
	Flow *flow.Controller
}

func (s *Session) User() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SessionService opens and closes user sessions against the gateway.
type SessionService struct {
	store   *store.Store
	gateway domain.Gateway
	states  domain.FlowStateRepository
	booking config.BookingConfig
	logger  *zerolog.Logger
}

func NewSessionService(
	st *store.Store,
	gateway domain.Gateway,
	states domain.FlowStateRepository,
	booking config.BookingConfig,
	logger *zerolog.Logger,
) *SessionService {
	return &SessionService{
		store:   st,
		gateway: gateway,
		states:  states,
		booking: booking,
		logger:  logger,
	}
}

// Login authenticates against the gateway and wires a booking wizard
// for the user, resuming any persisted snapshot.
func (s *SessionService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	controller := flow.NewController(s.store, s.gateway, s.states, user, s.booking.MaxBookingDays, s.logger)
	if err := controller.Restore(ctx); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("flow state restore failed, starting fresh")
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("session opened")
	return &Session{user: user, Flow: controller}, nil
}

// Logout drops the wizard and its persisted snapshot.
func (s *SessionService) Logout(ctx context.Context, session *Session) {
	if session == nil {
		return
	}
	session.Flow.Reset(ctx)
	s.logger.Info().Str("user_id", session.User().ID).Msg("session closed")
}

// CompleteOnboarding acknowledges onboarding with the gateway and marks
// the session user as onboarded.
func (s *SessionService) CompleteOnboarding(ctx context.Context, session *Session) error {
	if session == nil {
		return ErrNotAuthenticated
	}

	user := session.User()
	if err := s.gateway.CompleteOnboarding(ctx, user.ID); err != nil {
		return err
	}

	session.mu.Lock()
	session.user.HasOnboarded = true
	session.mu.Unlock()
	return nil
}

// UpdateProfile applies in-session profile edits. Empty fields are left
// untouched.
func (s *SessionService) UpdateProfile(session *Session, name, phone, avatarURL string) error {
	if session == nil {
		return ErrNotAuthenticated
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if name != "" {
		session.user.Name = name
	}
	if phone != "" {
		session.user.Phone = phone
	}
	if avatarURL != "" {
		session.user.AvatarURL = avatarURL
	}
	return nil
}
