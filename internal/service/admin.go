package service

import (
	"errors"
	"fmt"

	"darkveil/internal/config"
	"darkveil/internal/models"
	"darkveil/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrForbidden         = errors.New("admin role required")
	ErrInvalidCatalog    = errors.New("invalid catalog entry")
	ErrInvalidStatus     = errors.New("invalid appointment status")
	ErrEmptyAnnouncement = errors.New("announcement title is required")
)

// AdminService performs catalog and appointment maintenance on behalf
// of admin users.
type AdminService struct {
	store   *store.Store
	exports config.ExportConfig
	logger  *zerolog.Logger
}

func NewAdminService(st *store.Store, exports config.ExportConfig, logger *zerolog.Logger) *AdminService {
	return &AdminService{
		store:   st,
		exports: exports,
		logger:  logger,
	}
}

func requireAdmin(user models.User) error {
	if user.Role != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *AdminService) UpdateService(user models.User, svc models.Service) error {
	if err := requireAdmin(user); err != nil {
		return err
	}
	if svc.Name == "" || svc.Price <= 0 || svc.DurationMinutes <= 0 {
		return fmt.Errorf("%w: service %s", ErrInvalidCatalog, svc.ID)
	}

	s.store.UpdateService(svc)
	s.logger.Info().Str("service_id", svc.ID).Str("admin_id", user.ID).Msg("service updated")
	return nil
}

func (s *AdminService) UpdateBarber(user models.User, barber models.Barber) error {
	if err := requireAdmin(user); err != nil {
		return err
	}
	if barber.Name == "" || barber.Rating < 0 || barber.Rating > 5 {
		return fmt.Errorf("%w: barber %s", ErrInvalidCatalog, barber.ID)
	}

	s.store.UpdateBarber(barber)
	s.logger.Info().Str("barber_id", barber.ID).Str("admin_id", user.ID).Msg("barber updated")
	return nil
}

// AddAnnouncement assigns a fresh id and publishes the announcement at
// the top of the feed.
func (s *AdminService) AddAnnouncement(user models.User, ann models.Announcement) (models.Announcement, error) {
	if err := requireAdmin(user); err != nil {
		return models.Announcement{}, err
	}
	if ann.Title == "" {
		return models.Announcement{}, ErrEmptyAnnouncement
	}

	ann.ID = "a_" + uuid.NewString()
	s.store.AddAnnouncement(ann)
	s.logger.Info().Str("announcement_id", ann.ID).Str("admin_id", user.ID).Msg("announcement published")
	return ann, nil
}

func (s *AdminService) RemoveAnnouncement(user models.User, id string) error {
	if err := requireAdmin(user); err != nil {
		return err
	}
	s.store.RemoveAnnouncement(id)
	return nil
}

func (s *AdminService) SetAppointmentStatus(user models.User, id, status string) error {
	if err := requireAdmin(user); err != nil {
		return err
	}
	switch status {
	case models.StatusPending, models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	s.store.UpdateAppointmentStatus(id, status)
	s.logger.Info().Str("appointment_id", id).Str("status", status).Str("admin_id", user.ID).Msg("appointment status set")
	return nil
}

func (s *AdminService) SetAppointmentNotes(user models.User, id, notes string) error {
	if err := requireAdmin(user); err != nil {
		return err
	}
	s.store.UpdateAppointmentNotes(id, notes)
	return nil
}
