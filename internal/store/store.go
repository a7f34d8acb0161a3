package store

import (
	"sync"
	"time"

	"darkveil/internal/models"

	"github.com/rs/zerolog"
)

// Store is the session-wide holder of appointments, catalogs and
// announcements. It exclusively owns its collections; every mutation is
// synchronous and total, and the active/history views are recomputed on
// each read rather than cached.
type Store struct {
	mu            sync.RWMutex
	appointments  []models.Appointment
	services      []models.Service
	barbers       []models.Barber
	announcements []models.Announcement
	draft         *models.DraftBooking
	logger        zerolog.Logger
}

func New(services []models.Service, barbers []models.Barber, announcements []models.Announcement, logger *zerolog.Logger) *Store {
	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "store").Logger()
	}
	return &Store{
		services:      append([]models.Service(nil), services...),
		barbers:       append([]models.Barber(nil), barbers...),
		announcements: append([]models.Announcement(nil), announcements...),
		logger:        log,
	}
}

// SeedAppointments loads pre-existing appointments (fixtures).
func (s *Store) SeedAppointments(appointments []models.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append(s.appointments, appointments...)
}

// AddAppointment appends to the appointment collection. No dedupe; the
// caller guarantees the record is well formed.
func (s *Store) AddAppointment(apt models.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append(s.appointments, apt)
	s.logger.Debug().Str("appointment_id", apt.ID).Str("status", apt.Status).Msg("appointment added")
}

// UpdateAppointmentStatus replaces only the status of the matching
// appointment; no-op if the id is unknown.
func (s *Store) UpdateAppointmentStatus(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			s.appointments[i].Status = status
			return
		}
	}
}

// UpdateAppointmentNotes replaces only the notes of the matching
// appointment; no-op if the id is unknown.
func (s *Store) UpdateAppointmentNotes(id, notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			s.appointments[i].Notes = notes
			return
		}
	}
}

// SetDraftBooking overwrites the single draft slot; nil clears it.
func (s *Store) SetDraftBooking(draft *models.DraftBooking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if draft == nil {
		s.draft = nil
		return
	}
	copied := *draft
	s.draft = &copied
}

// TakeDraftBooking atomically reads and clears the draft slot, so a
// re-render can never reapply a stale draft.
func (s *Store) TakeDraftBooking() *models.DraftBooking {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.draft
	s.draft = nil
	return draft
}

// UpdateService replaces the catalog entry with the same id; no-op if
// the id is unknown.
func (s *Store) UpdateService(service models.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.services {
		if s.services[i].ID == service.ID {
			s.services[i] = service
			return
		}
	}
}

// UpdateBarber replaces the catalog entry with the same id; no-op if
// the id is unknown.
func (s *Store) UpdateBarber(barber models.Barber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.barbers {
		if s.barbers[i].ID == barber.ID {
			s.barbers[i] = barber
			return
		}
	}
}

// AddAnnouncement prepends, keeping newest-first insertion order.
func (s *Store) AddAnnouncement(ann models.Announcement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announcements = append([]models.Announcement{ann}, s.announcements...)
}

// RemoveAnnouncement filters out by id; removing an absent id is a no-op.
func (s *Store) RemoveAnnouncement(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := s.announcements[:0]
	for _, a := range s.announcements {
		if a.ID != id {
			filtered = append(filtered, a)
		}
	}
	s.announcements = filtered
}

func (s *Store) GetServiceByID(id string) (models.Service, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, svc := range s.services {
		if svc.ID == id {
			return svc, true
		}
	}
	return models.Service{}, false
}

func (s *Store) GetBarberByID(id string) (models.Barber, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.barbers {
		if b.ID == id {
			return b, true
		}
	}
	return models.Barber{}, false
}

// Appointments returns a snapshot of the appointment collection.
func (s *Store) Appointments() []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Appointment(nil), s.appointments...)
}

func (s *Store) Services() []models.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Service(nil), s.services...)
}

func (s *Store) Barbers() []models.Barber {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Barber(nil), s.barbers...)
}

func (s *Store) Announcements() []models.Announcement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Announcement(nil), s.announcements...)
}

// ActiveAppointment derives the current appointment at the given moment.
func (s *Store) ActiveAppointment(now time.Time) (models.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ActiveAppointment(s.appointments, now)
}

// History derives the past/inactive appointments at the given moment.
func (s *Store) History(now time.Time) []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return History(s.appointments, now)
}
