package store

import (
	"testing"
	"time"

	"darkveil/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	logger := zerolog.Nop()
	return New(
		[]models.Service{
			{ID: "s1", Name: "Haircut", Price: 60, DurationMinutes: 45},
			{ID: "s2", Name: "Hair and beard", Price: 100, DurationMinutes: 75},
		},
		[]models.Barber{
			{ID: "b1", Name: "Marcus", Rating: 4.9},
			{ID: "b2", Name: "Silas", Rating: 4.8},
		},
		[]models.Announcement{
			{ID: "a1", Title: "Holiday Hours", Date: "2023-12-01"},
			{ID: "a2", Title: "New Product Line", Date: "2023-11-20"},
		},
		&logger,
	)
}

func TestStoreAppointments(t *testing.T) {
	s := newTestStore()

	t.Run("AddAndSnapshot", func(t *testing.T) {
		s.AddAppointment(models.Appointment{ID: "apt1", Status: models.StatusConfirmed, Date: "2099-01-01", Time: "10:00"})
		apts := s.Appointments()
		require.Len(t, apts, 1)
		assert.Equal(t, "apt1", apts[0].ID)
	})

	t.Run("UpdateStatusOnlyTouchesStatus", func(t *testing.T) {
		s.AddAppointment(models.Appointment{
			ID: "apt2", ServiceID: "s1", BarberID: "b1", UserID: "u1",
			Date: "2099-01-02", Time: "11:00", Status: models.StatusConfirmed, Notes: "keep it short",
		})
		before := s.Appointments()

		s.UpdateAppointmentStatus("apt2", models.StatusCancelled)

		after := s.Appointments()
		require.Equal(t, len(before), len(after))
		for i := range after {
			if after[i].ID != "apt2" {
				assert.Equal(t, before[i], after[i])
				continue
			}
			expected := before[i]
			expected.Status = models.StatusCancelled
			assert.Equal(t, expected, after[i])
		}
	})

	t.Run("UpdateStatusUnknownIDIsNoop", func(t *testing.T) {
		before := s.Appointments()
		s.UpdateAppointmentStatus("missing", models.StatusCompleted)
		assert.Equal(t, before, s.Appointments())
	})

	t.Run("UpdateNotesOnlyTouchesNotes", func(t *testing.T) {
		s.UpdateAppointmentNotes("apt2", "prefers scissors")
		var found models.Appointment
		for _, apt := range s.Appointments() {
			if apt.ID == "apt2" {
				found = apt
			}
		}
		assert.Equal(t, "prefers scissors", found.Notes)
		assert.Equal(t, models.StatusCancelled, found.Status)
	})

	t.Run("SeedAppointments", func(t *testing.T) {
		s := newTestStore()
		s.SeedAppointments([]models.Appointment{
			{ID: "apt_old_1", Status: models.StatusCompleted, Date: "2023-08-15", Time: "10:00"},
		})
		assert.Len(t, s.Appointments(), 1)
	})
}

func TestStoreDerivedViews(t *testing.T) {
	s := newTestStore()
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local)

	s.SeedAppointments([]models.Appointment{
		{ID: "done", Status: models.StatusCompleted, Date: "2023-08-15", Time: "10:00"},
		{ID: "next", Status: models.StatusConfirmed, Date: "2024-06-01", Time: "10:00"},
		{ID: "later", Status: models.StatusConfirmed, Date: "2024-06-03", Time: "10:00"},
	})

	active, ok := s.ActiveAppointment(now)
	require.True(t, ok)
	assert.Equal(t, "next", active.ID)

	history := s.History(now)
	require.Len(t, history, 1)
	assert.Equal(t, "done", history[0].ID)

	// Mutating status is reflected on the next read; nothing is cached.
	s.UpdateAppointmentStatus("next", models.StatusCancelled)

	active, ok = s.ActiveAppointment(now)
	require.True(t, ok)
	assert.Equal(t, "later", active.ID)
	assert.Len(t, s.History(now), 2)
}

func TestStoreDraftBooking(t *testing.T) {
	s := newTestStore()

	t.Run("TakeConsumesOnce", func(t *testing.T) {
		s.SetDraftBooking(&models.DraftBooking{ServiceID: "s1", BarberID: "b1"})

		draft := s.TakeDraftBooking()
		require.NotNil(t, draft)
		assert.Equal(t, "s1", draft.ServiceID)
		assert.Equal(t, "b1", draft.BarberID)

		assert.Nil(t, s.TakeDraftBooking())
	})

	t.Run("SetNilClears", func(t *testing.T) {
		s.SetDraftBooking(&models.DraftBooking{ServiceID: "s2", BarberID: "b2"})
		s.SetDraftBooking(nil)
		assert.Nil(t, s.TakeDraftBooking())
	})
}

func TestStoreCatalog(t *testing.T) {
	s := newTestStore()

	t.Run("GetServiceByID", func(t *testing.T) {
		svc, ok := s.GetServiceByID("s1")
		require.True(t, ok)
		assert.Equal(t, "Haircut", svc.Name)

		_, ok = s.GetServiceByID("missing")
		assert.False(t, ok)
	})

	t.Run("GetBarberByID", func(t *testing.T) {
		b, ok := s.GetBarberByID("b2")
		require.True(t, ok)
		assert.Equal(t, "Silas", b.Name)

		_, ok = s.GetBarberByID("missing")
		assert.False(t, ok)
	})

	t.Run("UpdateService", func(t *testing.T) {
		s.UpdateService(models.Service{ID: "s1", Name: "Signature cut", Price: 75, DurationMinutes: 45})
		svc, ok := s.GetServiceByID("s1")
		require.True(t, ok)
		assert.Equal(t, "Signature cut", svc.Name)
		assert.Equal(t, 75.0, svc.Price)
	})

	t.Run("UpdateServiceUnknownIDIsNoop", func(t *testing.T) {
		before := s.Services()
		s.UpdateService(models.Service{ID: "s99", Name: "Ghost"})
		assert.Equal(t, before, s.Services())
	})

	t.Run("UpdateBarber", func(t *testing.T) {
		s.UpdateBarber(models.Barber{ID: "b1", Name: "Marcus A.", Rating: 5.0})
		b, ok := s.GetBarberByID("b1")
		require.True(t, ok)
		assert.Equal(t, "Marcus A.", b.Name)
	})
}

func TestStoreAnnouncements(t *testing.T) {
	s := newTestStore()

	t.Run("AddPrepends", func(t *testing.T) {
		s.AddAnnouncement(models.Announcement{ID: "a3", Title: "Grand Reopening"})
		anns := s.Announcements()
		require.Len(t, anns, 3)
		assert.Equal(t, "a3", anns[0].ID)
	})

	t.Run("RemoveIsIdempotent", func(t *testing.T) {
		s.RemoveAnnouncement("a3")
		after := s.Announcements()
		assert.Len(t, after, 2)

		s.RemoveAnnouncement("a3")
		assert.Equal(t, after, s.Announcements())
	})
}
