package store

import (
	"testing"
	"time"

	"darkveil/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var deriveNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local)

func confirmed(id, date, slot string) models.Appointment {
	return models.Appointment{ID: id, Status: models.StatusConfirmed, Date: date, Time: slot}
}

func TestActiveAppointment(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, ok := ActiveAppointment(nil, deriveNow)
		assert.False(t, ok)
	})

	t.Run("EarliestUpcomingWins", func(t *testing.T) {
		apts := []models.Appointment{
			confirmed("late", "2024-06-03", "10:00"),
			confirmed("early", "2024-06-01", "10:00"),
			confirmed("mid", "2024-06-02", "09:00"),
		}
		active, ok := ActiveAppointment(apts, deriveNow)
		require.True(t, ok)
		assert.Equal(t, "early", active.ID)
	})

	t.Run("DeterministicRegardlessOfOrder", func(t *testing.T) {
		forward := []models.Appointment{
			confirmed("a", "2024-06-02", "10:00"),
			confirmed("b", "2024-06-01", "10:00"),
		}
		reversed := []models.Appointment{forward[1], forward[0]}

		activeF, _ := ActiveAppointment(forward, deriveNow)
		activeR, _ := ActiveAppointment(reversed, deriveNow)
		assert.Equal(t, activeF.ID, activeR.ID)
	})

	t.Run("TieBrokenByID", func(t *testing.T) {
		apts := []models.Appointment{
			confirmed("z", "2024-06-01", "10:00"),
			confirmed("a", "2024-06-01", "10:00"),
		}
		active, ok := ActiveAppointment(apts, deriveNow)
		require.True(t, ok)
		assert.Equal(t, "a", active.ID)
	})

	t.Run("PastConfirmedIgnored", func(t *testing.T) {
		apts := []models.Appointment{confirmed("past", "2024-05-01", "10:00")}
		_, ok := ActiveAppointment(apts, deriveNow)
		assert.False(t, ok)
	})

	t.Run("NonConfirmedIgnored", func(t *testing.T) {
		apts := []models.Appointment{
			{ID: "p", Status: models.StatusPending, Date: "2024-06-02", Time: "10:00"},
			{ID: "c", Status: models.StatusCancelled, Date: "2024-06-02", Time: "11:00"},
		}
		_, ok := ActiveAppointment(apts, deriveNow)
		assert.False(t, ok)
	})

	t.Run("UnparseableSkipped", func(t *testing.T) {
		apts := []models.Appointment{
			{ID: "bad", Status: models.StatusConfirmed, Date: "soon", Time: "10:00"},
			confirmed("good", "2024-06-02", "10:00"),
		}
		active, ok := ActiveAppointment(apts, deriveNow)
		require.True(t, ok)
		assert.Equal(t, "good", active.ID)
	})
}

func TestHistory(t *testing.T) {
	t.Run("NeverContainsActive", func(t *testing.T) {
		apts := []models.Appointment{
			confirmed("active", "2024-06-01", "10:00"),
			{ID: "done", Status: models.StatusCompleted, Date: "2024-05-01", Time: "10:00"},
			{ID: "dropped", Status: models.StatusCancelled, Date: "2024-05-02", Time: "10:00"},
		}
		active, ok := ActiveAppointment(apts, deriveNow)
		require.True(t, ok)

		for _, h := range History(apts, deriveNow) {
			assert.NotEqual(t, active.ID, h.ID)
		}
	})

	t.Run("DateDescending", func(t *testing.T) {
		apts := []models.Appointment{
			{ID: "old", Status: models.StatusCompleted, Date: "2023-08-15", Time: "10:00"},
			{ID: "new", Status: models.StatusCompleted, Date: "2024-05-20", Time: "10:00"},
			{ID: "mid", Status: models.StatusCompleted, Date: "2024-01-10", Time: "10:00"},
		}
		history := History(apts, deriveNow)
		require.Len(t, history, 3)
		assert.Equal(t, "new", history[0].ID)
		assert.Equal(t, "mid", history[1].ID)
		assert.Equal(t, "old", history[2].ID)
	})

	t.Run("CancelledIncluded", func(t *testing.T) {
		// Preserved behavior: CANCELLED rows that were never active and
		// never completed still land in history.
		apts := []models.Appointment{
			{ID: "cancelled", Status: models.StatusCancelled, Date: "2024-06-05", Time: "10:00"},
		}
		history := History(apts, deriveNow)
		require.Len(t, history, 1)
		assert.Equal(t, "cancelled", history[0].ID)
	})

	t.Run("FutureConfirmedNonActiveExcluded", func(t *testing.T) {
		apts := []models.Appointment{
			confirmed("active", "2024-06-01", "10:00"),
			confirmed("later", "2024-06-02", "10:00"),
		}
		history := History(apts, deriveNow)
		assert.Empty(t, history)
	})
}
