package store

import (
	"sort"
	"time"

	"darkveil/internal/models"
)

// ActiveAppointment picks the CONFIRMED appointment whose start is at or
// after now. With several candidates the earliest start wins, ties broken
// by id, so the result never depends on insertion order. Records with an
// unparseable date or time are skipped.
func ActiveAppointment(appointments []models.Appointment, now time.Time) (models.Appointment, bool) {
	var (
		best      models.Appointment
		bestStart time.Time
		found     bool
	)

	for _, apt := range appointments {
		if apt.Status != models.StatusConfirmed {
			continue
		}
		start, err := apt.StartTime()
		if err != nil || start.Before(now) {
			continue
		}
		if !found || start.Before(bestStart) || (start.Equal(bestStart) && apt.ID < best.ID) {
			best = apt
			bestStart = start
			found = true
		}
	}

	return best, found
}

// History returns appointments that are COMPLETED, or are neither
// CONFIRMED nor the active appointment, ordered by date descending.
//
// The second branch admits CANCELLED rows that were never active and
// never completed; whether those belong in history is an open product
// question, so they are kept in for now.
func History(appointments []models.Appointment, now time.Time) []models.Appointment {
	active, hasActive := ActiveAppointment(appointments, now)

	var history []models.Appointment
	for _, apt := range appointments {
		if apt.Status == models.StatusCompleted {
			history = append(history, apt)
			continue
		}
		if apt.Status != models.StatusConfirmed && (!hasActive || apt.ID != active.ID) {
			history = append(history, apt)
		}
	}

	sort.SliceStable(history, func(i, j int) bool {
		if history[i].Date != history[j].Date {
			return history[i].Date > history[j].Date
		}
		if history[i].Time != history[j].Time {
			return history[i].Time > history[j].Time
		}
		return history[i].ID < history[j].ID
	})

	return history
}
