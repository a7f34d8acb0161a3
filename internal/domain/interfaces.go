package domain

import (
	"context"

	"darkveil/internal/models"
)

// Gateway is the simulated backend the booking flow talks to.
type Gateway interface {
	Login(ctx context.Context, email, password string) (models.User, error)
	CompleteOnboarding(ctx context.Context, userID string) error
	AvailableSlots(ctx context.Context, date, barberID string) ([]models.TimeSlot, error)
	CreateAppointment(ctx context.Context, draft models.AppointmentDraft) (models.Appointment, error)
	Appointments(ctx context.Context, userID string) ([]models.Appointment, error)
}

// FlowStateRepository persists resumable booking wizard snapshots.
type FlowStateRepository interface {
	GetState(ctx context.Context, sessionID string) (*models.FlowState, error)
	SetState(ctx context.Context, state *models.FlowState) error
	ClearState(ctx context.Context, sessionID string) error
}

// Catalog resolves service and barber references.
type Catalog interface {
	GetServiceByID(id string) (models.Service, bool)
	GetBarberByID(id string) (models.Barber, bool)
}
