package models

const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

const (
	RoleClient = "CLIENT"
	RoleBarber = "BARBER"
	RoleAdmin  = "ADMIN"
)

const (
	StepHome    = "home"
	StepBarber  = "barber"
	StepTime    = "time"
	StepSuccess = "success"
)

const (
	// DateLayout is the calendar-day format carried on appointments.
	DateLayout = "2006-01-02"

	// TimeLayout is the slot label format.
	TimeLayout = "15:04"

	// DefaultFlowStateTTL lifetime of a persisted wizard state, in seconds.
	DefaultFlowStateTTL = 24 * 60 * 60

	// DefaultAvailabilityRate share of slots the mock gateway reports free.
	DefaultAvailabilityRate = 0.7

	// DefaultMaxBookingDays booking horizon for date selection.
	DefaultMaxBookingDays = 365
)
