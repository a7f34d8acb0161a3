package models

// DraftBooking pre-seeds the booking wizard when a user repeats a past
// booking. Write-once, consumed-once: the store hands it out through an
// atomic take.
type DraftBooking struct {
	ServiceID string `json:"service_id"`
	BarberID  string `json:"barber_id"`
}

// FlowState is the resumable snapshot of one booking wizard instance.
type FlowState struct {
	SessionID string `json:"session_id"`
	Step      string `json:"step"`
	ServiceID string `json:"service_id,omitempty"`
	BarberID  string `json:"barber_id,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
}
