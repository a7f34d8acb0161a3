package models

import "time"

type Appointment struct {
	ID        string `json:"id" yaml:"id"`
	ServiceID string `json:"service_id" yaml:"service_id"`
	BarberID  string `json:"barber_id" yaml:"barber_id"`
	UserID    string `json:"user_id" yaml:"user_id"`
	Date      string `json:"date" yaml:"date"` // YYYY-MM-DD
	Time      string `json:"time" yaml:"time"` // HH:MM slot label
	Status    string `json:"status" yaml:"status"`
	Notes     string `json:"notes,omitempty" yaml:"notes"`
}

// AppointmentDraft is the payload for appointment creation; the gateway
// assigns id and status.
type AppointmentDraft struct {
	ServiceID string `json:"service_id"`
	BarberID  string `json:"barber_id"`
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// StartTime combines the date and slot label into a moment in local time.
func (a Appointment) StartTime() (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, a.Date+" "+a.Time, time.Local)
}

// TimeSlot is a (slot label, availability) pair; recomputed per query,
// never persisted.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
