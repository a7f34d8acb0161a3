package flow

import (
	"context"
	"errors"
	"sync"
	"time"

	"darkveil/internal/domain"
	"darkveil/internal/metrics"
	"darkveil/internal/models"
	"darkveil/internal/store"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidStep     = errors.New("operation not allowed in current step")
	ErrUnknownService  = errors.New("unknown service id")
	ErrUnknownBarber   = errors.New("unknown barber id")
	ErrPastDate        = errors.New("date is in the past")
	ErrDateTooFar      = errors.New("date is beyond the booking horizon")
	ErrInvalidDate     = errors.New("invalid date format")
	ErrSlotUnavailable = errors.New("time slot is not available")
	ErrNoTimeSelected  = errors.New("no time slot selected")
	ErrSubmitInFlight  = errors.New("confirmation already in progress")
)

// Controller walks one user through the booking wizard:
// HOME -> BARBER -> TIME -> SUCCESS. It owns only its transient
// selections; appointments live in the store.
//
// Slot availability is re-fetched whenever the (date, barber) pair
// changes while in TIME. Fetches carry a generation number, and a
// resolved response is dropped unless it is still the newest request,
// so a slow fetch can never overwrite slots for a newer selection.
type Controller struct {
	mu      sync.Mutex
	store   *store.Store
	gateway domain.Gateway
	states  domain.FlowStateRepository
	logger  zerolog.Logger
	now     func() time.Time

	sessionID      string
	user           models.User
	maxBookingDays int

	step    string
	service *models.Service
	barber  *models.Barber
	date    string
	slot    string

	slots        []models.TimeSlot
	slotsLoading bool
	fetchSeq     uint64

	submitting bool
}

func NewController(
	st *store.Store,
	gateway domain.Gateway,
	states domain.FlowStateRepository,
	user models.User,
	maxBookingDays int,
	logger *zerolog.Logger,
) *Controller {
	if maxBookingDays <= 0 {
		maxBookingDays = models.DefaultMaxBookingDays
	}
	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "flow").Str("session_id", user.ID).Logger()
	}
	return &Controller{
		store:          st,
		gateway:        gateway,
		states:         states,
		logger:         log,
		now:            time.Now,
		sessionID:      user.ID,
		user:           user,
		maxBookingDays: maxBookingDays,
		step:           models.StepHome,
	}
}

// SetClock overrides the time source; tests pin "now".
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Controller) Step() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Selection returns the current wizard choices.
func (c *Controller) Selection() (service *models.Service, barber *models.Barber, date, slot string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.service, c.barber, c.date, c.slot
}

// Slots returns the last applied availability result and whether a
// fetch is still in flight.
func (c *Controller) Slots() ([]models.TimeSlot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.TimeSlot(nil), c.slots...), c.slotsLoading
}

// EnterHome places the wizard at its initial step. A pending draft
// booking is consumed exactly once: when both references resolve the
// wizard jumps straight to TIME with service and barber pre-filled.
func (c *Controller) EnterHome(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()

	draft := c.store.TakeDraftBooking()
	if draft == nil {
		c.persistLocked(ctx)
		return
	}

	service, okS := c.store.GetServiceByID(draft.ServiceID)
	barber, okB := c.store.GetBarberByID(draft.BarberID)
	if !okS || !okB {
		c.logger.Warn().
			Str("service_id", draft.ServiceID).
			Str("barber_id", draft.BarberID).
			Msg("draft booking references unknown catalog entries, ignored")
		c.persistLocked(ctx)
		return
	}

	c.service = &service
	c.barber = &barber
	c.date = c.today()
	c.step = models.StepTime
	c.refreshSlotsLocked(ctx)
	c.persistLocked(ctx)
}

// SelectService records the chosen service and advances HOME -> BARBER.
func (c *Controller) SelectService(ctx context.Context, serviceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != models.StepHome {
		return ErrInvalidStep
	}
	service, ok := c.store.GetServiceByID(serviceID)
	if !ok {
		return ErrUnknownService
	}

	c.service = &service
	c.step = models.StepBarber
	c.persistLocked(ctx)
	return nil
}

// SelectBarber records the chosen barber and advances BARBER -> TIME,
// kicking off the first slot fetch.
func (c *Controller) SelectBarber(ctx context.Context, barberID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != models.StepBarber {
		return ErrInvalidStep
	}
	barber, ok := c.store.GetBarberByID(barberID)
	if !ok {
		return ErrUnknownBarber
	}

	c.barber = &barber
	if c.date == "" {
		c.date = c.today()
	}
	c.step = models.StepTime
	c.refreshSlotsLocked(ctx)
	c.persistLocked(ctx)
	return nil
}

// SelectDate changes the day while in TIME, discards any chosen slot
// and re-queries availability.
func (c *Controller) SelectDate(ctx context.Context, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != models.StepTime {
		return ErrInvalidStep
	}
	if err := c.validateDate(date); err != nil {
		return err
	}

	c.date = date
	c.slot = ""
	c.refreshSlotsLocked(ctx)
	c.persistLocked(ctx)
	return nil
}

// SelectTime picks a slot from the currently applied availability.
func (c *Controller) SelectTime(ctx context.Context, slot string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != models.StepTime {
		return ErrInvalidStep
	}
	for _, s := range c.slots {
		if s.Time == slot {
			if !s.Available {
				return ErrSlotUnavailable
			}
			c.slot = slot
			c.persistLocked(ctx)
			return nil
		}
	}
	return ErrSlotUnavailable
}

// Back retreats one step: TIME -> BARBER, BARBER -> HOME (clearing the
// chosen service).
func (c *Controller) Back(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case models.StepTime:
		c.step = models.StepBarber
		c.slot = ""
		c.slots = nil
		c.slotsLoading = false
		c.fetchSeq++ // invalidate any in-flight fetch
	case models.StepBarber:
		c.step = models.StepHome
		c.service = nil
	default:
		return ErrInvalidStep
	}
	c.persistLocked(ctx)
	return nil
}

// Confirm submits the booking. The confirm action is disabled while a
// submission is in flight to prevent duplicates. On success the new
// appointment is written into the store and the wizard reaches SUCCESS;
// on failure the wizard stays in TIME and the error is returned for the
// caller to surface. No automatic retry.
func (c *Controller) Confirm(ctx context.Context) (models.Appointment, error) {
	c.mu.Lock()
	if c.step != models.StepTime {
		c.mu.Unlock()
		return models.Appointment{}, ErrInvalidStep
	}
	if c.submitting {
		c.mu.Unlock()
		return models.Appointment{}, ErrSubmitInFlight
	}
	if c.service == nil || c.barber == nil || c.date == "" {
		c.mu.Unlock()
		return models.Appointment{}, ErrInvalidStep
	}
	if c.slot == "" {
		c.mu.Unlock()
		return models.Appointment{}, ErrNoTimeSelected
	}

	draft := models.AppointmentDraft{
		ServiceID: c.service.ID,
		BarberID:  c.barber.ID,
		UserID:    c.user.ID,
		Date:      c.date,
		Time:      c.slot,
	}
	c.submitting = true
	c.mu.Unlock()

	apt, err := c.gateway.CreateAppointment(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil {
		c.logger.Error().Err(err).Msg("appointment creation failed")
		return models.Appointment{}, err
	}

	c.store.AddAppointment(apt)
	metrics.IncAppointmentCreated()
	c.step = models.StepSuccess
	c.persistLocked(ctx)
	return apt, nil
}

// Reset returns SUCCESS -> HOME, clearing all selections.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	if c.states != nil {
		if err := c.states.ClearState(ctx, c.sessionID); err != nil {
			c.logger.Error().Err(err).Msg("clear flow state")
		}
	}
}

// Restore rebuilds the wizard from a persisted snapshot, re-resolving
// catalog references. Unknown references drop the snapshot back to HOME.
func (c *Controller) Restore(ctx context.Context) error {
	if c.states == nil {
		return nil
	}

	state, err := c.states.GetState(ctx, c.sessionID)
	if err != nil {
		return err
	}
	if state == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()

	if state.ServiceID != "" {
		service, ok := c.store.GetServiceByID(state.ServiceID)
		if !ok {
			return nil
		}
		c.service = &service
	}
	if state.BarberID != "" {
		barber, ok := c.store.GetBarberByID(state.BarberID)
		if !ok {
			c.service = nil
			return nil
		}
		c.barber = &barber
	}

	switch state.Step {
	case models.StepBarber:
		if c.service == nil {
			return nil
		}
		c.step = models.StepBarber
	case models.StepTime:
		if c.service == nil || c.barber == nil {
			c.service = nil
			c.barber = nil
			return nil
		}
		c.date = state.Date
		if c.date == "" {
			c.date = c.today()
		}
		c.step = models.StepTime
		c.refreshSlotsLocked(ctx)
	default:
		// HOME and SUCCESS both restart from HOME.
	}
	return nil
}

func (c *Controller) resetLocked() {
	c.step = models.StepHome
	c.service = nil
	c.barber = nil
	c.date = ""
	c.slot = ""
	c.slots = nil
	c.slotsLoading = false
	c.submitting = false
	c.fetchSeq++
}

// refreshSlotsLocked starts an availability fetch for the current
// (date, barber) pair. Caller holds c.mu. The gateway call runs in its
// own goroutine; the response is applied only if no newer fetch has
// started since.
func (c *Controller) refreshSlotsLocked(ctx context.Context) {
	if c.barber == nil || c.date == "" {
		return
	}

	c.fetchSeq++
	seq := c.fetchSeq
	date := c.date
	barberID := c.barber.ID
	c.slotsLoading = true
	c.slots = nil

	go func() {
		slots, err := c.gateway.AvailableSlots(ctx, date, barberID)

		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.fetchSeq {
			// A newer selection superseded this fetch; drop the result.
			c.logger.Debug().Str("date", date).Str("barber_id", barberID).Msg("stale slot fetch discarded")
			return
		}
		c.slotsLoading = false
		if err != nil {
			c.logger.Error().Err(err).Str("date", date).Msg("slot fetch failed")
			c.slots = nil
			return
		}
		c.slots = slots
	}()
}

func (c *Controller) validateDate(date string) error {
	day, err := time.ParseInLocation(models.DateLayout, date, time.Local)
	if err != nil {
		return ErrInvalidDate
	}

	now := c.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if day.Before(today) {
		return ErrPastDate
	}
	if day.After(today.AddDate(0, 0, c.maxBookingDays)) {
		return ErrDateTooFar
	}
	return nil
}

func (c *Controller) today() string {
	return c.now().Format(models.DateLayout)
}

// persistLocked snapshots the wizard for resumption. Best effort; a
// failing state repository never blocks the flow.
func (c *Controller) persistLocked(ctx context.Context) {
	if c.states == nil {
		return
	}

	state := &models.FlowState{
		SessionID: c.sessionID,
		Step:      c.step,
		Date:      c.date,
		Time:      c.slot,
	}
	if c.service != nil {
		state.ServiceID = c.service.ID
	}
	if c.barber != nil {
		state.BarberID = c.barber.ID
	}

	if err := c.states.SetState(ctx, state); err != nil {
		c.logger.Error().Err(err).Msg("persist flow state")
	}
}
