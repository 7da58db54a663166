package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/repository"
)

// Business rules for booking windows.
var (
	ErrSlotUnavailable   = errors.New("time slot is not available")
	ErrClosedDay         = errors.New("the center is closed on that day")
	ErrTooSoon           = errors.New("appointments must be booked at least 24 hours in advance")
	ErrTooFarAhead       = errors.New("appointments cannot be booked that far in advance")
	ErrInvalidStatus     = errors.New("invalid appointment status")
	ErrIllegalTransition = errors.New("status transition not allowed")
	ErrAccessDenied      = errors.New("access denied")
	ErrServiceInactive   = errors.New("service is not available for booking")
)

// BusinessHours describes when slots may be generated.
type BusinessHours struct {
	OpenHour     int
	CloseHour    int
	SlotInterval time.Duration
	MinLeadTime  time.Duration
	Horizon      time.Duration
}

func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		OpenHour:     9,
		CloseHour:    18,
		SlotInterval: time.Hour,
		MinLeadTime:  24 * time.Hour,
		Horizon:      90 * 24 * time.Hour,
	}
}

// legalTransitions is the allowed source -> destination map. Completed and
// canceled are terminal.
var legalTransitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending:   {model.AppointmentStatusConfirmed, model.AppointmentStatusCanceled},
	model.AppointmentStatusConfirmed: {model.AppointmentStatusCompleted, model.AppointmentStatusCanceled},
}

type Service struct {
	repo          repository.AppointmentRepository
	therapistRepo repository.TherapistRepository
	serviceRepo   repository.ServiceRepository
	notifRepo     repository.NotificationRepository
	userRepo      repository.UserRepository
	hours         BusinessHours
}

func NewService(
	repo repository.AppointmentRepository,
	therapistRepo repository.TherapistRepository,
	serviceRepo repository.ServiceRepository,
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	hours BusinessHours,
) *Service {
	return &Service{
		repo:          repo,
		therapistRepo: therapistRepo,
		serviceRepo:   serviceRepo,
		notifRepo:     notifRepo,
		userRepo:      userRepo,
		hours:         hours,
	}
}

// AvailableSlots returns the bookable start times for a therapist on the
// given calendar date, in chronological order.
func (s *Service) AvailableSlots(ctx context.Context, therapistID uuid.UUID, date time.Time) ([]model.TimeSlot, error) {
	if err := s.validateBookableDate(date); err != nil {
		return nil, err
	}

	if _, err := s.therapistRepo.Get(ctx, therapistID); err != nil {
		return nil, fmt.Errorf("failed to get therapist: %w", err)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	booked, err := s.repo.BookedStartTimes(ctx, therapistID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to get booked times: %w", err)
	}

	slots := s.generateSlots(dayStart)
	return filterAvailableSlots(slots, booked, time.Now().Add(s.hours.MinLeadTime)), nil
}

// Book creates a pending appointment for the requested slot. The slot is
// re-checked before insert; the database unique index backstops the race.
func (s *Service) Book(ctx context.Context, userID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	if userID == uuid.Nil || req.TherapistID == uuid.Nil || req.ServiceID == uuid.Nil {
		return nil, fmt.Errorf("user, therapist and service are required")
	}

	svc, err := s.serviceRepo.Get(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if svc.Status != model.ServiceStatusActive {
		return nil, ErrServiceInactive
	}

	if err := s.validateSlotStart(req.StartTime); err != nil {
		return nil, err
	}

	available, err := s.AvailableSlots(ctx, req.TherapistID, req.StartTime)
	if err != nil {
		return nil, err
	}
	if !containsStart(available, req.StartTime) {
		return nil, ErrSlotUnavailable
	}

	apt := &model.Appointment{
		Base:        model.Base{ID: uuid.New()},
		UserID:      userID,
		TherapistID: req.TherapistID,
		ServiceID:   req.ServiceID,
		StartTime:   req.StartTime,
		EndTime:     req.StartTime.Add(time.Duration(svc.DurationMinutes) * time.Minute),
		Status:      model.AppointmentStatusPending,
		Notes:       req.Notes,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	return apt, nil
}

// UpdateStatus transitions an appointment's status. Only an admin or the
// owning therapist may do this.
func (s *Service) UpdateStatus(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, req *model.UpdateAppointmentStatusRequest) (*model.Appointment, error) {
	if !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if err := s.authorizeStaff(ctx, actorID, actorRole, apt); err != nil {
		return nil, err
	}

	if !transitionAllowed(apt.Status, req.Status) {
		return nil, ErrIllegalTransition
	}

	apt.Status = req.Status
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.notifyStatusChange(ctx, apt)

	return apt, nil
}

// Cancel lets the booking client (or an admin) cancel a pending or
// confirmed appointment.
func (s *Service) Cancel(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, reason string) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if actorRole != model.RoleAdmin && apt.UserID != actorID {
		return nil, ErrAccessDenied
	}

	if !transitionAllowed(apt.Status, model.AppointmentStatusCanceled) {
		return nil, ErrIllegalTransition
	}

	apt.Status = model.AppointmentStatusCanceled
	apt.CancelReason = &reason

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.notifyStatusChange(ctx, apt)

	return apt, nil
}

func (s *Service) Get(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if actorRole == model.RoleAdmin || apt.UserID == actorID {
		return apt, nil
	}
	if actorRole == model.RoleTherapist {
		therapist, err := s.therapistRepo.GetByUserID(ctx, actorID)
		if err == nil && therapist.ID == apt.TherapistID {
			return apt, nil
		}
	}
	return nil, ErrAccessDenied
}

// List returns appointments scoped to the caller's role: clients see their
// own bookings, therapists their own schedule, admins everything.
func (s *Service) List(ctx context.Context, actorID uuid.UUID, actorRole string, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	switch actorRole {
	case model.RoleClient:
		filters.UserID = actorID
	case model.RoleTherapist:
		therapist, err := s.therapistRepo.GetByUserID(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("failed to get therapist: %w", err)
		}
		filters.TherapistID = therapist.ID
	}

	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) authorizeStaff(ctx context.Context, actorID uuid.UUID, actorRole string, apt *model.Appointment) error {
	if actorRole == model.RoleAdmin {
		return nil
	}
	if actorRole != model.RoleTherapist {
		return ErrAccessDenied
	}

	therapist, err := s.therapistRepo.GetByUserID(ctx, actorID)
	if err != nil {
		return ErrAccessDenied
	}
	if therapist.ID != apt.TherapistID {
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) validateBookableDate(date time.Time) error {
	if date.Weekday() == time.Sunday {
		return ErrClosedDay
	}

	now := time.Now()
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	// No slot on this day can satisfy the lead time.
	if dayEnd.Before(now.Add(s.hours.MinLeadTime)) {
		return ErrTooSoon
	}
	if dayStart.After(now.Add(s.hours.Horizon)) {
		return ErrTooFarAhead
	}
	return nil
}

func (s *Service) validateSlotStart(start time.Time) error {
	if err := s.validateBookableDate(start); err != nil {
		return err
	}
	if start.Before(time.Now().Add(s.hours.MinLeadTime)) {
		return ErrTooSoon
	}
	if start.Hour() < s.hours.OpenHour || start.Hour() >= s.hours.CloseHour {
		return ErrSlotUnavailable
	}
	if start.Minute() != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
		return ErrSlotUnavailable
	}
	return nil
}

func (s *Service) generateSlots(dayStart time.Time) []model.TimeSlot {
	open := dayStart.Add(time.Duration(s.hours.OpenHour) * time.Hour)
	closing := dayStart.Add(time.Duration(s.hours.CloseHour) * time.Hour)

	var slots []model.TimeSlot
	for t := open; t.Before(closing); t = t.Add(s.hours.SlotInterval) {
		slots = append(slots, model.TimeSlot{
			Start: t,
			End:   t.Add(s.hours.SlotInterval),
		})
	}
	return slots
}

func filterAvailableSlots(slots []model.TimeSlot, booked []time.Time, earliest time.Time) []model.TimeSlot {
	var available []model.TimeSlot
	for _, slot := range slots {
		if slot.Start.Before(earliest) {
			continue
		}
		taken := false
		for _, b := range booked {
			if slot.Start.Equal(b) {
				taken = true
				break
			}
		}
		if !taken {
			available = append(available, slot)
		}
	}
	return available
}

func containsStart(slots []model.TimeSlot, start time.Time) bool {
	for _, slot := range slots {
		if slot.Start.Equal(start) {
			return true
		}
	}
	return false
}

func transitionAllowed(from, to model.AppointmentStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// notifyStatusChange writes fire-and-forget notification rows for the
// booking client. Failures are logged, never surfaced to the caller.
func (s *Service) notifyStatusChange(ctx context.Context, apt *model.Appointment) {
	user, err := s.userRepo.Get(ctx, apt.UserID)
	if err != nil {
		log.Error().Err(err).Str("appointment_id", apt.ID.String()).Msg("failed to load client for notification")
		return
	}

	subject, content := statusMessage(apt)

	rows := []*model.Notification{
		{
			Base:      model.Base{ID: uuid.New()},
			UserID:    user.ID,
			Type:      "appointment_" + string(apt.Status),
			Channel:   model.ChannelInApp,
			Recipient: user.Email,
			Subject:   subject,
			Content:   content,
			Status:    model.NotificationStatusPending,
		},
		{
			Base:      model.Base{ID: uuid.New()},
			UserID:    user.ID,
			Type:      "appointment_" + string(apt.Status),
			Channel:   model.ChannelEmail,
			Recipient: user.Email,
			Subject:   subject,
			Content:   content,
			Status:    model.NotificationStatusPending,
		},
	}

	for _, n := range rows {
		if err := s.notifRepo.Create(ctx, n); err != nil {
			log.Error().Err(err).
				Str("appointment_id", apt.ID.String()).
				Str("channel", n.Channel).
				Msg("failed to create notification")
		}
	}
}

func statusMessage(apt *model.Appointment) (string, string) {
	when := apt.StartTime.Format("Mon, 02 Jan 2006 at 15:04")
	switch apt.Status {
	case model.AppointmentStatusConfirmed:
		return "Appointment confirmed", fmt.Sprintf("Your appointment on %s has been confirmed.", when)
	case model.AppointmentStatusCompleted:
		return "Appointment completed", fmt.Sprintf("Your appointment on %s has been marked completed. Thank you for visiting.", when)
	case model.AppointmentStatusCanceled:
		reason := ""
		if apt.CancelReason != nil && *apt.CancelReason != "" {
			reason = " Reason: " + *apt.CancelReason
		}
		return "Appointment canceled", fmt.Sprintf("Your appointment on %s has been canceled.%s", when, reason)
	default:
		return "Appointment update", fmt.Sprintf("Your appointment on %s is now %s.", when, apt.Status)
	}
}
