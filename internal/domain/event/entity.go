package event

import (
	"strings"
	"time"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/actor"
)

// MinRejectionReasonLength is the minimum length of a trimmed rejection reason.
const MinRejectionReasonLength = 10

// Event is a booking of a venue for a time window, carrying an approval status.
type Event struct {
	ID               string
	SpeakerID        string
	SpeakerEmail     string
	Name             string
	Description      string
	Category         string
	BannerURL        string
	VenueID          string
	BookingStartDate time.Time
	BookingEndDate   time.Time
	Status           Status
	RejectionReason  *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int // optimistic locking
}

// Draft holds the fields supplied when creating an event.
type Draft struct {
	Name             string
	Description      string
	Category         string
	BannerURL        string
	VenueID          string
	BookingStartDate time.Time
	BookingEndDate   time.Time
}

// NewEvent creates an event owned by the creator. Admin creators skip the
// approval flow and land directly in PUBLISHED.
func NewEvent(creator actor.Actor, d Draft, now time.Time) *Event {
	return &Event{
		SpeakerID:        creator.ID,
		SpeakerEmail:     creator.Email,
		Name:             strings.TrimSpace(d.Name),
		Description:      strings.TrimSpace(d.Description),
		Category:         strings.TrimSpace(d.Category),
		BannerURL:        strings.TrimSpace(d.BannerURL),
		VenueID:          d.VenueID,
		BookingStartDate: d.BookingStartDate,
		BookingEndDate:   d.BookingEndDate,
		Status:           InitialStatus(creator),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Validate checks the descriptive fields and the booking window of a new event.
func (e *Event) Validate(now time.Time) error {
	if e.Name == "" {
		return ErrNameRequired
	}
	if e.Description == "" {
		return ErrDescriptionRequired
	}
	if e.Category == "" {
		return ErrCategoryRequired
	}
	if e.VenueID == "" {
		return ErrVenueRequired
	}
	return validateWindow(e.BookingStartDate, e.BookingEndDate, true, now)
}

func validateWindow(start, end time.Time, checkStart bool, now time.Time) error {
	if !start.Before(end) {
		return ErrInvalidBookingTime
	}
	if checkStart && start.Before(now) {
		return ErrBookingStartInPast
	}
	return nil
}

// Overlaps reports whether the event's window overlaps [start, end).
func (e *Event) Overlaps(start, end time.Time) bool {
	return e.BookingStartDate.Before(end) && e.BookingEndDate.After(start)
}

// Clone returns a deep copy.
func (e *Event) Clone() *Event {
	c := *e
	if e.RejectionReason != nil {
		r := *e.RejectionReason
		c.RejectionReason = &r
	}
	return &c
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Name             *string
	Description      *string
	Category         *string
	BannerURL        *string
	VenueID          *string
	BookingStartDate *time.Time
	BookingEndDate   *time.Time
}

// ScheduleChange describes which reservation-relevant fields a patch moved.
type ScheduleChange struct {
	VenueChanged bool
	StartChanged bool
	EndChanged   bool
}

// Changed reports whether arbitration must run again.
func (c ScheduleChange) Changed() bool {
	return c.VenueChanged || c.StartChanged || c.EndChanged
}

func nonEmpty(p *string, err error) (string, error) {
	v := strings.TrimSpace(*p)
	if v == "" {
		return "", err
	}
	return v, nil
}

// ApplyPatch validates the patch against the actor and current status and
// applies it. On error the event is left unmodified.
func (e *Event) ApplyPatch(a actor.Actor, p Patch, now time.Time) (ScheduleChange, error) {
	var change ScheduleChange
	if err := CanTransition(e.Status, OpUpdate, a, e.SpeakerID); err != nil {
		return change, err
	}

	next := e.Clone()
	var err error
	if p.Name != nil {
		if next.Name, err = nonEmpty(p.Name, ErrNameRequired); err != nil {
			return change, err
		}
	}
	if p.Description != nil {
		if next.Description, err = nonEmpty(p.Description, ErrDescriptionRequired); err != nil {
			return change, err
		}
	}
	if p.Category != nil {
		if next.Category, err = nonEmpty(p.Category, ErrCategoryRequired); err != nil {
			return change, err
		}
	}
	if p.BannerURL != nil {
		next.BannerURL = strings.TrimSpace(*p.BannerURL)
	}
	if p.VenueID != nil {
		if *p.VenueID == "" {
			return change, ErrVenueRequired
		}
		change.VenueChanged = *p.VenueID != e.VenueID
		next.VenueID = *p.VenueID
	}
	if p.BookingStartDate != nil {
		change.StartChanged = !p.BookingStartDate.Equal(e.BookingStartDate)
		next.BookingStartDate = *p.BookingStartDate
	}
	if p.BookingEndDate != nil {
		change.EndChanged = !p.BookingEndDate.Equal(e.BookingEndDate)
		next.BookingEndDate = *p.BookingEndDate
	}
	if change.StartChanged || change.EndChanged {
		if err := validateWindow(next.BookingStartDate, next.BookingEndDate, change.StartChanged, now); err != nil {
			return change, err
		}
	}

	next.UpdatedAt = now
	*e = *next
	return change, nil
}

func (e *Event) transition(op Operation, a actor.Actor, now time.Time) error {
	if err := CanTransition(e.Status, op, a, e.SpeakerID); err != nil {
		return err
	}
	to, _ := Target(op)
	e.Status = to
	e.UpdatedAt = now
	return nil
}

// Submit sends the event for approval and clears any previous rejection reason.
func (e *Event) Submit(a actor.Actor, now time.Time) error {
	if err := e.transition(OpSubmit, a, now); err != nil {
		return err
	}
	e.RejectionReason = nil
	return nil
}

// Approve publishes the event. The caller must have arbitrated the window.
func (e *Event) Approve(a actor.Actor, now time.Time) ([]Effect, error) {
	if err := e.transition(OpApprove, a, now); err != nil {
		return nil, err
	}
	e.RejectionReason = nil
	return []Effect{e.effect(EffectPublished), e.effect(EffectApproved)}, nil
}

// Reject moves a pending event to REJECTED with a mandatory reason.
func (e *Event) Reject(a actor.Actor, reason string, now time.Time) error {
	if err := CanTransition(e.Status, OpReject, a, e.SpeakerID); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) < MinRejectionReasonLength {
		return ErrRejectionReason
	}
	if err := e.transition(OpReject, a, now); err != nil {
		return err
	}
	e.RejectionReason = &reason
	return nil
}

// Cancel withdraws a published event.
func (e *Event) Cancel(a actor.Actor, now time.Time) ([]Effect, error) {
	if err := e.transition(OpCancel, a, now); err != nil {
		return nil, err
	}
	return []Effect{e.effect(EffectCancelled)}, nil
}

// Complete marks a published event as finished.
func (e *Event) Complete(a actor.Actor, now time.Time) error {
	return e.transition(OpComplete, a, now)
}

// CheckDelete reports whether the actor may hard-delete the event.
func (e *Event) CheckDelete(a actor.Actor) error {
	return CanTransition(e.Status, OpDelete, a, e.SpeakerID)
}

// CreationEffects returns the effects of creating the event.
func (e *Event) CreationEffects() []Effect {
	if e.Status == StatusPublished {
		return []Effect{e.effect(EffectPublished)}
	}
	return nil
}

func (e *Event) effect(kind EffectKind) Effect {
	return Effect{Kind: kind, Event: *e.Clone()}
}
