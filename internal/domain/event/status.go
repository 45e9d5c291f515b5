package event

import (
	"strings"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/actor"
)

// Status is the approval-lifecycle state of an event.
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusPublished       Status = "PUBLISHED"
	StatusRejected        Status = "REJECTED"
	StatusCancelled       Status = "CANCELLED"
	StatusCompleted       Status = "COMPLETED"
)

// ActiveStatuses hold a venue reservation and take part in arbitration.
var ActiveStatuses = []Status{StatusPublished, StatusPendingApproval}

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusDraft, StatusPendingApproval, StatusPublished,
	StatusRejected, StatusCancelled, StatusCompleted,
}

// IsActive reports whether the status reserves the venue.
func (s Status) IsActive() bool {
	return s == StatusPublished || s == StatusPendingApproval
}

// IsTerminal reports whether no operation may leave the status.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllStatuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// Operation names a lifecycle operation.
type Operation string

const (
	OpCreate   Operation = "create"
	OpUpdate   Operation = "update"
	OpSubmit   Operation = "submit"
	OpApprove  Operation = "approve"
	OpReject   Operation = "reject"
	OpCancel   Operation = "cancel"
	OpDelete   Operation = "delete"
	OpComplete Operation = "complete"
)

// Operations lists every operation applied to an existing event.
var Operations = []Operation{OpUpdate, OpSubmit, OpApprove, OpReject, OpCancel, OpDelete, OpComplete}

// sources lists the statuses each operation may start from. OpUpdate is
// resolved per actor in allowedFrom.
var sources = map[Operation][]Status{
	OpSubmit:   {StatusDraft, StatusRejected},
	OpApprove:  {StatusPendingApproval, StatusDraft},
	OpReject:   {StatusPendingApproval},
	OpCancel:   {StatusPublished},
	OpDelete:   {StatusDraft},
	OpComplete: {StatusPublished},
}

var targets = map[Operation]Status{
	OpSubmit:   StatusPendingApproval,
	OpApprove:  StatusPublished,
	OpReject:   StatusRejected,
	OpCancel:   StatusCancelled,
	OpComplete: StatusCompleted,
}

// Target returns the status an operation moves an event into. Update and
// delete keep (or remove) the current status and report false.
func Target(op Operation) (Status, bool) {
	st, ok := targets[op]
	return st, ok
}

// Authorize checks the actor against the operation, independent of status.
func Authorize(op Operation, a actor.Actor, ownerID string) error {
	switch op {
	case OpCreate:
		if a.ID == "" {
			return ErrUnauthorized
		}
		return nil
	case OpUpdate, OpSubmit, OpDelete:
		if a.IsAdmin() || a.Owns(ownerID) {
			return nil
		}
		return ErrNotOwner
	case OpApprove, OpReject, OpCancel, OpComplete:
		if a.IsAdmin() {
			return nil
		}
		return ErrAdminOnly
	default:
		return ErrUnauthorized
	}
}

// allowedFrom reports whether op is legal from status for the actor.
func allowedFrom(op Operation, from Status, a actor.Actor) bool {
	if op == OpUpdate {
		if a.IsAdmin() {
			return !from.IsTerminal()
		}
		return from == StatusDraft || from == StatusRejected
	}
	for _, s := range sources[op] {
		if s == from {
			return true
		}
	}
	return false
}

// CanTransition is the single authorization and state predicate for
// operations on an existing event. Authorization is checked first, so an
// unauthorized actor never learns anything about the state.
func CanTransition(from Status, op Operation, a actor.Actor, ownerID string) error {
	if err := Authorize(op, a, ownerID); err != nil {
		return err
	}
	if !allowedFrom(op, from, a) {
		return &TransitionError{Op: op, From: from}
	}
	return nil
}

// InitialStatus is the status a newly created event lands in.
func InitialStatus(a actor.Actor) Status {
	if a.IsAdmin() {
		return StatusPublished
	}
	return StatusDraft
}
