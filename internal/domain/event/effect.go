package event

// EffectKind names a post-commit side effect.
type EffectKind string

const (
	EffectPublished EffectKind = "published"
	EffectApproved  EffectKind = "approved"
	EffectCancelled EffectKind = "cancelled"
)

// Effect is a pending side effect returned by a transition. Effects are
// dispatched only after the transition has been committed.
type Effect struct {
	Kind  EffectKind
	Event Event
}
