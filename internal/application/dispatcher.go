package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/notification"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/logger"
	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/metrics"
)

// DefaultPublishTimeout bounds a single notification publish.
const DefaultPublishTimeout = 5 * time.Second

var topics = map[event.EffectKind]notification.Topic{
	event.EffectPublished: notification.TopicPublished,
	event.EffectApproved:  notification.TopicApproved,
	event.EffectCancelled: notification.TopicCancelled,
}

// EffectDispatcher publishes the effects of committed transitions. Delivery
// is best effort: failures are logged and counted but never returned.
type EffectDispatcher struct {
	publisher notification.Publisher
	venues    venue.Repository
	metrics   *metrics.Metrics
	timeout   time.Duration
	now       func() time.Time
}

func NewEffectDispatcher(p notification.Publisher, venues venue.Repository, m *metrics.Metrics, timeout time.Duration) *EffectDispatcher {
	if p == nil {
		p = notification.Nop{}
	}
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &EffectDispatcher{publisher: p, venues: venues, metrics: m, timeout: timeout, now: time.Now}
}

// Dispatch publishes each effect. It runs on a context detached from the
// caller's cancellation, since the transition is already committed.
func (d *EffectDispatcher) Dispatch(ctx context.Context, effects []event.Effect) {
	if len(effects) == 0 {
		return
	}
	base := context.WithoutCancel(ctx)
	for _, eff := range effects {
		d.dispatchOne(base, eff)
	}
}

func (d *EffectDispatcher) dispatchOne(base context.Context, eff event.Effect) {
	topic, ok := topics[eff.Kind]
	if !ok {
		logger.Warn("unknown effect kind", zap.String("kind", string(eff.Kind)))
		return
	}

	ctx, cancel := context.WithTimeout(base, d.timeout)
	defer cancel()

	msg := d.message(ctx, topic, eff.Event)
	if err := d.publisher.Publish(ctx, msg); err != nil {
		d.metrics.RecordNotification(string(topic), "failed")
		logger.Warn("failed to publish notification",
			zap.String("topic", string(topic)),
			zap.String("event_id", eff.Event.ID),
			zap.Error(err),
		)
		return
	}
	d.metrics.RecordNotification(string(topic), "sent")
}

func (d *EffectDispatcher) message(ctx context.Context, topic notification.Topic, e event.Event) notification.Message {
	msg := notification.Message{
		Topic:            topic,
		EventID:          e.ID,
		EventName:        e.Name,
		Status:           string(e.Status),
		SpeakerID:        e.SpeakerID,
		SpeakerEmail:     e.SpeakerEmail,
		VenueID:          e.VenueID,
		BookingStartDate: e.BookingStartDate,
		BookingEndDate:   e.BookingEndDate,
		OccurredAt:       d.now().UTC(),
	}
	if d.venues == nil {
		return msg
	}
	if v, err := d.venues.GetByID(ctx, e.VenueID); err == nil {
		msg.VenueName = v.Name
		msg.VenueCapacity = v.Capacity
	} else {
		logger.Debug("venue lookup for notification failed", zap.String("venue_id", e.VenueID), zap.Error(err))
	}
	return msg
}
