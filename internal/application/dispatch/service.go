package dispatch

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/okurimukae/dispatch/internal/domain"
	"github.com/okurimukae/dispatch/internal/pkg/id"
	"github.com/okurimukae/dispatch/internal/pkg/metrics"
)

// Gateway delivers a rendered message to one device token.
// Implementations must never panic or return an error: delivery is
// fire-and-forget and a failed send only flips the success flag.
type Gateway interface {
	Deliver(ctx context.Context, token string, msg domain.RenderedMessage) bool
}

// DeliveryLog records dispatch attempts. Best-effort: a log failure never
// changes the dispatch outcome.
type DeliveryLog interface {
	Record(ctx context.Context, d *domain.Delivery) error
}

// Broadcaster mirrors dispatched messages to connected realtime clients.
type Broadcaster interface {
	Broadcast(userID string, msg domain.RenderedMessage)
}

// Terminal statuses of one dispatch invocation.
const (
	StatusNoOp      = "noop"
	StatusSkipped   = "skipped"
	StatusNoToken   = "no_token"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// Outcome is the terminal result of processing one change event. Every
// outcome maps to HTTP 200; Success=false marks recoverable delivery or
// lookup failures that the webhook layer must not retry.
type Outcome struct {
	Status  string
	Success bool
	Message string
	Error   string
}

// Deps groups the service's collaborators. DeliveryLog and Feed are
// optional; nil disables the corresponding side channel.
type Deps struct {
	Directory   Directory
	Gateway     Gateway
	DeliveryLog DeliveryLog
	Feed        Broadcaster
	Logger      *zap.Logger
}

// Service runs the linear dispatch pipeline:
// classify → resolve → guard → compose → deliver. Stateless across
// invocations; concurrent calls share nothing but the collaborators.
type Service struct {
	dir    Directory
	gw     Gateway
	log    DeliveryLog
	feed   Broadcaster
	logger *zap.Logger
}

func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		dir:    d.Directory,
		gw:     d.Gateway,
		log:    d.DeliveryLog,
		feed:   d.Feed,
		logger: logger,
	}
}

// Dispatch processes one change event to a terminal outcome. The returned
// error is non-nil only for malformed payloads on known tables; the caller
// surfaces those as HTTP 500. Everything else (misses, guards, delivery
// failures) lands in the Outcome.
func (s *Service) Dispatch(ctx context.Context, ev domain.ChangeEvent) (Outcome, error) {
	c, err := Classify(ev)
	if err != nil {
		return Outcome{}, err
	}
	if c == nil {
		metrics.DispatchTotal.WithLabelValues("none", StatusNoOp).Inc()
		return Outcome{Status: StatusNoOp, Success: true, Message: "No notification needed"}, nil
	}

	kind := string(c.Kind)

	intent, err := resolve(ctx, s.dir, c)
	if err != nil {
		s.logger.Error("recipient resolution failed", zap.String("kind", kind), zap.Error(err))
		metrics.DispatchTotal.WithLabelValues(kind, StatusFailed).Inc()
		return Outcome{Status: StatusFailed, Success: false, Error: "recipient resolution failed"}, nil
	}
	if intent == nil {
		metrics.DispatchTotal.WithLabelValues(kind, StatusSkipped).Inc()
		return Outcome{Status: StatusSkipped, Success: true, Message: "No recipient resolved"}, nil
	}
	if isSelfNotification(intent) {
		metrics.DispatchTotal.WithLabelValues(kind, StatusSkipped).Inc()
		return Outcome{Status: StatusSkipped, Success: true, Message: "Skipped self-notification"}, nil
	}

	target, err := s.dir.Profile(ctx, intent.TargetUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.DispatchTotal.WithLabelValues(kind, StatusSkipped).Inc()
			return Outcome{Status: StatusSkipped, Success: true, Message: "No recipient profile"}, nil
		}
		s.logger.Error("profile lookup failed", zap.String("user_id", intent.TargetUserID.String()), zap.Error(err))
		metrics.DispatchTotal.WithLabelValues(kind, StatusFailed).Inc()
		return Outcome{Status: StatusFailed, Success: false, Error: "profile lookup failed"}, nil
	}
	if target.FCMToken == nil || *target.FCMToken == "" {
		metrics.DispatchTotal.WithLabelValues(kind, StatusNoToken).Inc()
		return Outcome{Status: StatusNoToken, Success: true, Message: "No FCM token"}, nil
	}

	msg := Compose(c, s.senderName(ctx, intent))

	start := time.Now()
	delivered := s.gw.Deliver(ctx, *target.FCMToken, msg)
	metrics.DeliverySeconds.Observe(time.Since(start).Seconds())

	status := domain.DeliveryFailed
	if delivered {
		status = domain.DeliveryDelivered
	}
	s.record(ctx, intent, c, msg, status)

	if !delivered {
		metrics.DispatchTotal.WithLabelValues(kind, StatusFailed).Inc()
		return Outcome{Status: StatusFailed, Success: false, Error: "delivery failed"}, nil
	}

	if s.feed != nil {
		s.feed.Broadcast(intent.TargetUserID.String(), msg)
	}
	metrics.DispatchTotal.WithLabelValues(kind, StatusDelivered).Inc()
	return Outcome{Status: StatusDelivered, Success: true, Message: "Notification sent"}, nil
}

// senderName looks up the acting user's display name for templates that
// mention the sender. Misses fall back to a neutral label inside Compose.
func (s *Service) senderName(ctx context.Context, intent *domain.NotificationIntent) string {
	if intent.SenderUserID == nil {
		return ""
	}
	p, err := s.dir.Profile(ctx, *intent.SenderUserID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("sender profile lookup failed", zap.Error(err))
		}
		return ""
	}
	return p.DisplayName
}

func (s *Service) record(ctx context.Context, intent *domain.NotificationIntent, c *Classification, msg domain.RenderedMessage, status string) {
	if s.log == nil {
		return
	}
	d := &domain.Delivery{
		DeliveryID: id.New(),
		UserID:     intent.TargetUserID.String(),
		Kind:       string(c.Kind),
		RecordID:   c.RecordID(),
		Title:      msg.Title,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.log.Record(ctx, d); err != nil {
		s.logger.Warn("delivery log write failed", zap.String("delivery_id", d.DeliveryID), zap.Error(err))
	}
}
