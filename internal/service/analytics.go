package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/couchcryptid/cropwise-guidance-service/internal/auth"
	"github.com/couchcryptid/cropwise-guidance-service/internal/observability"
	"github.com/couchcryptid/cropwise-guidance-service/internal/store"
)

// EventMirror publishes recorded events to an external sink.
type EventMirror interface {
	PublishEvent(ctx context.Context, event store.AnalyticsEvent) error
}

// Analytics records usage events with best-effort attribution.
type Analytics struct {
	store   *store.Store
	tokens  *auth.TokenIssuer
	mirror  EventMirror // nil disables mirroring
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewAnalytics(st *store.Store, tokens *auth.TokenIssuer, mirror EventMirror, metrics *observability.Metrics, logger *slog.Logger) *Analytics {
	return &Analytics{store: st, tokens: tokens, mirror: mirror, metrics: metrics, logger: logger}
}

// ResolveActor maps a bearer token to a user id. Resolution is explicit
// two-step: verify the token, then look the subject up. Any failure at
// either step produces an anonymous (nil) attribution rather than an
// error — events are never rejected over identity.
func (a *Analytics) ResolveActor(ctx context.Context, token string) *uint {
	if token == "" {
		return nil
	}
	username, err := a.tokens.Verify(token)
	if err != nil {
		a.logger.Debug("analytics attribution failed, recording as anonymous", "error", err)
		return nil
	}
	user, err := a.store.UserByUsername(ctx, username)
	if err != nil || user == nil {
		a.logger.Debug("analytics attribution failed, recording as anonymous", "user", username)
		return nil
	}
	return &user.ID
}

// LogEvent appends one event, optionally attributed to userID, and
// mirrors it to the external sink when one is configured. Mirror
// failures are logged and swallowed.
func (a *Analytics) LogEvent(ctx context.Context, userID *uint, name string, meta map[string]any) (uint, error) {
	event := store.AnalyticsEvent{UserID: userID, EventName: name}
	if meta != nil {
		raw, err := json.Marshal(meta)
		if err == nil {
			event.MetaJSON = string(raw)
		}
	}

	if err := a.store.InsertEvent(ctx, &event); err != nil {
		return 0, err
	}
	a.metrics.AnalyticsEvents.Inc()

	if a.mirror != nil {
		if err := a.mirror.PublishEvent(ctx, event); err != nil {
			a.logger.Warn("analytics mirror publish failed", "event", name, "error", err)
		}
	}
	return event.ID, nil
}
