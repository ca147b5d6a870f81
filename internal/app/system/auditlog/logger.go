// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/chosenvessel/vesselhub/internal/app/store/audit"
	"github.com/chosenvessel/vesselhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"
	ModeLog = "log"
	ModeOff = "off"
)

// Config selects where each category of events goes.
type Config struct {
	Auth   string
	Admin  string
	Giving string
}

// Sink persists events; *audit.Store satisfies it.
type Sink interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger records audit events to the store and to structured logs.
// A nil *Logger is a valid no-op.
type Logger struct {
	store  Sink
	zapLog *zap.Logger
	config Config
}

func New(store Sink, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) mode(category string) string {
	var m string
	switch category {
	case audit.CategoryAuth:
		m = l.config.Auth
	case audit.CategoryAdmin:
		m = l.config.Admin
	case audit.CategoryGiving:
		m = l.config.Giving
	}
	if m == "" {
		return ModeAll
	}
	return m
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to its category's mode.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	m := l.mode(event.Category)
	if m == ModeOff {
		return
	}
	if m == ModeAll || m == ModeLog {
		l.logToZap(event)
	}
	if (m == ModeAll || m == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func fromRequest(r *http.Request, e audit.Event) audit.Event {
	if r != nil {
		e.IP = ratelimit.ClientIP(r)
		e.UserAgent = r.UserAgent()
	}
	return e
}

// --- Authentication Events ---

func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, provider, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    userID,
		Success:   true,
		Details:   map[string]string{"provider": provider, "email": email},
	}))
}

// LoginFailed records a rejected sign-in; eventType is one of the
// audit.EventLoginFailed* constants.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType, email, reason string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"email": email},
	}))
}

func (l *Logger) SignUp(ctx context.Context, r *http.Request, userID, provider, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignUp,
		UserID:    userID,
		Success:   true,
		Details:   map[string]string{"provider": provider, "email": email},
	}))
}

func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    userID,
		Success:   true,
	}))
}

// ProfileRepaired notes that a signed-in identity had no profile and a
// default one was created.
func (l *Logger) ProfileRepaired(ctx context.Context, userID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventProfileRepaired,
		UserID:    userID,
		Success:   true,
	})
}

// --- Admin Events ---

func (l *Logger) adminEvent(ctx context.Context, r *http.Request, eventType, actorID, userID string, details map[string]string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   actorID,
		UserID:    userID,
		Success:   true,
		Details:   details,
	}))
}

func (l *Logger) RoleChanged(ctx context.Context, r *http.Request, actorID, targetID, from, to string) {
	l.adminEvent(ctx, r, audit.EventRoleChanged, actorID, targetID, map[string]string{"from": from, "to": to})
}

func (l *Logger) TierChanged(ctx context.Context, r *http.Request, actorID, targetID, from, to string) {
	l.adminEvent(ctx, r, audit.EventTierChanged, actorID, targetID, map[string]string{"from": from, "to": to})
}

func (l *Logger) ProfileDeleted(ctx context.Context, r *http.Request, actorID, targetID string) {
	l.adminEvent(ctx, r, audit.EventProfileDeleted, actorID, targetID, nil)
}

// ContentChanged records a create, update or delete of a content item;
// eventType is audit.EventContentCreated, Updated or Deleted.
func (l *Logger) ContentChanged(ctx context.Context, r *http.Request, eventType, actorID, kind, id, title string) {
	l.adminEvent(ctx, r, eventType, actorID, "", map[string]string{"kind": kind, "id": id, "title": title})
}

// Moderated records an admin removal or reply; eventType names what was touched.
func (l *Logger) Moderated(ctx context.Context, r *http.Request, eventType, actorID, ownerID, targetID string) {
	l.adminEvent(ctx, r, eventType, actorID, ownerID, map[string]string{"target_id": targetID})
}

func (l *Logger) StreamUpdated(ctx context.Context, r *http.Request, actorID, videoID string, live bool) {
	state := "offline"
	if live {
		state = "live"
	}
	l.adminEvent(ctx, r, audit.EventStreamUpdated, actorID, "", map[string]string{"video_id": videoID, "state": state})
}

// --- Giving Events ---

func (l *Logger) DonationRecorded(ctx context.Context, r *http.Request, userID, transactionID, amount, giftType string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryGiving,
		EventType: audit.EventDonationRecorded,
		UserID:    userID,
		Success:   true,
		Details:   map[string]string{"transaction_id": transactionID, "amount": amount, "type": giftType},
	}))
}

// DonationRecordFailed marks a charge that succeeded but could not be
// saved; support uses these to reconcile.
func (l *Logger) DonationRecordFailed(ctx context.Context, r *http.Request, userID, transactionID, amount, reason string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryGiving,
		EventType:     audit.EventDonationRecordFailed,
		UserID:        userID,
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"transaction_id": transactionID, "amount": amount},
	}))
}

func (l *Logger) SubscriptionUpgraded(ctx context.Context, r *http.Request, userID, subscriptionID string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryGiving,
		EventType: audit.EventSubscriptionUpgraded,
		UserID:    userID,
		Success:   true,
		Details:   map[string]string{"subscription_id": subscriptionID},
	}))
}

// SubscriptionRecordFailed marks a subscription payment that succeeded
// while the profile upgrade did not.
func (l *Logger) SubscriptionRecordFailed(ctx context.Context, r *http.Request, userID, transactionID, reason string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryGiving,
		EventType:     audit.EventSubscriptionRecordFailed,
		UserID:        userID,
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"transaction_id": transactionID},
	}))
}

func (l *Logger) CaptureRejected(ctx context.Context, r *http.Request, userID, orderID, reason string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryGiving,
		EventType:     audit.EventCaptureRejected,
		UserID:        userID,
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"order_id": orderID},
	}))
}
