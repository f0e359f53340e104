// Package audit provides security audit logging for SIEM consumption.
// Security-relevant events are logged as structured JSON under a dedicated
// logger namespace so they can be filtered and alerted on independently of
// application logs.
package audit

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SecurityEventType categorizes security-relevant events.
type SecurityEventType string

const (
	// EventAuthFailure is logged when a request presents a missing or
	// invalid bearer token.
	EventAuthFailure SecurityEventType = "auth_failure"

	// EventWebhookRejected is logged when an identity-provider webhook
	// fails the shared-secret check.
	EventWebhookRejected SecurityEventType = "webhook_rejected"

	// EventUserErased is logged when a user and all their data are erased.
	EventUserErased SecurityEventType = "user_erased"
)

// SecurityEvent is one auditable event with context for SIEM analysis.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	Subject   string            `json:"subject,omitempty"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Path      string            `json:"path,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// SecurityAuditor logs security events under the "security_audit" namespace.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a security auditor.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// LogAuthFailure records a rejected authentication attempt.
func (a *SecurityAuditor) LogAuthFailure(clientIP, path, reason string) {
	a.log(zap.WarnLevel, "Authentication failed", SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventAuthFailure,
		ClientIP:  clientIP,
		Path:      path,
		Reason:    reason,
		Severity:  "warning",
	})
}

// LogWebhookRejected records a webhook call that failed the secret check.
// Repeated rejections suggest a probing caller.
func (a *SecurityAuditor) LogWebhookRejected(clientIP string) {
	a.log(zap.ErrorLevel, "Webhook rejected", SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventWebhookRejected,
		ClientIP:  clientIP,
		Severity:  "critical",
	})
}

// LogUserErased records a completed user erasure.
func (a *SecurityAuditor) LogUserErased(subject string) {
	a.log(zap.InfoLevel, "User erased", SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventUserErased,
		Subject:   subject,
		Severity:  "info",
	})
}

func (a *SecurityAuditor) log(level zapcore.Level, msg string, event SecurityEvent) {
	eventJSON, _ := json.Marshal(event)

	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.String("event_json", string(eventJSON)),
		zap.String("severity", event.Severity),
	}

	switch level {
	case zap.ErrorLevel:
		a.logger.Error(msg, fields...)
	case zap.WarnLevel:
		a.logger.Warn(msg, fields...)
	default:
		a.logger.Info(msg, fields...)
	}
}
