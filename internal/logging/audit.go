package logging

import (
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// AuditEventType names a session-level event in the audit trail.
type AuditEventType string

const (
	AuditSessionStart     AuditEventType = "session_start"
	AuditSessionEnd       AuditEventType = "session_end"
	AuditDispatchAccept   AuditEventType = "dispatch_accept"
	AuditDispatchReject   AuditEventType = "dispatch_reject"
	AuditDispatchComplete AuditEventType = "dispatch_complete"
	AuditDispatchError    AuditEventType = "dispatch_error"
	AuditHealthProbe      AuditEventType = "health_probe"
)

// AuditEvent is one line of the audit trail.
type AuditEvent struct {
	EventType  AuditEventType
	SessionID  string
	DispatchID string // ID of the user message that opened the dispatch
	Success    bool
	DurationMs int64
	Count      int // Message count or input length, depending on the event
	Error      string
	Message    string
}

var (
	auditMu      sync.Mutex
	auditLogger  *zap.Logger
	auditRotator *lumberjack.Logger
)

// AuditLogger writes audit events scoped to a session.
type AuditLogger struct {
	sessionID string
}

// AuditWithSession creates an audit logger scoped to a session
func AuditWithSession(sessionID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID}
}

// openAudit lazily opens audit.log in the active log directory.
func openAudit() *zap.Logger {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditLogger != nil {
		return auditLogger
	}
	dir := Dir()
	if dir == "" {
		return nil
	}
	auditRotator = &lumberjack.Logger{
		Filename:   filepath.Join(dir, "audit.log"),
		MaxSize:    10,
		MaxBackups: 3,
	}
	auditLogger = newFileLogger(zapcore.AddSync(auditRotator))
	return auditLogger
}

// CloseAudit flushes and closes the audit log file
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditLogger != nil {
		_ = auditLogger.Sync()
		auditLogger = nil
	}
	if auditRotator != nil {
		_ = auditRotator.Close()
		auditRotator = nil
	}
}

// Log writes an audit event. It is a no-op outside debug mode.
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsDebugMode() {
		return
	}
	l := openAudit()
	if l == nil {
		return
	}
	if event.SessionID == "" {
		event.SessionID = a.sessionID
	}

	fields := []zap.Field{
		zap.String("event", string(event.EventType)),
		zap.String("session", event.SessionID),
		zap.Bool("success", event.Success),
	}
	if event.DispatchID != "" {
		fields = append(fields, zap.String("dispatch", event.DispatchID))
	}
	if event.DurationMs > 0 {
		fields = append(fields, zap.Int64("dur_ms", event.DurationMs))
	}
	if event.Count > 0 {
		fields = append(fields, zap.Int("count", event.Count))
	}
	if event.Error != "" {
		fields = append(fields, zap.String("error", event.Error))
	}
	l.Info(event.Message, fields...)
}

// SessionStart logs session start
func (a *AuditLogger) SessionStart(baseURL string) {
	a.Log(AuditEvent{
		EventType: AuditSessionStart,
		Success:   true,
		Message:   "session started against " + baseURL,
	})
}

// SessionEnd logs session end
func (a *AuditLogger) SessionEnd(messages int, elapsed time.Duration) {
	a.Log(AuditEvent{
		EventType:  AuditSessionEnd,
		Success:    true,
		DurationMs: elapsed.Milliseconds(),
		Count:      messages,
		Message:    "session ended",
	})
}

// DispatchAccepted logs an accepted user message
func (a *AuditLogger) DispatchAccepted(dispatchID string, inputLen int) {
	a.Log(AuditEvent{
		EventType:  AuditDispatchAccept,
		DispatchID: dispatchID,
		Success:    true,
		Count:      inputLen,
		Message:    "dispatch accepted",
	})
}

// DispatchRejected logs input that was ignored (empty, or a send already pending)
func (a *AuditLogger) DispatchRejected(reason string) {
	a.Log(AuditEvent{
		EventType: AuditDispatchReject,
		Success:   false,
		Message:   reason,
	})
}

// DispatchFinished logs the end of a dispatch; err is nil on success.
func (a *AuditLogger) DispatchFinished(dispatchID string, elapsed time.Duration, err error) {
	ev := AuditEvent{
		EventType:  AuditDispatchComplete,
		DispatchID: dispatchID,
		Success:    err == nil,
		DurationMs: elapsed.Milliseconds(),
		Message:    "dispatch complete",
	}
	if err != nil {
		ev.EventType = AuditDispatchError
		ev.Error = err.Error()
		ev.Message = "dispatch failed"
	}
	a.Log(ev)
}

// HealthProbe logs a liveness probe result
func (a *AuditLogger) HealthProbe(status string, healthy bool) {
	a.Log(AuditEvent{
		EventType: AuditHealthProbe,
		Success:   healthy,
		Message:   "health: " + status,
	})
}
