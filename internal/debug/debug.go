// Package debug traces the paint and glyph-set loading pipelines.
//
// Tracing is off unless switched on with SetEnabled or BLITSTR_DEBUG=1.
// A nil *Session is valid and drops every event, so call sites only pay
// for a nil check when tracing is disabled. Events are JSON Lines unless a
// PrettySink is used.
package debug

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

// SetEnabled switches tracing on or off for the whole process.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// Enabled reports whether tracing is on.
func Enabled() bool {
	return enabled.Load()
}

// Environment variables read by InitFromEnv.
const (
	EnvDebug  = "BLITSTR_DEBUG"
	EnvPretty = "BLITSTR_DEBUG_PRETTY"
)

// InitFromEnv enables tracing when BLITSTR_DEBUG=1 and reports whether
// BLITSTR_DEBUG_PRETTY=1 asks for the human-readable format.
func InitFromEnv() (pretty bool) {
	if os.Getenv(EnvDebug) == "1" {
		SetEnabled(true)
	}
	return os.Getenv(EnvPretty) == "1"
}

// Session groups the events of one paint or load operation under an id.
// It must not be shared between concurrent operations.
type Session struct {
	sessionID string
	sink      Sink
	startTime time.Time
}

// SessionStartData is the payload of the session/Start event.
type SessionStartData struct {
	Version string `json:"version"`
}

// SessionEndData is the payload of the session/End event.
type SessionEndData struct {
	ElapsedUs int64 `json:"elapsed_us"`
}

// NewSession returns a session writing to sink, or nil when tracing is
// disabled or sink is nil.
func NewSession(sink Sink) *Session {
	if !Enabled() || sink == nil {
		return nil
	}
	s := &Session{
		sessionID: generateSessionID(),
		sink:      sink,
		startTime: time.Now(),
	}
	s.Emit("session", "Start", SessionStartData{Version: "1"})
	return s
}

// SessionID returns the id shared by the session's events.
func (s *Session) SessionID() string {
	if s == nil {
		return ""
	}
	return s.sessionID
}

// Emit writes one event. Sink errors are dropped: tracing never fails the
// traced operation.
func (s *Session) Emit(phase, event string, data any) {
	if s == nil {
		return
	}
	_ = s.sink.Write(Event{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		SessionID: s.sessionID,
		Phase:     phase,
		Event:     event,
		Data:      data,
	})
}

// Close emits session/End and closes the sink.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.Emit("session", "End", SessionEndData{ElapsedUs: time.Since(s.startTime).Microseconds()})
	return s.sink.Close()
}

func generateSessionID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		binary.BigEndian.PutUint32(b, uint32(time.Now().UnixNano()))
	}
	return hex.EncodeToString(b)
}

// Event is the envelope every sink receives.
type Event struct {
	Timestamp string `json:"ts"`
	SessionID string `json:"session_id"`
	Phase     string `json:"phase"`
	Event     string `json:"event"`
	Data      any    `json:"data"`
}
