package domain

import (
	"strings"
	"time"
)

// Outcome values recorded in the audit log.
const (
	OutcomeSuccess = "Success"
	OutcomeError   = "Error"
)

// LogEntry is a single audit record of an assistant call.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Tool      string    `json:"tool"`
	Input     any       `json:"input"`
	Outcome   string    `json:"outcome"`
	UserID    string    `json:"user_id"`
}

// IsError reports whether the entry records a failed call.
func (e LogEntry) IsError() bool {
	return strings.HasPrefix(e.Outcome, OutcomeError)
}

// ErrorOutcome formats the outcome recorded for a failed call.
func ErrorOutcome(msg string) string {
	return OutcomeError + ": " + msg
}
