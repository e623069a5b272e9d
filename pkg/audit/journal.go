// Package audit keeps the session-lifetime log of assistant calls.
package audit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/supportkit/pathfinder/internal/logging"
	"github.com/supportkit/pathfinder/pkg/domain"
)

// DefaultUserID is recorded when no operator identity is known.
const DefaultUserID = "operator"

// Journal is an append-only, most-recent-first list of LogEntry values.
// It implements ports.LogSink and is safe for concurrent use.
type Journal struct {
	mu       sync.RWMutex
	entries  []domain.LogEntry // oldest first; reversed on read
	capacity int

	userID string
	clock  func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option configures a Journal.
type Option func(*Journal)

// WithCapacity bounds the number of retained entries; the oldest are dropped first.
// Zero or negative means unbounded.
func WithCapacity(n int) Option {
	return func(j *Journal) {
		j.capacity = n
	}
}

// WithUserID sets the identity recorded by Record.
func WithUserID(id string) Option {
	return func(j *Journal) {
		j.userID = id
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(j *Journal) {
		j.clock = clock
	}
}

// WithLogger mirrors every recorded entry to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(j *Journal) {
		j.logger = logger
	}
}

// NewJournal creates an empty journal.
func NewJournal(opts ...Option) *Journal {
	j := &Journal{
		userID: DefaultUserID,
		clock:  time.Now,
		newID:  uuid.NewString,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Record appends an entry for the default operator.
func (j *Journal) Record(tool string, input any, outcome string) {
	j.RecordAs(j.userID, tool, input, outcome)
}

// RecordAs appends an entry attributed to userID.
func (j *Journal) RecordAs(userID, tool string, input any, outcome string) {
	entry := domain.LogEntry{
		ID:        j.newID(),
		Timestamp: j.clock(),
		Tool:      tool,
		Input:     input,
		Outcome:   outcome,
		UserID:    userID,
	}

	j.mu.Lock()
	j.entries = append(j.entries, entry)
	if j.capacity > 0 && len(j.entries) > j.capacity {
		drop := len(j.entries) - j.capacity
		j.entries = append(j.entries[:0:0], j.entries[drop:]...)
	}
	j.mu.Unlock()

	j.logger.Debug("Audit entry recorded", "tool", tool, "user_id", userID, "failed", entry.IsError())
}

// For returns a sink that records entries attributed to userID.
func (j *Journal) For(userID string) *UserSink {
	if userID == "" {
		userID = j.userID
	}
	return &UserSink{journal: j, userID: userID}
}

// Entries returns a copy of the log, most recent first.
func (j *Journal) Entries() []domain.LogEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]domain.LogEntry, len(j.entries))
	for i, e := range j.entries {
		out[len(j.entries)-1-i] = e
	}
	return out
}

// Len returns the number of retained entries.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

// HourlyUsage counts retained entries per hour of day, in the timestamps' location.
func (j *Journal) HourlyUsage() [24]int {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var hours [24]int
	for _, e := range j.entries {
		hours[e.Timestamp.Hour()]++
	}
	return hours
}

// Summary aggregates the journal for dashboards.
type Summary struct {
	Total  int            `json:"total"`
	Errors int            `json:"errors"`
	ByTool map[string]int `json:"by_tool"`
	Hourly [24]int        `json:"hourly"`
}

// Summarize computes totals, error counts and per-tool counts.
func (j *Journal) Summarize() Summary {
	s := Summary{ByTool: make(map[string]int), Hourly: j.HourlyUsage()}

	j.mu.RLock()
	defer j.mu.RUnlock()
	for _, e := range j.entries {
		s.Total++
		if e.IsError() {
			s.Errors++
		}
		s.ByTool[e.Tool]++
	}
	return s
}

// UserSink is a ports.LogSink bound to one operator identity.
type UserSink struct {
	journal *Journal
	userID  string
}

// Record appends an entry to the parent journal.
func (s *UserSink) Record(tool string, input any, outcome string) {
	s.journal.RecordAs(s.userID, tool, input, outcome)
}
