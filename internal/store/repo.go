package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	SessionID string    // exact match; ignored by tables without sessions
	Purpose   string    // exact match; LLM events only
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls for one purpose.
type LLMUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM calls for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// LookupEventData records a definition lookup.
type LookupEventData struct {
	SessionID    string
	Word         string
	Definition   string
	Success      bool
	ErrorMessage string
}

// AnswerEventData records one answered quiz question.
type AnswerEventData struct {
	SessionID     string
	Mode          string // "primary" or "review"
	Word          string
	CorrectAnswer string
	Selected      string
	Correct       bool
}

// AnswerRecord is a stored answer event.
type AnswerRecord struct {
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// Session event actions.
const (
	ActionStart    = "start"
	ActionComplete = "complete"
	ActionQuit     = "quit"
)

// SessionEventData records a quiz cycle starting or ending.
type SessionEventData struct {
	SessionID string
	Action    string
	Mode      string
	Questions int
	Correct   int
	Mistakes  int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendLookup records a word lookup.
	AppendLookup(ctx context.Context, data LookupEventData) error

	// AppendAnswer records an answered question.
	AppendAnswer(ctx context.Context, data AnswerEventData) error

	// AppendSessionEvent records a quiz cycle transition.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one LLM event by ID, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// QueryAnswers returns answer events, newest first.
	QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerRecord, error)

	// Purge deletes every event.
	Purge(ctx context.Context) error
}
