// Package llm provides the completion-API layer for the assistant.
//
// The model is treated as an opaque oracle with two jobs: pull a city and a
// date out of an utterance the local resolvers could not handle, and narrate a
// normalized weather record into fashion and travel advice. It never decides
// whether a date is in range — the date resolver re-validates everything the
// model returns.
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/harshitmangtani02/aitf/internal/weather"
)

// ErrMalformedOutput is returned when the model's response cannot be
// interpreted as the documented JSON schema. Callers degrade to a canned
// clarifying question instead of surfacing the raw error.
var ErrMalformedOutput = errors.New("llm: malformed response from model")

// Analysis is the structured output of the analyze call.
type Analysis struct {
	NeedsWeatherData bool   `json:"needsWeatherData"`
	City             string `json:"city,omitempty"`
	TargetDate       string `json:"targetDate,omitempty"` // YYYY-MM-DD
	DateType         string `json:"dateType,omitempty"`   // current|historical|forecast
	ChatResponse     string `json:"chatResponse,omitempty"`
}

// AnalyzeRequest carries the utterance plus the session snapshot injected
// into the system prompt so follow-ups resolve against prior context.
type AnalyzeRequest struct {
	Query    string
	Language string // "en" or "ja"
	LastCity string
	LastDate string // YYYY-MM-DD, empty when unknown
	Today    time.Time
}

// ComposeRequest carries a normalized record and the utterance it answers.
type ComposeRequest struct {
	Record   weather.Record
	Query    string
	Language string
}

// Provider abstracts the completion API.
//
// Implementations must be safe for concurrent use. Network failures are
// returned as-is; the orchestrator maps them to a bilingual apology.
type Provider interface {
	// Analyze extracts city and date intent from the utterance.
	Analyze(ctx context.Context, req AnalyzeRequest) (*Analysis, error)

	// Compose narrates the weather record with fashion and travel advice in
	// the requested language.
	Compose(ctx context.Context, req ComposeRequest) (string, error)
}
