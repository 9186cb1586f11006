// Package chat owns the conversation with the LLM and the guarded path
// from an LLM-proposed query to the database.
//
// A failed turn never leaves a trace in the history: the user message is
// rolled back when the provider fails, and SQL runs do not touch the
// history at all.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/DachengChen/smartbi/ai"
	"github.com/DachengChen/smartbi/applog"
	"github.com/DachengChen/smartbi/db"
	"github.com/DachengChen/smartbi/sqlguard"
)

var (
	// ErrEmptyInput is returned by Send for blank input.
	ErrEmptyInput = errors.New("empty input")

	// ErrNoExecutor is returned by RunSQL when no database is configured.
	ErrNoExecutor = errors.New("no database configured")

	// ErrNoProposedSQL is returned by RunProposed when the last reply
	// contains no SQL.
	ErrNoProposedSQL = errors.New("last reply contains no SQL")

	// ErrMetricColumnMisuse is returned by RunSQL when the statement
	// qualifies a logical metric name with a table alias.
	ErrMetricColumnMisuse = errors.New("SQL references a metric name as a column; use the physical column instead")
)

// Executor runs guarded SQL. *db.Executor satisfies it.
type Executor interface {
	Execute(ctx context.Context, sql string, maxRows int) (*db.QueryResult, error)
}

// Session is one conversation. It is not safe for concurrent use.
type Session struct {
	provider ai.Provider
	executor Executor
	maxRows  int

	systemPrompt string
	history      []ai.Message
	metrics      []string
}

// Option configures a Session.
type Option func(*Session)

// WithExecutor enables SQL commands.
func WithExecutor(e Executor, maxRows int) Option {
	return func(s *Session) {
		s.executor = e
		s.maxRows = maxRows
	}
}

// WithSystemPrompt replaces the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(s *Session) {
		s.systemPrompt = prompt
	}
}

// WithSelectedMetrics seeds the metric names checked before running SQL.
func WithSelectedMetrics(metrics []string) Option {
	return func(s *Session) {
		s.metrics = append([]string(nil), metrics...)
	}
}

// NewSession starts a conversation seeded with the system prompt.
func NewSession(provider ai.Provider, opts ...Option) *Session {
	s := &Session{
		provider:     provider,
		systemPrompt: ai.SystemPromptChat,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// ProviderName returns the provider's display name.
func (s *Session) ProviderName() string {
	return s.provider.Name()
}

// HasExecutor reports whether SQL commands are available.
func (s *Session) HasExecutor() bool {
	return s.executor != nil
}

// History returns a copy of the conversation, system message first.
func (s *Session) History() []ai.Message {
	out := make([]ai.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Reset drops everything but the system message.
func (s *Session) Reset() {
	s.history = []ai.Message{{Role: ai.RoleSystem, Content: s.systemPrompt}}
}

// SelectedMetrics returns the metric names used by the guard.
func (s *Session) SelectedMetrics() []string {
	return append([]string(nil), s.metrics...)
}

// SetSelectedMetrics replaces the metric names used by the guard.
func (s *Session) SetSelectedMetrics(metrics []string) {
	s.metrics = append([]string(nil), metrics...)
}

// Send appends input as a user turn, asks the provider, and records the
// reply. On failure the user turn is removed and the error returned.
func (s *Session) Send(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyInput
	}

	s.history = append(s.history, ai.Message{Role: ai.RoleUser, Content: input})
	msgs := s.History()

	ai.LogAIRequest("Chat", s.provider.Name(), map[string]string{
		"Messages": ai.SummarizeMessages(msgs),
	})
	reply, err := s.provider.Chat(ctx, msgs)
	ai.LogAIResponse("Chat", reply, err)
	if err != nil {
		s.history = s.history[:len(s.history)-1]
		applog.Error("LLM call failed: %v", err)
		return "", err
	}

	reply = strings.TrimSpace(reply)
	s.history = append(s.history, ai.Message{Role: ai.RoleAssistant, Content: reply})
	return reply, nil
}

// ProposedSQL returns the SQL in the latest assistant reply, or "".
func (s *Session) ProposedSQL() string {
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Role == ai.RoleAssistant {
			return ai.ExtractSQL(s.history[i].Content)
		}
	}
	return ""
}

// RunSQL checks sql against the selected metrics and then executes it.
// It returns ErrMetricColumnMisuse without touching the database when
// the guard fires, and the executor's errors otherwise.
func (s *Session) RunSQL(ctx context.Context, sql string) (*db.QueryResult, error) {
	if s.executor == nil {
		return nil, ErrNoExecutor
	}
	if sqlguard.HasMetricNameColumnReference(sql, s.metrics) {
		applog.Event("sql", "metric-name column reference rejected: %s", sql)
		return nil, ErrMetricColumnMisuse
	}

	res, err := s.executor.Execute(ctx, sql, s.maxRows)
	if err != nil {
		applog.Event("sql", "execution failed: %v", err)
		return nil, err
	}
	applog.Event("sql", "returned %d rows", len(res.Rows))
	return res, nil
}

// RunProposed runs the SQL from the latest assistant reply.
func (s *Session) RunProposed(ctx context.Context) (string, *db.QueryResult, error) {
	sql := s.ProposedSQL()
	if sql == "" {
		return "", nil, ErrNoProposedSQL
	}
	res, err := s.RunSQL(ctx, sql)
	return sql, res, err
}
