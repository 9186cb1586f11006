package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DachengChen/smartbi/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "sql fence",
			reply: "Here you go:\n```sql\nSELECT id FROM accounts;\n```\nDone.",
			want:  "SELECT id FROM accounts;",
		},
		{
			name:  "sql fence wins over earlier untagged fence",
			reply: "```\nselect 1\n```\n```sql\nselect 2\n```",
			want:  "select 2",
		},
		{
			name:  "untagged select fence",
			reply: "```\nselect name\nfrom users\n```",
			want:  "select name\nfrom users",
		},
		{
			name:  "non-sql fence ignored",
			reply: "```python\nprint('select')\n```",
			want:  "",
		},
		{
			name:  "bare select until semicolon",
			reply: "Try this:\nSELECT * FROM t WHERE a = 1; then look at the rows.",
			want:  "SELECT * FROM t WHERE a = 1;",
		},
		{
			name:  "bare select until blank line",
			reply: "select a\nfrom t\n\nThat returns a.",
			want:  "select a\nfrom t",
		},
		{
			name:  "prose mention is not sql",
			reply: "You can select a date range in the report.",
			want:  "",
		},
		{
			name:  "nothing",
			reply: "Hello!",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSQL(tt.reply))
		})
	}
}

func TestPlaceholderChat(t *testing.T) {
	p := NewPlaceholder()
	reply, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Contains(t, reply, `"hi"`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Chat(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(config.LLMConfig{Provider: "placeholder"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "placeholder", p.Name())

	p, err = NewProvider(config.LLMConfig{Provider: "openai", BaseURL: "http://x/v1/", Model: "m"}, nil)
	require.NoError(t, err)
	o, ok := p.(*OpenAI)
	require.True(t, ok)
	assert.Equal(t, "http://x/v1", o.BaseURL())
	assert.Equal(t, "m", o.Model())

	_, err = NewProvider(config.LLMConfig{Provider: "openai", Model: "m"}, nil)
	require.Error(t, err)

	_, err = NewProvider(config.LLMConfig{Provider: "claude"}, nil)
	require.ErrorContains(t, err, "unknown LLM provider")
}

func TestOpenAIChat(t *testing.T) {
	var got struct {
		Model       string    `json:"model"`
		Temperature float64   `json:"temperature"`
		Messages    []Message `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer empty", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  hello there \n"},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`))
	}))
	defer srv.Close()

	o, err := NewOpenAI(OpenAIConfig{BaseURL: srv.URL + "/v1", APIKey: "empty", Model: "qwen", Temperature: 0.2}, nil)
	require.NoError(t, err)

	reply, err := o.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)
	assert.Equal(t, "qwen", got.Model)
	assert.InDelta(t, 0.2, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, RoleSystem, got.Messages[0].Role)
	assert.Equal(t, "hi", got.Messages[1].Content)
}

func TestOpenAIChatServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	o, err := NewOpenAI(OpenAIConfig{BaseURL: srv.URL + "/v1", Model: "m"}, nil)
	require.NoError(t, err)

	_, err = o.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestOpenAIChatNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	o, err := NewOpenAI(OpenAIConfig{BaseURL: srv.URL, Model: "m"}, nil)
	require.NoError(t, err)
	_, err = o.Chat(context.Background(), nil)
	require.ErrorContains(t, err, "no choices")
}

func TestSummarizeMessages(t *testing.T) {
	got := SummarizeMessages([]Message{{Role: RoleUser, Content: "a"}, {Role: RoleAssistant, Content: "b"}})
	assert.Equal(t, "user: a\nassistant: b\n", got)
}
