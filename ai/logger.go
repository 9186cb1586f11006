// logger.go records every LLM round trip to ~/.smartbi/logs/ai.log.
//
// Kept separate from app.log because prompts and replies are large and
// noisy. Opened lazily on first use.
package ai

import (
	"sort"
	"strings"
	"sync"

	"github.com/DachengChen/smartbi/applog"
	"go.uber.org/zap"
)

var (
	logOnce sync.Once
	aiLog   = zap.NewNop()
)

func initLog() {
	logOnce.Do(func() {
		l, f, err := applog.NewFileLogger("ai.log")
		if err != nil {
			return
		}
		applog.Track(f)
		aiLog = l
	})
}

// LogAIRequest logs an AI request with the given operation name and input details.
func LogAIRequest(operation string, provider string, details map[string]string) {
	initLog()
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := []zap.Field{zap.String("op", operation), zap.String("provider", provider)}
	for _, k := range keys {
		fields = append(fields, zap.String(k, details[k]))
	}
	aiLog.Info("request", fields...)
}

// LogAIResponse logs an AI response with the given operation name.
func LogAIResponse(operation string, response string, err error) {
	initLog()
	if err != nil {
		aiLog.Error("response", zap.String("op", operation), zap.Error(err))
		return
	}
	aiLog.Info("response", zap.String("op", operation), zap.String("content", response))
}

// SummarizeMessages flattens a conversation into "role: content" lines.
func SummarizeMessages(msgs []Message) string {
	var sb strings.Builder
	for _, m := range msgs {
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
