// messages.go defines Bubble Tea messages used for async communication.
//
// LLM calls and SQL runs happen in tea.Cmds and report back through
// these types, so the UI never blocks.
package tui

import "github.com/DachengChen/smartbi/db"

// ChatReplyMsg is sent when the LLM answers (or fails).
type ChatReplyMsg struct {
	Reply string
	Err   error
}

// SQLResultMsg is sent when a SQL run completes.
type SQLResultMsg struct {
	SQL    string
	Result *db.QueryResult
	Err    error
}
