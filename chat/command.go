package chat

import (
	"strings"

	"github.com/DachengChen/smartbi/config"
)

// CommandKind identifies what a line of input asks for.
type CommandKind int

const (
	CmdMessage CommandKind = iota
	CmdEmpty
	CmdExit
	CmdHelp
	CmdClear
	CmdSQL
	CmdRun
	CmdMetrics
)

// Command is a parsed input line.
type Command struct {
	Kind CommandKind
	Arg  string   // message text or SQL
	List []string // metrics for CmdMetrics; nil means "show"
}

// HelpText lists the slash commands.
const HelpText = `Commands:
  exit | quit         leave the chat
  /clear              forget the conversation
  /sql <select ...>   run a statement
  /run                run the SQL from the last reply
  /metrics [a.b,...]  show or set the selected metrics
  /help               this help`

// ParseCommand classifies one line of user input.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Kind: CmdEmpty}
	}

	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(word) {
	case "exit", "quit", "/exit", "/quit":
		if rest == "" {
			return Command{Kind: CmdExit}
		}
	case "/help", "/?":
		return Command{Kind: CmdHelp}
	case "/clear":
		return Command{Kind: CmdClear}
	case "/sql":
		return Command{Kind: CmdSQL, Arg: rest}
	case "/run":
		return Command{Kind: CmdRun}
	case "/metrics":
		if rest == "" {
			return Command{Kind: CmdMetrics}
		}
		list := config.SplitList(rest)
		if list == nil {
			list = []string{}
		}
		return Command{Kind: CmdMetrics, List: list}
	}
	return Command{Kind: CmdMessage, Arg: line}
}
