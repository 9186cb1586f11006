// app.go is the Bubble Tea model for the chat.
//
// Flow:
//  1. The startup banner is the first block in the scrollback.
//  2. Each Enter either sends a chat message or runs a slash command.
//  3. LLM calls and SQL runs happen in commands; input is locked while
//     one is in flight, so the session is never used concurrently.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/DachengChen/smartbi/chat"
	"github.com/DachengChen/smartbi/db"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// App is the root Bubble Tea model.
type App struct {
	session  *chat.Session
	banner   BannerInfo
	viewport *Viewport

	ctx    context.Context
	cancel context.CancelFunc

	input       string
	busy        bool
	bannerShown bool
	width       int
	height      int
}

// NewApp creates the chat model.
func NewApp(session *chat.Session, banner BannerInfo) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		session:  session,
		banner:   banner,
		viewport: NewViewport(80, 20),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// prompt(1) + status(1)
		a.viewport.SetSize(a.width, max(a.height-2, 1))
		if !a.bannerShown {
			a.bannerShown = true
			a.viewport.Append(RenderBanner(a.banner, a.width))
			a.viewport.Append("")
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case ChatReplyMsg:
		a.busy = false
		if msg.Err != nil {
			a.printError("LLM call failed: " + msg.Err.Error())
			return a, nil
		}
		a.viewport.Append(StyleAI.Render("AI> ") + msg.Reply)
		if a.session.HasExecutor() && a.session.ProposedSQL() != "" {
			a.viewport.Append(StyleDimmed.Render("  SQL detected. Type /run to execute it."))
		}
		a.viewport.Append("")
		return a, nil

	case SQLResultMsg:
		a.busy = false
		a.showSQLResult(msg)
		return a, nil
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+d":
		return a.quit()
	case "pgup":
		a.viewport.PageUp()
		return a, nil
	case "pgdown":
		a.viewport.PageDown()
		return a, nil
	case "ctrl+l":
		a.viewport.Clear()
		return a, nil
	}

	if a.busy {
		return a, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		line := a.input
		a.input = ""
		return a.handleLine(line)
	case tea.KeyBackspace:
		if r := []rune(a.input); len(r) > 0 {
			a.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		a.input += " "
	case tea.KeyRunes:
		a.input += string(msg.Runes)
	}
	return a, nil
}

func (a *App) handleLine(line string) (tea.Model, tea.Cmd) {
	cmd := chat.ParseCommand(line)
	if cmd.Kind == chat.CmdEmpty {
		return a, nil
	}
	a.viewport.Append(StyleUser.Render("You> ") + strings.TrimSpace(line))

	switch cmd.Kind {
	case chat.CmdExit:
		return a.quit()

	case chat.CmdHelp:
		a.viewport.Append(StyleDimmed.Render(chat.HelpText))
		a.viewport.Append("")
		return a, nil

	case chat.CmdClear:
		a.session.Reset()
		a.viewport.Append(StyleSuccess.Render("Conversation cleared."))
		a.viewport.Append("")
		return a, nil

	case chat.CmdMetrics:
		if cmd.List != nil {
			a.session.SetSelectedMetrics(cmd.List)
		}
		metrics := a.session.SelectedMetrics()
		if len(metrics) == 0 {
			a.viewport.Append(StyleDimmed.Render("No selected metrics."))
		} else {
			a.viewport.Append(StyleDimmed.Render("Selected metrics: " + strings.Join(metrics, ", ")))
		}
		a.viewport.Append("")
		return a, nil

	case chat.CmdSQL:
		if !a.session.HasExecutor() {
			a.printError(chat.ErrNoExecutor.Error())
			return a, nil
		}
		if cmd.Arg == "" {
			a.printError("usage: /sql <select ...>")
			return a, nil
		}
		a.busy = true
		return a, a.runSQL(cmd.Arg)

	case chat.CmdRun:
		if !a.session.HasExecutor() {
			a.printError(chat.ErrNoExecutor.Error())
			return a, nil
		}
		a.busy = true
		return a, a.runProposed()
	}

	a.busy = true
	return a, a.send(cmd.Arg)
}

func (a *App) send(text string) tea.Cmd {
	session, ctx := a.session, a.ctx
	return func() tea.Msg {
		reply, err := session.Send(ctx, text)
		return ChatReplyMsg{Reply: reply, Err: err}
	}
}

func (a *App) runSQL(sql string) tea.Cmd {
	session, ctx := a.session, a.ctx
	return func() tea.Msg {
		res, err := session.RunSQL(ctx, sql)
		return SQLResultMsg{SQL: sql, Result: res, Err: err}
	}
}

func (a *App) runProposed() tea.Cmd {
	session, ctx := a.session, a.ctx
	return func() tea.Msg {
		sql, res, err := session.RunProposed(ctx)
		return SQLResultMsg{SQL: sql, Result: res, Err: err}
	}
}

func (a *App) showSQLResult(msg SQLResultMsg) {
	if msg.SQL != "" {
		a.viewport.Append(StyleDimmed.Render(msg.SQL))
	}
	var execErr *db.ExecutionError
	switch {
	case msg.Err == nil:
		a.viewport.Append(RenderResult(msg.Result))
	case errors.Is(msg.Err, chat.ErrMetricColumnMisuse):
		a.viewport.Append(StyleWarning.Render("[WARN] " + msg.Err.Error()))
	case errors.Is(msg.Err, db.ErrUnsafeSQL):
		a.printError("rejected: " + msg.Err.Error())
		return
	case errors.As(msg.Err, &execErr):
		a.printError("database error: " + execErr.Err.Error())
		return
	default:
		a.printError(msg.Err.Error())
		return
	}
	a.viewport.Append("")
}

func (a *App) printError(text string) {
	a.viewport.Append(StyleError.Render("[ERROR] ") + text)
	a.viewport.Append("")
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.cancel()
	return a, tea.Quit
}

// View implements tea.Model.
func (a *App) View() string {
	prompt := StylePrompt.Render("You> ") + a.input + "█"
	if a.busy {
		prompt = StylePrompt.Render("You> ") + StyleDimmed.Render("⏳ waiting...")
	}

	status := a.session.ProviderName()
	if a.session.HasExecutor() {
		status += " · SQL enabled"
	}
	status += " · PgUp/PgDn scroll · Ctrl+C quit"

	return lipgloss.JoinVertical(lipgloss.Left,
		a.viewport.Render(),
		prompt,
		StyleStatusBar.Render(status),
	)
}
