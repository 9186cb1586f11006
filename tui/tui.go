package tui

import (
	"github.com/DachengChen/smartbi/chat"
	tea "github.com/charmbracelet/bubbletea"
)

// Options control how the chat program starts.
type Options struct {
	// ClearScreen runs in the alternate screen, leaving the shell
	// scrollback untouched on exit.
	ClearScreen bool
}

// Start runs the chat until the user quits.
func Start(session *chat.Session, banner BannerInfo, opts Options) error {
	var progOpts []tea.ProgramOption
	if opts.ClearScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(NewApp(session, banner), progOpts...)
	_, err := p.Run()
	return err
}
