// Package cmd contains all Cobra commands for smartbi.
//
// Running `smartbi` with no arguments starts the interactive chat.
// The query and check subcommands expose the SQL path for scripting.
package cmd

import (
	"github.com/DachengChen/smartbi/ai"
	"github.com/DachengChen/smartbi/applog"
	"github.com/DachengChen/smartbi/chat"
	"github.com/DachengChen/smartbi/tui"
	"github.com/spf13/cobra"
)

const appName = "SmartBI"

// version is set at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

var (
	envFile        string
	connectionName string

	noClear    bool
	showSystem bool
)

var rootCmd = &cobra.Command{
	Use:   "smartbi",
	Short: "Chat with an LLM about your business data",
	Long: `smartbi is a terminal chat for business intelligence:
  • Any OpenAI-compatible chat endpoint (LLM_BASE_URL, LLM_MODEL)
  • Read-only SQL against MySQL or PostgreSQL, optionally over SSH
  • Every statement is checked before it reaches the database

Run 'smartbi' to start chatting. Type /help inside the chat for commands.`,
	Version:      version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVarP(&connectionName, "connection", "c", "", "use a saved database connection")

	rootCmd.Flags().BoolVar(&noClear, "no-clear", false, "keep the shell scrollback (do not use the alternate screen)")
	rootCmd.Flags().BoolVar(&showSystem, "show-system", false, "show OS and Go version in the banner")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runChat() error {
	cfg, err := loadConfig(envFile, connectionName, false)
	if err != nil {
		return err
	}

	provider, err := ai.NewProvider(cfg.LLM, applog.Logger())
	if err != nil {
		return err
	}

	opts := []chat.Option{chat.WithSelectedMetrics(cfg.SelectedMetrics)}
	database := ""
	if cfg.DBConfigured() {
		exec, err := newExecutor(cfg)
		if err != nil {
			return err
		}
		opts = append(opts, chat.WithExecutor(exec, cfg.DB.MaxRows))
		database = describeDB(cfg)
	}
	session := chat.NewSession(provider, opts...)

	applog.Info("starting chat: provider=%s db=%q", provider.Name(), database)

	banner := tui.BannerInfo{
		AppName:    appName,
		Framework:  "cobra + bubbletea",
		Version:    version,
		Model:      cfg.LLM.Model,
		BaseURL:    cfg.LLM.BaseURL,
		Database:   database,
		ShowSystem: showSystem,
	}
	if cfg.LLM.Provider == "placeholder" {
		banner.Model = provider.Name()
	}
	return tui.Start(session, banner, tui.Options{ClearScreen: !noClear})
}
