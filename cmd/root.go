package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/va6996/tickerdesk/agents"
	"github.com/va6996/tickerdesk/bootstrap"
	"github.com/va6996/tickerdesk/config"
	tdcontext "github.com/va6996/tickerdesk/context"
	"github.com/va6996/tickerdesk/log"
)

// cli carries flag values and the loaded config between commands
type cli struct {
	configPath string
	logLevel   string
	cfg        *config.Config

	// replaced in tests
	setup      func(ctx context.Context, cfg *config.Config) (*bootstrap.App, error)
	setupTools func(ctx context.Context, cfg *config.Config) (*bootstrap.App, error)
	runner     func(app *bootstrap.App, name string) (agents.Runner, error)
}

func newCLI() *cli {
	return &cli{
		setup:      bootstrap.Setup,
		setupTools: bootstrap.SetupTools,
		runner: func(app *bootstrap.App, name string) (agents.Runner, error) {
			return app.Agent(name)
		},
	}
}

// NewRootCmd builds the tickerdesk command tree
func NewRootCmd() *cobra.Command {
	return newCLI().rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tickerdesk",
		Short: "tickerdesk answers stock market questions with tool-calling agents.",
		Long: `tickerdesk pairs an LLM with market data and web search tools.
The finance agent pulls prices, analyst recommendations, fundamentals and company
news; the web agent searches for recent coverage and cites its sources.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.load,
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", config.DefaultPath, "path to the yaml config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (overrides config): debug, info, warn, error")

	root.AddCommand(c.askCmd(), c.toolCmd(), c.toolsCmd(), c.agentsCmd())
	return root
}

// load reads .env and the config file, then configures logging
func (c *cli) load(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if c.logLevel != "" {
		level = c.logLevel
	}
	if err := log.Init(level); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// Execute runs the root command; Ctrl+C cancels the in-flight request
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			log.Info(context.Background(), "Program terminated externally. Exiting...")
			cancel()
		case <-ctx.Done():
		}
	}()

	ctx = tdcontext.WithRequestID(ctx, tdcontext.NewRequestID())
	return NewRootCmd().ExecuteContext(ctx)
}
