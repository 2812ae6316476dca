package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/va6996/tickerdesk/agents"
	"github.com/va6996/tickerdesk/log"
)

// DefaultPrompt is asked when no prompt is given
const DefaultPrompt = "Summarize analyst recommendations and share the latest 3 news stories for NVDA."

func (c *cli) askCmd() *cobra.Command {
	var agentName string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Ask an agent a question",
		Example: `  tickerdesk ask "Share the latest 3 news stories for NVDA"
  tickerdesk ask --agent web "What is the market saying about AMD today?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prompt := strings.TrimSpace(strings.Join(args, " "))
			if prompt == "" {
				prompt = DefaultPrompt
			}

			app, err := c.setup(ctx, c.cfg)
			if err != nil {
				return fmt.Errorf("setup failed: %w", err)
			}
			defer app.Close()

			agent, err := c.runner(app, agentName)
			if err != nil {
				return err
			}

			resp, err := agent.Run(ctx, prompt)
			if err != nil {
				log.Errorf(ctx, "Error processing request: %v", err)
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			printResponse(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	cmd.Flags().StringVarP(&agentName, "agent", "a", "finance", "agent to ask: finance or web")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the response as JSON")
	return cmd
}

func printResponse(w io.Writer, resp *agents.Response) {
	if len(resp.ToolCalls) > 0 {
		fmt.Fprintln(w, "Running:")
		for _, call := range resp.ToolCalls {
			fmt.Fprintf(w, "  - %s\n", call)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, resp.Text)
}
