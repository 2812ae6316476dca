package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) toolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tool <name> [json-args]",
		Short: "Call a tool directly, without a model",
		Example: `  tickerdesk tool get_company_news '{"company_ticker":"NVDA","num_stories":"3"}'
  tickerdesk tool dateTool '{"expression":"new Date(now).toISOString()"}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			toolArgs := map[string]interface{}{}
			if len(args) == 2 && strings.TrimSpace(args[1]) != "" {
				dec := json.NewDecoder(strings.NewReader(args[1]))
				dec.UseNumber()
				if err := dec.Decode(&toolArgs); err != nil {
					return fmt.Errorf("tool arguments must be a JSON object: %w", err)
				}
			}

			app, err := c.setupTools(ctx, c.cfg)
			if err != nil {
				return fmt.Errorf("setup failed: %w", err)
			}
			defer app.Close()

			out, err := app.Registry.ExecuteTool(ctx, args[0], toolArgs)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func (c *cli) toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the registered tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.setupTools(cmd.Context(), c.cfg)
			if err != nil {
				return fmt.Errorf("setup failed: %w", err)
			}
			defer app.Close()

			for _, name := range app.Registry.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
