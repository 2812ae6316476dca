package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/va6996/tickerdesk/agents"
	"github.com/va6996/tickerdesk/plugins/duckduckgo"
	"github.com/va6996/tickerdesk/plugins/tavily"
)

func (c *cli) agentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "Describe the available agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			searchTool := duckduckgo.ToolSearch
			if c.cfg.Search.Provider == "tavily" {
				searchTool = tavily.ToolSearch
			}

			w := cmd.OutOrStdout()
			for _, entry := range []struct {
				flag string
				def  agents.Definition
			}{
				{"finance", agents.FinanceDefinition()},
				{"web", agents.WebSearchDefinition(searchTool)},
			} {
				fmt.Fprintf(w, "%s (--agent %s)\n", entry.def.Name, entry.flag)
				fmt.Fprintf(w, "  role:  %s\n", entry.def.Role)
				fmt.Fprintf(w, "  tools: %s\n", strings.Join(entry.def.Tools, ", "))
			}
			return nil
		},
	}
}
