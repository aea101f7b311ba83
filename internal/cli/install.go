package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nickcecere/barnsbot/internal/install"
)

var (
	installConfigPath string
	installWatch      string
)

// installCmd registers the MCP server with an AI agent.
var installCmd = &cobra.Command{
	Use:   "install <agent>",
	Short: "Register the barnsbot MCP server with an AI agent",
	Long: `Add barnsbot to an agent's MCP server list so the agent can ask the
knowledge base questions, list its documents and upload new ones.

Supported agents: claude-code, opencode.

Examples:
  barnsbot install claude-code
  barnsbot install opencode --watch ~/policies`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agent, err := install.Lookup(args[0])
		if err != nil {
			return err
		}

		command, err := os.Executable()
		if err != nil {
			command = "barnsbot"
		}
		mcpArgs := []string{"mcp"}
		if installWatch != "" {
			mcpArgs = append(mcpArgs, "--watch", installWatch)
		}

		path := agentConfigPath(agent)
		if err := agent.Install(path, command, mcpArgs); err != nil {
			return err
		}

		fmt.Printf("Installed barnsbot into %s\n", agent.Name)
		fmt.Printf("Config updated: %s\n", path)
		fmt.Printf("To remove it: barnsbot uninstall %s\n", agent.Key)
		return nil
	},
}

// uninstallCmd removes the MCP server registration.
var uninstallCmd = &cobra.Command{
	Use:   "uninstall <agent>",
	Short: "Remove the barnsbot MCP server from an AI agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agent, err := install.Lookup(args[0])
		if err != nil {
			return err
		}

		path := agentConfigPath(agent)
		removed, err := agent.Uninstall(path)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("barnsbot is not installed in %s\n", agent.Name)
			return nil
		}
		fmt.Printf("Uninstalled barnsbot from %s\n", agent.Name)
		return nil
	},
}

func agentConfigPath(agent install.Agent) string {
	if installConfigPath != "" {
		return installConfigPath
	}
	return agent.ConfigPath()
}

func init() {
	for _, c := range []*cobra.Command{installCmd, uninstallCmd} {
		c.Flags().StringVar(&installConfigPath, "file", "", "agent config file to edit (default: the agent's standard location)")
	}
	installCmd.Flags().StringVar(&installWatch, "watch", "", "directory the MCP server keeps uploaded")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}
