package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cliConfig holds the settings every subcommand needs to reach the server.
type cliConfig struct {
	ServerAddr string
	LogLevel   string
}

func buildRootCmd() *cobra.Command {
	return buildRootCmdWith(&cliConfig{ServerAddr: "http://localhost:8080", LogLevel: "info"})
}

// buildRootCmdWith constructs the command tree wired against cfg: persistent
// flags on the root plus one subcommand group per area.
func buildRootCmdWith(cfg *cliConfig) *cobra.Command {
	root := &cobra.Command{
		Use:           "onnxctl",
		Short:         "Operator CLI for an onnxd server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfg.ServerAddr, "server", cfg.ServerAddr, "Base URL of the onnxd server")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Client log level: debug|info|warn|error")

	root.AddCommand(buildModelsCmd(cfg))
	root.AddCommand(buildStatusCmd(cfg))
	root.AddCommand(buildInferCmd(cfg))
	root.AddCommand(buildCompletionCmd(root))

	return root
}

func buildCompletionCmd(root *cobra.Command) *cobra.Command {
	completion := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completion.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenBashCompletion(os.Stdout)
	}})
	completion.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenZshCompletion(os.Stdout)
	}})
	completion.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenFishCompletion(os.Stdout, true)
	}})
	return completion
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(b))
	return err
}
