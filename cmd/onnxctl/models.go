package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"onnxd/pkg/types"
)

func buildModelsCmd(cfg *cliConfig) *cobra.Command {
	models := &cobra.Command{
		Use:   "models",
		Short: "Inspect and manage loaded models",
		Args:  func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("models requires a subcommand: list|get|reload")
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every known model and its state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp types.ModelsResponse
			if err := newClient(cfg.ServerAddr).get("/v1/models", &resp); err != nil {
				return err
			}
			return printJSON(resp.Models)
		},
	}

	get := &cobra.Command{
		Use:   "get <name>",
		Short: "Show details for one model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp types.ModelInfo
			if err := newClient(cfg.ServerAddr).get("/v1/models/"+args[0], &resp); err != nil {
				return err
			}
			return printJSON(resp)
		},
	}

	reload := &cobra.Command{
		Use:   "reload <name>",
		Short: "Force a reload of one model from disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp types.ReloadResponse
			if err := newClient(cfg.ServerAddr).post("/v1/models/"+args[0]+"/reload", nil, &resp); err != nil {
				return err
			}
			return printJSON(resp.Model)
		},
	}

	models.AddCommand(list, get, reload)
	return models
}
