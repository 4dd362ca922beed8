package main

import (
	"github.com/spf13/cobra"

	"onnxd/pkg/types"
)

func buildStatusCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server state, queue depth, and batching stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp types.StatusResponse
			if err := newClient(cfg.ServerAddr).get("/status", &resp); err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
}
