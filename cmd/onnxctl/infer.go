package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"onnxd/pkg/types"
)

func buildInferCmd(cfg *cliConfig) *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:     "infer <model>",
		Short:   "Run inference against a model, reading an InferRequest JSON body",
		Args:    cobra.ExactArgs(1),
		Example: "  onnxctl infer resnet50 --input req.json\n  cat req.json | onnxctl infer resnet50",
		RunE: func(cmd *cobra.Command, args []string) error {
			model := args[0]
			var raw []byte
			var err error
			if inputFile != "" {
				raw, err = os.ReadFile(inputFile)
			} else {
				raw, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return fmt.Errorf("read request body: %w", err)
			}

			var req types.InferRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("parse request body: %w", err)
			}

			var resp types.InferResponse
			if err := newClient(cfg.ServerAddr).post("/v1/models/"+model+"/infer", req, &resp); err != nil {
				return err
			}
			return printJSON(resp)
		},
	}

	cmd.Flags().StringVar(&inputFile, "input", "", "Path to a JSON file with inputs; defaults to stdin")
	return cmd
}
