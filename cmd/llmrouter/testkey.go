package main

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/aimichat/llmrouter/internal/status"
	"github.com/aimichat/llmrouter/pkg/types"
)

var errKeyTestFailed = errors.New("key test failed")

func newTestKeyCmd(opts *rootOptions) *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "test-key <provider>",
		Short: "Send a test prompt to one provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			res, err := rt.client.TestProvider(cmd.Context(), types.ProviderID(args[0]), model)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
			if res.Status != status.TestOK {
				return errKeyTestFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "model to test (provider default when empty)")
	return cmd
}
