package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/aimichat/llmrouter/internal/status"
	"github.com/aimichat/llmrouter/pkg/types"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which providers are configured",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			report := rt.client.Status()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printStatus(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printStatus(w io.Writer, r *status.Report) {
	fmt.Fprintf(w, "Status:    %s (%d/%d providers configured)\n\n", r.Summary.Status, r.Summary.Configured, r.Summary.Total)
	fmt.Fprintln(w, "Providers:")
	for _, id := range types.KnownProviders() {
		p := r.Providers[id]
		mark := "(not set)"
		if p.Configured {
			mark = "✓"
			if p.KeyCount > 1 {
				mark = fmt.Sprintf("✓ %d keys", p.KeyCount)
			}
		}
		fmt.Fprintf(w, "  %-12s %-12s %s\n", id, mark, p.KeyName)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Default:   %s (configured: %s)\n", r.Config.EffectiveDefault, r.Config.DefaultProvider)
	fallback := "disabled"
	if r.Config.FallbackEnabled {
		fallback = "enabled: " + strings.ReplaceAll(r.Config.FallbackProviders, ",", ", ")
	}
	fmt.Fprintf(w, "Fallback:  %s\n", fallback)
	fmt.Fprintf(w, "Attempts:  %d max\n", r.Config.MaxAttempts)
}
