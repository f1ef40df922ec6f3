package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/aimichat/llmrouter/internal/fallback"
	"github.com/aimichat/llmrouter/internal/selector"
	"github.com/aimichat/llmrouter/pkg/types"
)

type generateOptions struct {
	provider string
	model    string
	system   string
	mode     string
	language string
	category string
}

const (
	modeRouter   = "router"
	modeFallback = "fallback"
	modeSmart    = "smart"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	g := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [message]",
		Short: "Generate a single reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			var messages []types.Message
			if g.system != "" {
				messages = append(messages, types.System(g.system))
			}
			messages = append(messages, types.User(strings.Join(args, " ")))
			genOpts := types.GenerateOptions{Provider: types.ProviderID(g.provider), Model: g.model}

			var result any
			switch g.mode {
			case modeRouter:
				result, err = rt.client.Generate(cmd.Context(), messages, genOpts)
			case modeFallback:
				result, err = rt.client.GenerateWithFallback(cmd.Context(), messages, genOpts)
			case modeSmart:
				smart := fallback.SmartOptions{Language: g.language}
				if g.category != "" {
					c, ok := selector.ParseCategory(g.category)
					if !ok {
						return fmt.Errorf("invalid category %q: want short or long", g.category)
					}
					smart.Category = c
				}
				result, err = rt.client.GenerateSmart(cmd.Context(), messages, smart)
			default:
				return fmt.Errorf("invalid mode %q: want %s, %s or %s", g.mode, modeRouter, modeFallback, modeSmart)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVarP(&g.provider, "provider", "p", "", "preferred provider")
	cmd.Flags().StringVarP(&g.model, "model", "m", "", "model override")
	cmd.Flags().StringVar(&g.system, "system", "", "system prompt")
	cmd.Flags().StringVar(&g.mode, "mode", modeRouter, "router, fallback or smart")
	cmd.Flags().StringVar(&g.language, "language", selector.DefaultLanguage, "reply language for smart mode")
	cmd.Flags().StringVar(&g.category, "category", "", "force short or long in smart mode")
	return cmd
}
