package main

import (
	"github.com/spf13/cobra"

	"github.com/aimichat/llmrouter"
)

type rootOptions struct {
	configPath string
	jsonLogs   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "llmrouter",
		Short:         "LLM provider routing for Almi Chat",
		Long:          "llmrouter routes chat generation across LLM vendors with key-aware fallback.",
		Version:       llmrouter.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to an optional YAML configuration file")
	cmd.PersistentFlags().BoolVar(&opts.jsonLogs, "json-logs", false, "force JSON logs regardless of environment")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newTestKeyCmd(opts))
	return cmd
}
