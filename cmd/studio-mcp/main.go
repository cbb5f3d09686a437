// Command studio-mcp exposes the creative studio as MCP tools over stdio,
// one tool per mode. Logs go to stderr; stdout carries the protocol.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/ai-creative-studio/internal/cli"
	"github.com/fpang/ai-creative-studio/internal/config"
	"github.com/fpang/ai-creative-studio/internal/logging"
)

// version is stamped at build time with -ldflags.
var version = "dev"

var outFlag string

var rootCmd = &cobra.Command{
	Use:   "studio-mcp",
	Short: "MCP server for the creative studio",
	Long: `studio-mcp serves the creative studio to MCP clients over stdio. Every
mode is a tool; results are saved into --out and images are also returned
inline.`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&outFlag, "out", "o", ".", "Directory to save results in")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	logging.InitWriter(os.Stderr)
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	outDir, err := cli.ResolveOutputDir(outFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid output directory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := cli.InitStudioClient(ctx, cfg.Models, false)
	server := newServer(newTools(client, cfg.Poller(), outDir))

	log.Info().Str("out", outDir).Str("version", version).Msg("MCP server starting on stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
