package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/ai-creative-studio/internal/cli"
	"github.com/fpang/ai-creative-studio/internal/config"
	"github.com/fpang/ai-creative-studio/internal/logging"
	"github.com/fpang/ai-creative-studio/internal/store"
)

// CLI flags
var (
	portFlag     int
	outFlag      string
	validateFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "studio-web",
	Short: "JSON API for the creative studio",
	Long: `studio-web serves the creative studio over a local JSON API. A single
session holds the current view, prompts, uploads and the last result, and
one generation runs at a time.

Examples:
  studio-web
  studio-web --port 9090 --out ./results`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 8080, "Port to listen on")
	rootCmd.Flags().StringVarP(&outFlag, "out", "o", "", "Also save every result into this directory")
	rootCmd.Flags().BoolVar(&validateFlag, "validate", true, "Validate the API key at startup")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	logging.Init()
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()
	client := cli.InitStudioClient(ctx, cfg.Models, validateFlag)

	outDir := ""
	if outFlag != "" {
		if outDir, err = cli.ResolveOutputDir(outFlag); err != nil {
			log.Fatal().Err(err).Msg("Invalid output directory")
		}
	}

	srv := newServer(client, client, store.NewMemoryStore(), cfg.Poller(), outDir)

	handler := withLogging(withCORS(srv.routes()))

	addr := fmt.Sprintf(":%d", portFlag)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		srv.cancelRunning()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpSrv.Shutdown(ctx)
	}()

	log.Info().Int("port", portFlag).Msg("Starting web server")
	fmt.Printf("\n  Creative Studio API: http://localhost:%d/api/session\n\n", portFlag)

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("API request")
		}
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only localhost origins may call the API.
		origin := r.Header.Get("Origin")
		if origin != "" && (strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
