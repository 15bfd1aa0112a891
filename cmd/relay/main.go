package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"seedlink/internal/app"
)

func main() {
	cfgFile := flag.String("config", "", "config file")
	flag.Parse()

	cfg, err := app.LoadConfig(viper.New(), *cfgFile)
	if err != nil {
		_, _ = os.Stderr.WriteString("relay: " + err.Error() + "\n")
		os.Exit(2)
	}
	w, err := app.NewWire(cfg, "relay", os.Stderr)
	if err != nil {
		_, _ = os.Stderr.WriteString("relay: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rd := w.RelayServer()
	go rd.RunSweeper(ctx, time.Minute)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           rd,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	w.Log.Info().Str("addr", cfg.Listen).Str("api_version", cfg.APIVersion).Msg("relay listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		w.Log.Fatal().Err(err).Msg("relay stopped")
	}
}
