package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hivesocial/chatmirror/internal/config"
	"github.com/hivesocial/chatmirror/internal/mirror"
	"github.com/hivesocial/chatmirror/internal/store"
	"github.com/hivesocial/chatmirror/internal/sync"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	cfg := config.Load()
	if level, err := zerolog.ParseLevel(cfg.App.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	log.Info().Str("env", cfg.App.Env).Msg("starting chat mirror sync daemon")

	// The store degrades rather than fails: a broken local cache must never
	// keep the sync loop from serving fresh data to the app.
	st := store.Default(cfg.Store)
	if !st.Ready() {
		log.Warn().Msg("local store unavailable, running in pass-through mode")
	}

	convMirror := mirror.NewConversationMirror(st)
	msgMirror := mirror.NewMessageMirror(st)

	client := sync.NewClient(cfg.API)
	syncer := sync.NewSyncer(client, convMirror, msgMirror)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go syncer.Run(ctx, cfg.Sync.Interval)
	if cfg.Sync.StreamEnable {
		stream := sync.NewStream(cfg.API, syncer)
		go stream.Listen(ctx)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	cancel()
}
