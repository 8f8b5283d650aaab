// Command bot runs the conversational storefront: a Telegram long-polling
// loop driving the conversation state machine against the e-commerce backend,
// with session state in redis and an admin HTTP server for health and metrics.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tg-store-bot/internal/bot"
	"tg-store-bot/internal/config"
	httpapi "tg-store-bot/internal/http"
	"tg-store-bot/internal/moltin"
	"tg-store-bot/internal/session"
	"tg-store-bot/internal/sysutil"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	rdb, err := session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("connecting to redis")
	}
	defer rdb.Close()

	store := moltin.New(moltin.Config{
		BaseURL:      cfg.MoltinBaseURL,
		ClientID:     cfg.MoltinClientID,
		ClientSecret: cfg.MoltinClientSecret,
		Timeout:      cfg.HTTPTimeout,
		RPS:          cfg.BackendRPS,
		Burst:        cfg.BackendBurst,
		Logger:       log.With().Str("component", "moltin").Logger(),
	})
	sessions := session.NewStore(session.NewRedisKV(rdb), store,
		log.With().Str("component", "session").Logger())

	tg, err := bot.NewTelegram(cfg.TelegramToken,
		log.With().Str("component", "telegram").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to telegram")
	}
	machine := bot.NewMachine(bot.Deps{
		Catalog:   store,
		Carts:     store,
		Customers: store,
		Sessions:  sessions,
		Sender:    tg,
		Logger:    log.With().Str("component", "bot").Logger(),
	})

	gin.SetMode(gin.ReleaseMode)
	admin := &http.Server{
		Addr: cfg.AdminAddr,
		Handler: httpapi.New(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}),
	}
	go func() {
		log.Info().Str("addr", cfg.AdminAddr).Msg("admin server listening")
		if err := admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("admin server")
		}
	}()

	go func() {
		log.Info().Msg("bot polling for updates")
		tg.Run(machine)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")

	tg.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = admin.Shutdown(ctx)
}
