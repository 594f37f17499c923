package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/vigneshbunny/crypto-pay/api"
	"github.com/vigneshbunny/crypto-pay/config"
	"github.com/vigneshbunny/crypto-pay/db"
	"github.com/vigneshbunny/crypto-pay/eth"
	"github.com/vigneshbunny/crypto-pay/notify"
	"github.com/vigneshbunny/crypto-pay/proc"
	"github.com/vigneshbunny/crypto-pay/repo"
	"github.com/vigneshbunny/crypto-pay/service"
	"github.com/vigneshbunny/crypto-pay/vault"
)

func readConfig(name string, data interface{}) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(data)
}

// applyEnv overrides secrets from the environment. A .env file, when
// present, is loaded first.
func applyEnv(cfg *config.Config) {
	_ = godotenv.Load()

	if v := os.Getenv("VAULT_SECRET"); v != "" {
		cfg.Vault.Secret = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.DB.Password = v
	}
}

func newLogger(cfg *config.Log) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Logger()
}

func main() {
	cfg := config.NewConfig()
	fConfig := flag.String("config", "config.json", "Configuration file path.")

	flag.Parse()

	if err := readConfig(*fConfig, cfg); err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("failed to read config")
	}

	applyEnv(cfg)
	logger := newLogger(cfg.Log)

	if cfg.Vault.Secret == "" {
		logger.Fatal().Msg("vault secret is not configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := db.Connect(db.ConnectArgs(cfg.DB))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	database, err := db.NewDB(conn)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to wrap database")
	}
	defer db.CloseDB(database)

	gateway, err := eth.NewClient(ctx, cfg.Eth, cfg.Fee, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to ledger node")
	}
	defer gateway.Close()

	repository := repo.New(database)
	hub := notify.NewHub(logger)
	keyVault := vault.New(cfg.Vault.Secret, cfg.Vault.PasswordSalt)

	svc := service.NewService(cfg, repository, gateway, keyVault,
		hub, logger)

	scheduler := proc.NewScheduler(ctx, cfg, repository, svc,
		gateway, logger)
	scheduler.Start()
	defer scheduler.Close()

	handler := api.NewHandler(svc, hub, logger)
	srv := api.NewServer(cfg.API, handler.Router())

	errCh := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", cfg.API.Addr).Msg("api server starting")
		errCh <- srv.ListenAndServe()
	}()
	defer srv.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info().Msg("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(
			context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("api server failed")
	}
}
