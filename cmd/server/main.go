// Package main runs the table server.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/sojourn/internal/audio"
	"github.com/jason-s-yu/sojourn/internal/auth"
	"github.com/jason-s-yu/sojourn/internal/cache"
	"github.com/jason-s-yu/sojourn/internal/config"
	"github.com/jason-s-yu/sojourn/internal/database"
	"github.com/jason-s-yu/sojourn/internal/handlers"
	"github.com/jason-s-yu/sojourn/internal/otel"
	"github.com/jason-s-yu/sojourn/internal/quiz"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logrus.SetLevel(cfg.Level())
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log := logrus.WithField("service", "sojourn")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, "sojourn", cfg.OTelEndpoint)
	if err != nil {
		log.Warnf("tracing disabled: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	if cfg.RedisAddr != "" {
		if err := cache.ConnectRedis(ctx, cfg.RedisAddr); err != nil {
			log.Warnf("historian feed disabled: %v", err)
		} else {
			defer cache.Close()
			log.Infof("publishing actions to redis at %s", cfg.RedisAddr)
		}
	}
	if cfg.DatabaseURL != "" {
		if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
			log.Warnf("result archive disabled: %v", err)
		} else {
			defer database.Close()
			log.Info("archiving results to postgres")
		}
	}

	var gen quiz.Generator
	if cfg.QuizEnabled() {
		gen = quiz.NewOpenAIGenerator(quiz.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.QuizTimeout,
		})
	} else {
		log.Info("no OpenAI key set; advanced mode uses the static trial pool")
	}

	secret := []byte(cfg.SeatSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("generate seat secret: %v", err)
		}
		log.Warn("SOJOURN_SEAT_SECRET not set; seat tokens will not survive a restart")
	}
	issuer, err := auth.NewIssuer(secret, cfg.SeatTokenTTL)
	if err != nil {
		log.Fatalf("seat tokens: %v", err)
	}

	sound := audio.New(log)
	if err := sound.Init(); err != nil {
		log.Fatalf("audio: %v", err)
	}
	defer sound.Teardown()

	table, err := handlers.NewTable(handlers.TableOptions{
		Issuer:      issuer,
		Audio:       sound,
		Quiz:        gen,
		QuizTimeout: cfg.QuizTimeout,
		Log:         log,
	})
	if err != nil {
		log.Fatalf("table: %v", err)
	}
	defer table.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           table.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Infof("listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("server: %v", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
