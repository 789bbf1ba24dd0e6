package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"card-shoggoths-server/internal/config"
	"card-shoggoths-server/internal/jwt"
	"card-shoggoths-server/internal/mux"
	"card-shoggoths-server/internal/rng"
	"card-shoggoths-server/pkg/room"
	"card-shoggoths-server/pkg/room/gamefactory"
	"card-shoggoths-server/pkg/store"
	"card-shoggoths-server/pkg/token"

	"github.com/coder/quartz"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address (overrides the configuration)")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()
	if *addr != "" {
		cfg.Addr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// fail fast
	signer := newSigner(cfg)

	captcha, err := mux.NewRecaptcha(cfg.RecaptchaSecret)
	if err != nil {
		logrus.WithError(err).Fatal("could not load recaptcha")
	}

	if cfg.RecaptchaSecret == "" {
		logrus.Warn("no recaptcha secret configured, sessions are issued without a bot check")
	}

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN, cfg.Store.MigrationsPath)
	if err != nil {
		logrus.WithError(err).Fatal("could not open the session store")
	}
	defer st.Close()

	clock := quartz.NewReal()
	random := rng.Crypto{}
	factory := gamefactory.New(cfg.GameOptions(), clock, random)
	hub := room.NewHub(logrus.StandardLogger(), clock, random)
	pitBoss := room.NewPitBoss(logrus.StandardLogger(), st, factory, clock, hub, cfg.SessionOptions())
	sweep := pitBoss.StartShift(ctx)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		ExposedHeaders: []string{"Card-Shoggoths-Session-ID"},
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      loggingHandler(cfg, c.Handler(mux.NewMux(Version, pitBoss, signer, captcha))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logrus.WithFields(logrus.Fields{
		"addr":  srv.Addr,
		"store": cfg.Store.Driver,
	}).Info("listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("server failed")
	}

	if err := sweep.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).Error("sweep stopped")
	}

	logrus.Info("shut down")
}

func newSigner(cfg config.Config) *jwt.Signer {
	secret := []byte(cfg.JWT.Secret)
	if len(secret) == 0 {
		logrus.Warn("no jwt secret configured, using an ephemeral secret; tokens will not survive a restart")

		var err error
		if secret, err = token.Secret(32); err != nil {
			logrus.WithError(err).Fatal("could not generate a jwt secret")
		}
	}

	signer, err := jwt.NewSigner(secret, cfg.JWT.TTL)
	if err != nil {
		logrus.WithError(err).Fatal("could not create the token signer")
	}

	return signer
}

func loggingHandler(cfg config.Config, next http.Handler) http.Handler {
	if cfg.Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	format := config.Instance().Log.Format
	if env := os.Getenv("LOG_FORMAT"); env != "" {
		format = env
	}

	if strings.ToLower(format) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
