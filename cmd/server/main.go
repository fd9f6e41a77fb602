package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"dealmein-server/internal/config"
	"dealmein-server/internal/jwt"
	"dealmein-server/internal/mux"
	"dealmein-server/pkg/db"
	"dealmein-server/pkg/holdem"
	"dealmein-server/pkg/model"
	"dealmein-server/pkg/room"
	"dealmein-server/pkg/store"
	"dealmein-server/pkg/tournament"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	cfg := config.Instance()
	setupLogger(cfg)

	// fail fast
	signer, err := jwt.LoadSigner(cfg.JWT.PrivateKey, cfg.JWT.PublicKey, cfg.JWT.TTL)
	if err != nil {
		logrus.WithError(err).Fatal("could not load the jwt keys")
	}

	// accounts always live in postgres
	if err := db.Migrate(); err != nil {
		logrus.WithError(err).Fatal("could not run the migrations")
	}

	documents := newStore(cfg)
	engine := holdem.NewEngine(nil, nil)
	director := tournament.NewDirector(documents, engine, nil, logrus.WithField("component", "director"))
	hub := room.NewHub(director, logrus.WithField("component", "hub"))
	pitBoss := room.NewPitBoss(director, hub, cfg.Engine.TickInterval, logrus.WithField("component", "pitboss"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	pitBoss.StartShift(ctx)

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(cfg, c.Handler(mux.NewMux(Version, signer, model.NewAccounts(db.Instance()), pitBoss))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logrus.WithField("addr", srv.Addr).WithField("store", cfg.Store).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func newStore(cfg config.Config) store.Store {
	if cfg.Store == config.StoreMemory {
		logrus.Warn("using the memory store, tournaments are lost on restart")
		return store.NewMemory()
	}

	return store.NewPostgres(db.Instance())
}

func loggingHandler(cfg config.Config, next http.Handler) http.Handler {
	if cfg.Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger(cfg config.Config) {
	if lvl := cfg.Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(cfg.Log.Format) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
