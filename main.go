package main

import (
	"database/sql"
	"flag"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"

	"points-ledger/auth"
	"points-ledger/config"
	"points-ledger/migrations"
	"points-ledger/transfer"
)

func main() {
	seed := flag.Bool("seed", false, "seed the initial admin user and exit")
	flag.Parse()

	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("could not load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	auth.SetSigningKey(cfg.JWTSecret)

	// Open a connection to the database
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.WithError(err).Fatal("could not open database")
	}
	defer db.Close()

	// Ping the database to verify the connection
	if err := db.Ping(); err != nil {
		log.WithError(err).Fatal("could not connect to database")
	}
	log.Info("connected to the database")

	if err := migrations.Run(db); err != nil {
		log.WithError(err).Fatal("could not apply migrations")
	}

	if *seed {
		if err := seedAdmin(db, log); err != nil {
			log.WithError(err).Fatal("could not seed admin user")
		}
		return
	}

	authEnv := &auth.Env{DB: db}
	transferEnv := &transfer.Env{Engine: transfer.NewEngine(db, log)}

	rateLimiter := auth.NewRateLimiter()

	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "Welcome to the Points Ledger!")
	})

	// Auth routes
	mux.Handle("/auth/register", auth.ValidateRegisterRequest(http.HandlerFunc(authEnv.RegisterHandler)))
	mux.Handle("/auth/login", rateLimiter.Middleware(http.HandlerFunc(authEnv.LoginHandler)))

	// Authenticated routes
	mux.Handle("/me", auth.AuthMiddleware(http.HandlerFunc(authEnv.MeHandler)))
	mux.Handle("/transfer", auth.AuthMiddleware(http.HandlerFunc(transferEnv.TransferHandler)))

	log.WithField("addr", cfg.HTTPAddr).Info("starting server")
	if err := http.ListenAndServe(cfg.HTTPAddr, auth.Logger(log, mux)); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
