package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedEmail    = "admin@example.com"
	seedPassword = "changeme"
	seedPoints   = 1000
)

// seedAdmin creates the initial admin user if it does not exist yet.
func seedAdmin(db *sql.DB, log *logrus.Logger) error {
	var id string
	err := db.QueryRow(`SELECT id FROM users WHERE email = $1`, seedEmail).Scan(&id)
	if err == nil {
		log.WithField("user_id", id).Info("admin user already exists")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("could not look up admin user: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash seed password: %w", err)
	}

	err = db.QueryRow(`INSERT INTO users (email, password, firstname, lastname, points)
					   VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		seedEmail, string(passwordHash), "Admin", "User", seedPoints).Scan(&id)
	if err != nil {
		return fmt.Errorf("could not create admin user: %w", err)
	}

	log.WithField("user_id", id).Info("seeded admin user")
	return nil
}
