package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

// --- Validation Middleware ---

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func ValidateRegisterRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := validateRegisterData(req); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		// The body is consumed; hand the decoded request to the handler.
		ctx := context.WithValue(r.Context(), registerRequestKey, req)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validateRegisterData(req RegisterRequest) error {
	if !emailRe.MatchString(req.Email) {
		return fmt.Errorf("invalid email format")
	}
	if len(req.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if req.Firstname == "" || req.Lastname == "" {
		return fmt.Errorf("firstname and lastname are required")
	}
	if req.Birthday != "" {
		if _, err := time.Parse("2006-01-02", req.Birthday); err != nil {
			return fmt.Errorf("birthday must be formatted as YYYY-MM-DD")
		}
	}
	return nil
}
