package transfer

import (
	"encoding/json"
	"errors"
	"net/http"

	"points-ledger/auth"
)

// --- Handlers ---

type Env struct {
	Engine *Engine
}

// TransferHandler moves points from the authenticated caller to another user.
func (env *Env) TransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r)
	if err != nil {
		auth.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := env.Engine.Transfer(r.Context(), userID, req.ToUserID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrSelfTransfer):
			auth.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrUserNotFound):
			auth.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrInsufficientPoints):
			auth.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			// Storage details stay server-side.
			auth.RespondWithError(w, http.StatusInternalServerError, "Transfer failed")
		}
		return
	}

	auth.JSON(w, http.StatusCreated, record)
}
