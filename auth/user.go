package auth

import (
	"net/http"
)

// MeHandler returns the authenticated user's profile, including the current
// points balance.
func (env *Env) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r)
	if err != nil {
		RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	db := &DB{env.DB}
	user, err := db.GetUserByID(userID)
	if err != nil || user == nil {
		RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	JSON(w, http.StatusOK, user)
}
