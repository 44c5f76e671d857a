package server

import "net/http"

// RegisterResponse is the anonymous player credential pair.
type RegisterResponse struct {
	PlayerID string `json:"playerId"`
	Token    string `json:"token"`
}

func handleRegister(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, token, err := store.CreatePlayer(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, RegisterResponse{PlayerID: playerID, Token: token})
	}
}
