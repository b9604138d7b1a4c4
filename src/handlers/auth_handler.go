package handlers

import (
	"dtmoney-server/src/util"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Credentials is the single operator allowed to write through the API.
type Credentials struct {
	Username     string
	PasswordHash []byte // bcrypt
}

// Login exchanges the operator's username and password for a bearer token
// signed with secret.
func Login(creds Credentials, secret string, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn().Err(err).Msg("failed to decode login request body")
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if !strings.EqualFold(strings.TrimSpace(req.Username), creds.Username) {
			log.Warn().Str("username", req.Username).Str("remote", r.RemoteAddr).Msg("login for unknown user")
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		if err := bcrypt.CompareHashAndPassword(creds.PasswordHash, []byte(req.Password)); err != nil {
			log.Warn().Str("username", req.Username).Str("remote", r.RemoteAddr).Msg("invalid password attempt")
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		token, err := util.SignToken(secret, creds.Username, ttl)
		if err != nil {
			log.Error().Err(err).Str("username", creds.Username).Msg("failed to sign token")
			http.Error(w, "Error generating token", http.StatusInternalServerError)
			return
		}

		log.Info().Str("username", creds.Username).Msg("successful login")
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}
