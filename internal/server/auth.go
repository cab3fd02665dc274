package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/geoboard/leaderboard/internal/leaderboard"
)

var errNoSession = errors.New("no valid session")

const sessionCookieName = "player_session"

// playerFromRequest reads the player_session cookie and looks up the player.
func playerFromRequest(r *http.Request, store Store) (leaderboard.Player, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return leaderboard.Player{}, errNoSession
	}
	return store.PlayerFromSession(r.Context(), cookie.Value)
}

func setSessionCookie(w http.ResponseWriter, sessionID string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
