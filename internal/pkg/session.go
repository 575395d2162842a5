package pkg

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SessionCookie is shared by the page, the JSON API and the websocket endpoint.
const SessionCookie = "user_session"

// GenerateNewSessionID - generates a new unique sessionID.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// SessionID - returns the session of the request, issuing a new id when the request has none
// or carries a value that is not a session id. The cookie is set on every call so its
// expiry slides with activity.
func SessionID(writer http.ResponseWriter, req *http.Request, ttl time.Duration) string {
	sessionID := ""
	if cookie, err := req.Cookie(SessionCookie); err == nil {
		if _, err = uuid.Parse(cookie.Value); err == nil {
			sessionID = cookie.Value
		}
	}

	if sessionID == "" {
		sessionID = GenerateNewSessionID()
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		Expires:  time.Now().Add(ttl),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return sessionID
}
