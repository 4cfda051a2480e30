package sec

import "net/http"

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// sessionCookie builds the canonical session cookie. Attach and Clear must use
// identical HttpOnly/Secure/SameSite attributes or some browsers refuse to
// drop the cookie on clear.
func sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// AttachSession writes the session token cookie to the response. SameSite=None
// plus Secure is required for the cookie to be sent at all from the cross-site
// web client; HttpOnly keeps it out of reach of script.
func AttachSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, sessionCookie(token, int(SessionTTL.Seconds())))
}

// ReadSession extracts the session token from the request cookie. It returns
// an empty string and false when no session cookie is present.
func ReadSession(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// ClearSession overwrites the session cookie with a negative max-age so the
// browser discards it. The token itself stays cryptographically valid until
// expiry; clearing only removes the client's copy.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, sessionCookie("", -1))
}
