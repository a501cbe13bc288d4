package middleware

import (
	"context"
	"net/http"
	"net/url"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "teacher_session"

// TeacherCookieName holds the logged-in teacher's username.
const TeacherCookieName = "teacher_user"

// Session identifies the teacher behind a request.
type Session struct {
	Username string
}

// SessionTransport carries the session identity between requests.
type SessionTransport interface {
	// Token returns the identity presented by r, or "" when there is none.
	Token(r *http.Request) string
	// Issue makes later requests from this client carry username.
	Issue(w http.ResponseWriter, username string)
	// Clear removes the identity from the client.
	Clear(w http.ResponseWriter)
}

// TeacherDirectory answers whether a username belongs to a known teacher.
type TeacherDirectory interface {
	Exists(ctx context.Context, username string) bool
}

// CookieTransport stores the username itself in the teacher_user cookie.
// The value is neither signed nor encrypted: anyone who can set a cookie
// holding a known username is treated as that teacher. It is query-escaped
// so names with bytes net/http would drop from a cookie survive the trip.
type CookieTransport struct {
	Secure bool
}

// Token returns the username held in the teacher_user cookie.
// A value that does not unescape counts as no session.
func (c CookieTransport) Token(r *http.Request) string {
	cookie, err := r.Cookie(TeacherCookieName)
	if err != nil {
		return ""
	}
	username, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return username
}

// Issue sets the teacher_user cookie for the browser session.
// PRE: username has passed credential verification
// POST: Set-Cookie header added, HttpOnly, Path "/"
func (c CookieTransport) Issue(w http.ResponseWriter, username string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TeacherCookieName,
		Value:    url.QueryEscape(username),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

// Clear expires the teacher_user cookie.
func (c CookieTransport) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TeacherCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// Auth returns middleware that resolves the teacher for every request and
// stores the Session in the context when the identity names a known teacher.
// It never blocks; handlers decide what requires a teacher.
func Auth(transport SessionTransport, directory TeacherDirectory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if username := transport.Token(r); username != "" && directory.Exists(r.Context(), username) {
				r = r.WithContext(ContextWithSession(r.Context(), Session{Username: username}))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// IsTeacher reports whether the request was made by a known teacher.
func IsTeacher(ctx context.Context) bool {
	_, ok := GetSessionFromContext(ctx)
	return ok
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}
