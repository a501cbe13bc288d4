package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"mergington/internal/adapters/http/middleware"
	"mergington/internal/application/orchestrators"
	"mergington/internal/application/projections"
	"mergington/internal/domain/activity"
)

// Client-facing error messages.
const (
	msgSignupLoginRequired     = "Teacher login required to sign up students"
	msgUnregisterLoginRequired = "Teacher login required to unregister students"
	msgActivityNotFound        = "Activity not found"
	msgAlreadySignedUp         = "Student is already signed up"
	msgNotSignedUp             = "Student is not signed up for this activity"
	msgEmailRequired           = "Student email is required"
	msgInvalidCredentials      = "Invalid credentials"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Detail string `json:"detail"`
}

type messageBody struct {
	Message string `json:"message"`
}

type loginBody struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type statusBody struct {
	IsTeacher bool `json:"is_teacher"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response_write_failed", "error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error",
		"request_id", middleware.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error(),
	)
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

// rosterError maps signup/unregister failures to their HTTP responses.
func rosterError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, activity.ErrNotFound):
		writeError(w, http.StatusNotFound, msgActivityNotFound)
	case errors.Is(err, activity.ErrAlreadySignedUp):
		writeError(w, http.StatusBadRequest, msgAlreadySignedUp)
	case errors.Is(err, activity.ErrNotSignedUp):
		writeError(w, http.StatusBadRequest, msgNotSignedUp)
	default:
		internalError(w, r, err)
	}
}

// emailParam returns the email query parameter exactly as sent. Only a
// missing parameter is rejected; an empty value is a valid (if odd) email.
func emailParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	q := r.URL.Query()
	if !q.Has("email") {
		writeError(w, http.StatusBadRequest, msgEmailRequired)
		return "", false
	}
	return q.Get("email"), true
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Not Found")
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// handleRoot sends browsers to the landing page.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}

// handleGetActivities handles GET /activities.
func (a *app) handleGetActivities(w http.ResponseWriter, r *http.Request) {
	views, err := projections.QueryGetActivities(r.Context(), projections.GetActivitiesDeps{
		ActivityStore: a.stores.ActivityStore,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// handleSignup handles POST /activities/{activity_name}/signup?email=.
func (a *app) handleSignup(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgSignupLoginRequired)
		return
	}

	studentEmail, ok := emailParam(w, r)
	if !ok {
		return
	}

	result, err := orchestrators.ExecuteSignup(r.Context(), orchestrators.SignupInput{
		ActivityName: mux.Vars(r)["activity_name"],
		Email:        studentEmail,
		Teacher:      session.Username,
	}, orchestrators.SignupDeps{
		ActivityStore: a.stores.ActivityStore,
		Sender:        a.sender,
	})
	if err != nil {
		rosterError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: result.Message})
}

// handleUnregister handles DELETE /activities/{activity_name}/unregister?email=.
func (a *app) handleUnregister(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnregisterLoginRequired)
		return
	}

	studentEmail, ok := emailParam(w, r)
	if !ok {
		return
	}

	result, err := orchestrators.ExecuteUnregister(r.Context(), orchestrators.UnregisterInput{
		ActivityName: mux.Vars(r)["activity_name"],
		Email:        studentEmail,
		Teacher:      session.Username,
	}, orchestrators.UnregisterDeps{
		ActivityStore: a.stores.ActivityStore,
		Sender:        a.sender,
	})
	if err != nil {
		rosterError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: result.Message})
}

// handleLogin handles POST /login with form fields username and password.
// Both urlencoded and multipart bodies are accepted; a missing field fails
// the same way as a wrong password.
func (a *app) handleLogin(w http.ResponseWriter, r *http.Request) {
	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}, orchestrators.LoginDeps{
		CredentialStore: a.stores.TeacherStore,
	})
	if errors.Is(err, orchestrators.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}

	a.transport.Issue(w, result.Username)
	writeJSON(w, http.StatusOK, loginBody{Message: "ok", Username: result.Username})
}

// handleLogout handles POST /logout. It succeeds whether or not anyone was logged in.
func (a *app) handleLogout(w http.ResponseWriter, r *http.Request) {
	if session, ok := middleware.GetSessionFromContext(r.Context()); ok {
		slog.Info("auth_event", "event", "logout", "username", session.Username)
	}
	a.transport.Clear(w)
	writeJSON(w, http.StatusOK, messageBody{Message: "logged out"})
}

// handleAuthStatus handles GET /auth/status.
func (a *app) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	if token := middleware.CSRFToken(r); token != "" {
		w.Header().Set(middleware.CSRFTokenHeader, token)
	}
	writeJSON(w, http.StatusOK, statusBody{IsTeacher: middleware.IsTeacher(r.Context())})
}
