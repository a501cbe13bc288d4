package orchestrators

import (
	"context"
	"errors"
	"log/slog"
)

// CredentialStoreForLogin defines the store interface needed by Login.
type CredentialStoreForLogin interface {
	Verify(ctx context.Context, username, password string) bool
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	Username string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	CredentialStore CredentialStoreForLogin
}

var ErrInvalidCredentials = errors.New("invalid credentials")

// ExecuteLogin checks a teacher's username and password.
// PRE: none
// POST: Returns the username to put in the session, or ErrInvalidCredentials
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "missing_fields")
		return LoginResult{}, ErrInvalidCredentials
	}

	if !deps.CredentialStore.Verify(ctx, input.Username, input.Password) {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "mismatch")
		return LoginResult{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "username", input.Username)
	return LoginResult{Username: input.Username}, nil
}
