// Package assistant runs chat sessions against a text-completion backend.
package assistant

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/linlv/internal/domain"
)

var (
	// ErrBusy is returned while a session waits for its previous reply.
	ErrBusy = errors.New("assistant is awaiting a response")
	// ErrEmptyInput is returned for blank submissions.
	ErrEmptyInput = errors.New("empty input")
	// ErrRetired is returned by a session the reaper has already dropped.
	ErrRetired = errors.New("assistant session retired")
	// ErrMissingCredentials is returned by a Completer without an API key.
	ErrMissingCredentials = errors.New("missing api credentials")
)

// CompletionRequest is one call to the completion backend.
type CompletionRequest struct {
	Model             string
	SystemInstruction string
	// History holds the turns preceding Prompt, oldest first.
	History []domain.ChatTurn
	Prompt  string
}

// Completer produces a reply for a request.
// An empty string with a nil error means the backend had nothing to say.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	HasCredentials() bool
}

// State is the session state machine.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingResponse State = "awaiting_response"
)
