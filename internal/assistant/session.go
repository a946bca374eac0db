package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/linlv/internal/domain"
	"github.com/MrSnakeDoc/linlv/internal/logger"
)

// Options tunes a session.
type Options struct {
	Model   string        // default DefaultModel
	Timeout time.Duration // per request, 0 = no timeout
	Now     func() time.Time
}

// Session is one conversation: an append-only transcript and a two-state
// machine. At most one completion request is in flight at any time.
type Session struct {
	completer Completer
	logger    logger.Logger
	model     string
	timeout   time.Duration
	now       func() time.Time

	mu         sync.Mutex
	state      State
	transcript domain.Transcript
	lastActive time.Time
	retired    bool
}

// NewSession starts a session seeded with the greeting turn.
func NewSession(c Completer, log logger.Logger, opts Options) *Session {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		completer: c,
		logger:    log,
		model:     opts.Model,
		timeout:   opts.Timeout,
		now:       opts.Now,
	}
	s.seed()
	return s
}

func (s *Session) seed() {
	now := s.now()
	s.state = StateIdle
	s.transcript = domain.Transcript{{Role: domain.RoleAssistant, Text: Greeting, Timestamp: now}}
	s.lastActive = now
}

// Submit appends the user turn and starts the completion request.
//
// The returned channel delivers the single assistant turn produced for this
// submission and is then closed. Blank input yields ErrEmptyInput and a
// submission while a reply is pending yields ErrBusy; in both cases the
// transcript is unchanged.
//
// The request runs detached from ctx cancellation and is bounded by the
// session timeout instead.
func (s *Session) Submit(ctx context.Context, input string) (<-chan domain.ChatTurn, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	if s.retired {
		s.mu.Unlock()
		return nil, ErrRetired
	}
	if s.state == StateAwaitingResponse {
		s.mu.Unlock()
		return nil, ErrBusy
	}

	now := s.now()
	req := CompletionRequest{
		Model:             s.model,
		SystemInstruction: SystemInstruction,
		History:           s.transcript.Tail(HistoryTurns),
		Prompt:            text,
	}
	s.transcript = s.transcript.Append(domain.ChatTurn{Role: domain.RoleUser, Text: text, Timestamp: now})
	s.lastActive = now

	out := make(chan domain.ChatTurn, 1)

	if !s.completer.HasCredentials() {
		turn := domain.ChatTurn{Role: domain.RoleAssistant, Text: MissingCredentialsReply, Timestamp: now}
		s.transcript = s.transcript.Append(turn)
		s.mu.Unlock()

		out <- turn
		close(out)
		return out, nil
	}

	s.state = StateAwaitingResponse
	s.mu.Unlock()

	go s.complete(context.WithoutCancel(ctx), req, out)
	return out, nil
}

func (s *Session) complete(ctx context.Context, req CompletionRequest, out chan<- domain.ChatTurn) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.completer.Complete(ctx, req)
	switch {
	case err != nil:
		s.logger.Error("assistant request failed",
			logger.String("model", req.Model),
			logger.Error(err))
		reply = ConnectionErrorReply
	case strings.TrimSpace(reply) == "":
		reply = EmptyReply
	}

	s.mu.Lock()
	turn := domain.ChatTurn{Role: domain.RoleAssistant, Text: reply, Timestamp: s.now()}
	s.transcript = s.transcript.Append(turn)
	s.state = StateIdle
	s.lastActive = turn.Timestamp
	s.mu.Unlock()

	out <- turn
	close(out)
}

// Ask submits input and waits for the reply or for ctx to end. When ctx ends
// first the request keeps running and its reply still lands in the transcript.
func (s *Session) Ask(ctx context.Context, input string) (domain.ChatTurn, error) {
	ch, err := s.Submit(ctx, input)
	if err != nil {
		return domain.ChatTurn{}, err
	}

	select {
	case turn := <-ch:
		return turn, nil
	case <-ctx.Done():
		return domain.ChatTurn{}, ctx.Err()
	}
}

// Reset restores the seeded greeting. It fails with ErrBusy while a reply
// is pending.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.retired {
		return ErrRetired
	}
	if s.state == StateAwaitingResponse {
		return ErrBusy
	}
	s.seed()
	return nil
}

// Retire marks the session retired when it is idle, not awaiting a reply and
// untouched for at least ttl at now. The check and the mark happen under one
// lock, so a concurrent Submit either wins and keeps the session alive or
// fails with ErrRetired. It returns how long the session had been idle.
func (s *Session) Retire(now time.Time, ttl time.Duration) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idle := now.Sub(s.lastActive)
	if s.retired {
		return idle, true
	}
	if s.state == StateAwaitingResponse || idle < ttl {
		return idle, false
	}
	s.retired = true
	return idle, true
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() domain.Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Clone()
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastActive is the time of the last submission or reply.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
