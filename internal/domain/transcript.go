package domain

import "time"

// Role is the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message of an assistant conversation.
type ChatTurn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is the ordered, append-only list of turns of one session.
type Transcript []ChatTurn

// Append returns the transcript with turn added at the end.
func (t Transcript) Append(turn ChatTurn) Transcript {
	return append(t, turn)
}

// Tail returns a copy of the last n turns, oldest first.
func (t Transcript) Tail(n int) []ChatTurn {
	if n <= 0 || len(t) == 0 {
		return []ChatTurn{}
	}
	start := len(t) - n
	if start < 0 {
		start = 0
	}
	out := make([]ChatTurn, len(t)-start)
	copy(out, t[start:])
	return out
}

// Clone returns an independent copy.
func (t Transcript) Clone() Transcript {
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}
