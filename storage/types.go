// Package storage provides exchange history persistence for chat
// sessions. The dispatch core itself does not persist anything; the CLI
// chat loop records exchanges here so sessions can resume.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Exchange is one completed request/reply pair.
type Exchange struct {
	ID        string
	SessionID string
	Request   string
	Reply     string
	Provider  string
	Elapsed   time.Duration
	CreatedAt time.Time
}

// NewExchange creates an exchange with a fresh id and timestamp.
func NewExchange(sessionID, request, reply, provider string, elapsed time.Duration) Exchange {
	return Exchange{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Request:   request,
		Reply:     reply,
		Provider:  provider,
		Elapsed:   elapsed,
		CreatedAt: time.Now().UTC(),
	}
}

// HistoryStore persists exchanges per session.
type HistoryStore interface {
	// Append records one exchange.
	Append(ctx context.Context, ex Exchange) error

	// Recent returns up to limit exchanges for a session, oldest first.
	Recent(ctx context.Context, sessionID string, limit int) ([]Exchange, error)

	// Sessions lists all known session ids.
	Sessions(ctx context.Context) ([]string, error)

	// Delete removes every exchange for a session.
	Delete(ctx context.Context, sessionID string) error
}
