package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// YachtScope wraps a connection with yacht context and ensures cleanup.
// The connection has app.current_yacht_id set for RLS policy evaluation.
// RLS is defense in depth only: every statement the planner emits still
// carries its own yacht_id predicate.
type YachtScope struct {
	Conn *pgxpool.Conn
}

// Close resets the yacht context and releases the connection to the pool.
// This MUST be called to prevent yacht context leaking to the next request.
func (s *YachtScope) Close() {
	if s.Conn == nil {
		return
	}
	_, _ = s.Conn.Exec(context.Background(), "RESET app.current_yacht_id")
	s.Conn.Release()
}

// WithYacht acquires a connection and sets the yacht context for RLS.
// The returned YachtScope MUST be closed with defer scope.Close().
func (db *DB) WithYacht(ctx context.Context, yachtID uuid.UUID) (*YachtScope, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	_, err = conn.Exec(ctx, "SELECT set_config('app.current_yacht_id', $1, false)", yachtID.String())
	if err != nil {
		conn.Release()
		return nil, err
	}

	return &YachtScope{Conn: conn}, nil
}
