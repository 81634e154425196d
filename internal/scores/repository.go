package scores

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Record is one solved guessing case as persisted for statistics.
type Record struct {
	UserID   string
	UserName string
	Game     string
	ItemKey  string
	Attempts int
	Hints    int
	Elapsed  time.Duration
	SpeedRun bool
	SolvedAt time.Time
}

// Stats aggregates one user's history in one game.
type Stats struct {
	Solved   int
	Attempts int
	Hints    int
	Best     time.Duration
	Mean     time.Duration
}

// TopEntry is one leaderboard row.
type TopEntry struct {
	UserID   string
	UserName string
	Solved   int
}

// Repository persists solved cases to Postgres. A nil repository is a
// valid no-op so the bot runs without a database.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	r := &Repository{db: db}
	if err := r.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) ensureSchema(ctx context.Context) error {
	q := `CREATE TABLE IF NOT EXISTS guess_solved (
	    id BIGSERIAL PRIMARY KEY,
	    user_id TEXT NOT NULL,
	    user_name TEXT NOT NULL,
	    game TEXT NOT NULL,
	    item_key TEXT NOT NULL,
	    attempts INT NOT NULL,
	    hints INT NOT NULL,
	    elapsed_ms BIGINT NOT NULL,
	    speed_run BOOLEAN NOT NULL,
	    solved_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS guess_solved_user_game ON guess_solved (user_id, game);
	CREATE INDEX IF NOT EXISTS guess_solved_game ON guess_solved (game)`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// SaveSolved appends one solved case.
func (r *Repository) SaveSolved(ctx context.Context, rec Record) error {
	if r == nil || r.db == nil {
		return nil
	}
	solvedAt := rec.SolvedAt
	if solvedAt.IsZero() {
		solvedAt = time.Now()
	}
	q := `INSERT INTO guess_solved (
	    user_id, user_name, game, item_key, attempts, hints, elapsed_ms, speed_run, solved_at
	  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.db.ExecContext(ctx, q,
		rec.UserID, rec.UserName, rec.Game, rec.ItemKey,
		rec.Attempts, rec.Hints, rec.Elapsed.Milliseconds(), rec.SpeedRun, solvedAt,
	)
	return err
}

// UserStats aggregates one user's record in a game.
func (r *Repository) UserStats(ctx context.Context, userID, game string) (Stats, error) {
	var s Stats
	if r == nil || r.db == nil {
		return s, nil
	}
	q := `SELECT COUNT(*), COALESCE(SUM(attempts),0), COALESCE(SUM(hints),0),
	    COALESCE(MIN(elapsed_ms),0), COALESCE(AVG(elapsed_ms),0)
	  FROM guess_solved WHERE user_id = $1 AND game = $2`
	var bestMS int64
	var meanMS float64
	if err := r.db.QueryRowContext(ctx, q, userID, game).
		Scan(&s.Solved, &s.Attempts, &s.Hints, &bestMS, &meanMS); err != nil {
		return s, err
	}
	s.Best = time.Duration(bestMS) * time.Millisecond
	s.Mean = time.Duration(meanMS) * time.Millisecond
	return s, nil
}

// Top returns the users with most solved cases in a game, latest name
// wins when a user renamed themselves.
func (r *Repository) Top(ctx context.Context, game string, limit int) ([]TopEntry, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	q := `SELECT user_id,
	    (ARRAY_AGG(user_name ORDER BY solved_at DESC))[1],
	    COUNT(*) AS solved
	  FROM guess_solved WHERE game = $1
	  GROUP BY user_id ORDER BY solved DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, game, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TopEntry
	for rows.Next() {
		var e TopEntry
		if err := rows.Scan(&e.UserID, &e.UserName, &e.Solved); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
