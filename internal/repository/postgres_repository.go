package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL Driver (Supabase)

	"chemsolver/internal/entity"
)

type postgresRepository struct {
	db *sql.DB
}

var postgresSchemas = []string{
	`CREATE TABLE IF NOT EXISTS user_stats (
		user_id    TEXT PRIMARY KEY,
		xp         INTEGER NOT NULL DEFAULT 0,
		solved     INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS challenge_logs (
		id           UUID PRIMARY KEY,
		user_id      TEXT NOT NULL,
		mode         TEXT NOT NULL,
		score        INTEGER NOT NULL,
		correct      INTEGER NOT NULL,
		total        INTEGER NOT NULL,
		xp_awarded   INTEGER NOT NULL,
		completed_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_challenge_logs_user ON challenge_logs (user_id, completed_at DESC)`,
}

// NewPostgresRepository 是建構函式，db 由呼叫端負責開啟
func NewPostgresRepository(ctx context.Context, db *sql.DB) (Repository, error) {
	return newPostgres(ctx, db)
}

func newPostgres(ctx context.Context, db *sql.DB) (Repository, error) {
	// 強制送出 Ping 測試真實連線
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := createSchemas(ctx, db, postgresSchemas); err != nil {
		db.Close()
		return nil, err
	}
	return &postgresRepository{db: db}, nil
}

// -------------------------------------------------------
// UserStats 實作
// -------------------------------------------------------

func (r *postgresRepository) GetUserStats(ctx context.Context, userID string) (*entity.UserStats, error) {
	query := `SELECT user_id, xp, solved, updated_at FROM user_stats WHERE user_id = $1`

	var s entity.UserStats
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.UserID, &s.XP, &s.Solved, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

const pgAddXPQuery = `
	INSERT INTO user_stats (user_id, xp, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (user_id) DO UPDATE SET
		xp = user_stats.xp + EXCLUDED.xp,
		updated_at = EXCLUDED.updated_at
	RETURNING xp
`

func (r *postgresRepository) AddXP(ctx context.Context, userID string, amount int) (int, error) {
	// 不存在就 Insert，存在就累加 (ON CONFLICT)
	var total int
	err := r.db.QueryRowContext(ctx, pgAddXPQuery, userID, amount).Scan(&total)
	return total, err
}

func (r *postgresRepository) IncrementSolved(ctx context.Context, userID string) (int, error) {
	query := `
		INSERT INTO user_stats (user_id, solved, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			solved = user_stats.solved + 1,
			updated_at = EXCLUDED.updated_at
		RETURNING solved
	`
	var total int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&total)
	return total, err
}

// -------------------------------------------------------
// ChallengeLogs 實作
// -------------------------------------------------------

const pgInsertLogQuery = `
	INSERT INTO challenge_logs (id, user_id, mode, score, correct, total, xp_awarded, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (r *postgresRepository) CreateChallengeLog(ctx context.Context, log entity.ChallengeLog) error {
	_, err := r.db.ExecContext(ctx, pgInsertLogQuery,
		log.ID, log.UserID, log.Mode, log.Score, log.Correct, log.Total, log.XPAwarded, log.CompletedAt,
	)
	return err
}

func (r *postgresRepository) RecordChallenge(ctx context.Context, log entity.ChallengeLog) (int, error) {
	var total int
	err := runInTx(ctx, r.db, func(tx *sql.Tx) error {
		// 1. 發 XP (0 分只讀目前總額，不建立 user_stats)
		if log.XPAwarded > 0 {
			if err := tx.QueryRowContext(ctx, pgAddXPQuery, log.UserID, log.XPAwarded).Scan(&total); err != nil {
				return fmt.Errorf("add xp: %w", err)
			}
		} else {
			err := tx.QueryRowContext(ctx, `SELECT xp FROM user_stats WHERE user_id = $1`, log.UserID).Scan(&total)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("read xp: %w", err)
			}
		}

		// 2. 寫流水帳
		if _, err := tx.ExecContext(ctx, pgInsertLogQuery,
			log.ID, log.UserID, log.Mode, log.Score, log.Correct, log.Total, log.XPAwarded, log.CompletedAt,
		); err != nil {
			return fmt.Errorf("insert challenge log: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *postgresRepository) ListChallengeLogs(ctx context.Context, userID string, limit int) ([]entity.ChallengeLog, error) {
	query := `
		SELECT id, user_id, mode, score, correct, total, xp_awarded, completed_at
		FROM challenge_logs
		WHERE user_id = $1
		ORDER BY completed_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []entity.ChallengeLog
	for rows.Next() {
		var l entity.ChallengeLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Mode, &l.Score, &l.Correct, &l.Total, &l.XPAwarded, &l.CompletedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *postgresRepository) Close() error {
	return r.db.Close()
}
