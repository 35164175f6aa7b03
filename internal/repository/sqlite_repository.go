package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"chemsolver/internal/entity"
)

// sqliteRepository 給本機開發與測試用，時間一律存 unix 毫秒
type sqliteRepository struct {
	db *sql.DB
}

var sqliteSchemas = []string{
	`CREATE TABLE IF NOT EXISTS user_stats (
		user_id    TEXT PRIMARY KEY,
		xp         INTEGER NOT NULL DEFAULT 0,
		solved     INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS challenge_logs (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		mode         TEXT NOT NULL,
		score        INTEGER NOT NULL,
		correct      INTEGER NOT NULL,
		total        INTEGER NOT NULL,
		xp_awarded   INTEGER NOT NULL,
		completed_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_challenge_logs_user ON challenge_logs(user_id, completed_at);`,
}

// OpenSQLite 開啟 (必要時建立) 本機 SQLite 資料庫。
// dsn 為 ":memory:" 時使用記憶體資料庫 (測試用)。
func OpenSQLite(ctx context.Context, dsn string) (Repository, error) {
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// 記憶體資料庫每條連線都是獨立的 DB，只能用一條連線
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := createSchemas(ctx, db, sqliteSchemas); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteRepository{db: db}, nil
}

func (r *sqliteRepository) GetUserStats(ctx context.Context, userID string) (*entity.UserStats, error) {
	query := `SELECT user_id, xp, solved, updated_at FROM user_stats WHERE user_id = ?`

	var (
		s       entity.UserStats
		updated int64
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.UserID, &s.XP, &s.Solved, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.UpdatedAt = time.UnixMilli(updated).UTC()
	return &s, nil
}

const sqliteAddXPQuery = `
	INSERT INTO user_stats (user_id, xp, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT (user_id) DO UPDATE SET
		xp = user_stats.xp + excluded.xp,
		updated_at = excluded.updated_at
	RETURNING xp
`

func (r *sqliteRepository) AddXP(ctx context.Context, userID string, amount int) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, sqliteAddXPQuery, userID, amount, time.Now().UnixMilli()).Scan(&total)
	return total, err
}

func (r *sqliteRepository) IncrementSolved(ctx context.Context, userID string) (int, error) {
	query := `
		INSERT INTO user_stats (user_id, solved, updated_at)
		VALUES (?, 1, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			solved = user_stats.solved + 1,
			updated_at = excluded.updated_at
		RETURNING solved
	`
	var total int
	err := r.db.QueryRowContext(ctx, query, userID, time.Now().UnixMilli()).Scan(&total)
	return total, err
}

const sqliteInsertLogQuery = `
	INSERT INTO challenge_logs (id, user_id, mode, score, correct, total, xp_awarded, completed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func (r *sqliteRepository) CreateChallengeLog(ctx context.Context, log entity.ChallengeLog) error {
	_, err := r.db.ExecContext(ctx, sqliteInsertLogQuery,
		log.ID, log.UserID, log.Mode, log.Score, log.Correct, log.Total, log.XPAwarded, log.CompletedAt.UnixMilli(),
	)
	return err
}

func (r *sqliteRepository) RecordChallenge(ctx context.Context, log entity.ChallengeLog) (int, error) {
	var total int
	err := runInTx(ctx, r.db, func(tx *sql.Tx) error {
		if log.XPAwarded > 0 {
			if err := tx.QueryRowContext(ctx, sqliteAddXPQuery, log.UserID, log.XPAwarded, time.Now().UnixMilli()).Scan(&total); err != nil {
				return fmt.Errorf("add xp: %w", err)
			}
		} else {
			err := tx.QueryRowContext(ctx, `SELECT xp FROM user_stats WHERE user_id = ?`, log.UserID).Scan(&total)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("read xp: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, sqliteInsertLogQuery,
			log.ID, log.UserID, log.Mode, log.Score, log.Correct, log.Total, log.XPAwarded, log.CompletedAt.UnixMilli(),
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

func (r *sqliteRepository) ListChallengeLogs(ctx context.Context, userID string, limit int) ([]entity.ChallengeLog, error) {
	query := `
		SELECT id, user_id, mode, score, correct, total, xp_awarded, completed_at
		FROM challenge_logs
		WHERE user_id = ?
		ORDER BY completed_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []entity.ChallengeLog
	for rows.Next() {
		var (
			l         entity.ChallengeLog
			completed int64
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.Mode, &l.Score, &l.Correct, &l.Total, &l.XPAwarded, &completed); err != nil {
			return nil, err
		}
		l.CompletedAt = time.UnixMilli(completed).UTC()
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *sqliteRepository) Close() error {
	return r.db.Close()
}
