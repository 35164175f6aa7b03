package repository

import (
	"context"
	"database/sql"
	"fmt"

	"chemsolver/internal/entity"
)

// Repository 定義了所有資料庫操作的方法
// 這樣做的好處是方便 Service 層寫單元測試 (Mocking)
type Repository interface {
	// UserStats (XP / 解題數) 相關
	// 找不到時回傳 nil, nil，讓 Service 決定預設值
	GetUserStats(ctx context.Context, userID string) (*entity.UserStats, error)
	// AddXP 累加 XP 並回傳新的總額
	AddXP(ctx context.Context, userID string, amount int) (int, error)
	// IncrementSolved 解題數 +1 並回傳新的總數
	IncrementSolved(ctx context.Context, userID string) (int, error)

	// ChallengeLogs (流水帳) 相關
	CreateChallengeLog(ctx context.Context, log entity.ChallengeLog) error
	ListChallengeLogs(ctx context.Context, userID string, limit int) ([]entity.ChallengeLog, error)
	// RecordChallenge 在同一個 transaction 內發 XP (XPAwarded > 0 時) 並寫入流水帳，回傳新的 XP 總額
	RecordChallenge(ctx context.Context, log entity.ChallengeLog) (int, error)

	Close() error
}

// Open 依 driver 開啟資料庫並建立 schema
func Open(ctx context.Context, driver, dsn string) (Repository, error) {
	switch driver {
	case "postgres":
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return newPostgres(ctx, db)
	case "sqlite":
		return OpenSQLite(ctx, dsn)
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// runInTx 執行 fn，成功 Commit，失敗 Rollback
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func createSchemas(ctx context.Context, db *sql.DB, schemas []string) error {
	for _, query := range schemas {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
