package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/critcoin/critcoin-api/internal/models"
)

// LiveStateRepository reads and purges the live platform collections. The
// tables are written by the CRUD service; this repository never inserts.
type LiveStateRepository struct {
	db *sqlx.DB
}

// NewLiveStateRepository constructs the repository.
func NewLiveStateRepository(db *sqlx.DB) *LiveStateRepository {
	return &LiveStateRepository{db: db}
}

// Counts returns the size of every live collection.
func (r *LiveStateRepository) Counts(ctx context.Context) (*models.LiveCounts, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM profiles) AS profiles,
	(SELECT COUNT(*) FROM projects) AS projects,
	(SELECT COUNT(*) FROM posts) AS posts,
	(SELECT COUNT(*) FROM comments) AS comments,
	(SELECT COUNT(*) FROM transactions) AS transactions,
	(SELECT COUNT(*) FROM bounties) AS bounties`
	var counts models.LiveCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count live collections: %w", err)
	}
	return &counts, nil
}

// Snapshot reads every live collection inside one read-only repeatable-read
// transaction so the result reflects a single point in time.
func (r *LiveStateRepository) Snapshot(ctx context.Context) (snapshot *models.LiveSnapshot, err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	snapshot = &models.LiveSnapshot{}
	if err = tx.SelectContext(ctx, &snapshot.Profiles, `SELECT id, wallet_address, COALESCE(name, '') AS name, COALESCE(photo, '') AS photo,
       COALESCE(bio, '') AS bio, created_at, updated_at
	FROM profiles ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("snapshot profiles: %w", err)
	}
	if err = tx.SelectContext(ctx, &snapshot.Projects, `SELECT id, wallet_address, title, COALESCE(description, '') AS description, slot,
       COALESCE(link, '') AS link, COALESCE(image, '') AS image, total_received, created_at
	FROM projects ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("snapshot projects: %w", err)
	}
	if err = tx.SelectContext(ctx, &snapshot.Posts, `SELECT id, wallet_address, title, content, created_at
	FROM posts ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("snapshot posts: %w", err)
	}
	if err = tx.SelectContext(ctx, &snapshot.Comments, `SELECT id, post_id, parent_id, wallet_address, content, created_at
	FROM comments ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("snapshot comments: %w", err)
	}
	if err = tx.SelectContext(ctx, &snapshot.Transactions, `SELECT id, from_wallet, to_wallet, amount, COALESCE(tx_hash, '') AS tx_hash,
       COALESCE(memo, '') AS memo, created_at
	FROM transactions ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("snapshot transactions: %w", err)
	}
	if err = tx.SelectContext(ctx, &snapshot.Bounties, `SELECT id, wallet_address, title, COALESCE(description, '') AS description, reward,
       status, claimed_by, created_at
	FROM bounties ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("snapshot bounties: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot tx: %w", err)
	}
	return snapshot, nil
}

// Clear deletes every live row except the profile owned by keepWallet. All
// deletes share one transaction; children go before parents.
func (r *LiveStateRepository) Clear(ctx context.Context, keepWallet string) (counts *models.ClearedCounts, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin clear tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	counts = &models.ClearedCounts{}
	steps := []struct {
		name  string
		query string
		args  []interface{}
		dest  *int64
	}{
		{"comments", `DELETE FROM comments`, nil, &counts.Comments},
		{"posts", `DELETE FROM posts`, nil, &counts.Posts},
		{"projects", `DELETE FROM projects`, nil, &counts.Projects},
		{"transactions", `DELETE FROM transactions`, nil, &counts.Transactions},
		{"bounties", `DELETE FROM bounties`, nil, &counts.Bounties},
		{"profiles", `DELETE FROM profiles WHERE lower(wallet_address) <> lower($1)`, []interface{}{keepWallet}, &counts.Profiles},
	}
	for _, step := range steps {
		res, execErr := tx.ExecContext(ctx, step.query, step.args...)
		if execErr != nil {
			err = fmt.Errorf("clear %s: %w", step.name, execErr)
			return nil, err
		}
		affected, rowsErr := res.RowsAffected()
		if rowsErr != nil {
			err = fmt.Errorf("clear %s rows: %w", step.name, rowsErr)
			return nil, err
		}
		*step.dest = affected
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit clear tx: %w", err)
	}
	return counts, nil
}
