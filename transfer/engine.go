package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Engine moves points between users. A transfer either fully applies (debit,
// credit and ledger record committed together) or has no effect at all, even
// under concurrent transfers touching the same rows.
type Engine struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewEngine(db *sql.DB, log *logrus.Logger) *Engine {
	return &Engine{db: db, log: log}
}

// Transfer moves amount points from one user to another and appends the
// ledger record, all inside a single database transaction.
//
// The balance check happens on the value read under the row locks, not on
// any earlier snapshot: two concurrent transfers from the same account can
// therefore never both spend the same points. There are no internal retries;
// a conflict abort surfaces once as ErrTransferFailed and the caller decides
// whether to retry.
func (e *Engine) Transfer(ctx context.Context, fromUserID, toUserID string, amount int64) (*Record, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if fromUserID == toUserID {
		return nil, ErrSelfTransfer
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin transaction: %w", ErrTransferFailed, err)
	}
	// No-op after a successful commit.
	defer tx.Rollback()

	fromPoints, err := lockBalances(ctx, tx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if fromPoints < amount {
		return nil, ErrInsufficientPoints
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET points = points - $1, updated_at = NOW() WHERE id = $2`,
		amount, fromUserID); err != nil {
		return nil, fmt.Errorf("%w: could not debit source: %w", ErrTransferFailed, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET points = points + $1, updated_at = NOW() WHERE id = $2`,
		amount, toUserID); err != nil {
		return nil, fmt.Errorf("%w: could not credit destination: %w", ErrTransferFailed, err)
	}

	record := &Record{
		ID:         uuid.NewString(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Amount:     amount,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO point_transfers (id, from_user_id, to_user_id, amount, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.FromUserID, record.ToUserID, record.Amount, record.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: could not append ledger record: %w", ErrTransferFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: could not commit: %w", ErrTransferFailed, err)
	}

	e.log.WithFields(logrus.Fields{
		"transfer_id":  record.ID,
		"from_user_id": record.FromUserID,
		"to_user_id":   record.ToUserID,
		"amount":       record.Amount,
	}).Info("points transferred")

	return record, nil
}

// lockBalances reads both balances under FOR UPDATE row locks and returns the
// source balance. The locks are always acquired in ascending user-ID order,
// independent of transfer direction, so a concurrent reverse transfer cannot
// deadlock against this one.
func lockBalances(ctx context.Context, tx *sql.Tx, fromUserID, toUserID string) (int64, error) {
	first, second := fromUserID, toUserID
	if second < first {
		first, second = second, first
	}

	balances := make(map[string]int64, 2)
	for _, id := range []string{first, second} {
		var points int64
		err := tx.QueryRowContext(ctx,
			`SELECT points FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&points)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("%w: could not read balance: %w", ErrTransferFailed, err)
		}
		balances[id] = points
	}
	return balances[fromUserID], nil
}
