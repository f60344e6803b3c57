package transfer

import "time"

// --- Models ---

// Record is one completed points movement. Rows in point_transfers are
// append-only: a record exists exactly when the debit and credit committed.
type Record struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	Amount     int64     `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

// Request is the body of POST /transfer. The source account is always the
// authenticated caller.
type Request struct {
	ToUserID string `json:"to_user_id"`
	Amount   int64  `json:"amount"`
}
