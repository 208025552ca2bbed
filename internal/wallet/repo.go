package wallet

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNoAccount           = errors.New("wallet account not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Balance(ctx context.Context, userID string) (decimal.Decimal, string, error) {
	var (
		balance  decimal.Decimal
		currency string
	)
	err := r.DB.QueryRow(ctx, `
		SELECT balance, currency FROM wallet_accounts WHERE user_id=$1`, userID).
		Scan(&balance, &currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, "", ErrNoAccount
	}
	return balance, currency, err
}

// DebitTx takes amount off the account inside the caller's transaction. The
// balance guard lives in the UPDATE so concurrent debits cannot overdraw.
func (r *Repo) DebitTx(ctx context.Context, tx pgx.Tx, userID string, amount decimal.Decimal) error {
	ct, err := tx.Exec(ctx, `
		UPDATE wallet_accounts SET balance = balance - $2, updated_at=NOW()
		WHERE user_id=$1 AND balance >= $2`, userID, amount)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM wallet_accounts WHERE user_id=$1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNoAccount
	}
	return ErrInsufficientBalance
}
