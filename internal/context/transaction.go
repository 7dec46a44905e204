package context

import (
	"context"

	"gorm.io/gorm"
)

type contextKey string

const (
	TRANSACTION_KEY contextKey = "transaction"
)

// GetTransaction returns the transaction carried by the context, if any.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(TRANSACTION_KEY).(*gorm.DB)
	return tx, ok
}

// WithTransaction returns a context carrying the given transaction.
func WithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, TRANSACTION_KEY, tx)
}
