package services

import (
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
)

// inTx runs fn in a transaction. When dbc already carries one, fn runs in a
// nested savepoint.
func inTx(db *gorm.DB, dbc dbctx.Context, fn func(inner dbctx.Context) error) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = db
	}
	return dbc.DB(transaction).Transaction(func(txx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: dbc.Ctx, Tx: txx})
	})
}
