package pedidorepo

import (
	"context"
	"database/sql"
	"time"

	"pranchashop/internal/errors"
	"pranchashop/internal/pkg/logger"
)

// runInTx abre a transação, executa fn e faz commit; qualquer erro (ou panic) desfaz.
func runInTx(ctx context.Context, db *sql.DB, timeout time.Duration, log logger.Logger, fn func(tx *sql.Tx) error) (err error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tx, err := db.BeginTx(ctxTimeout, nil)
	if err != nil {
		log.Error("Falha ao iniciar transação.", err)
		return errors.NewDBError("Falha ao iniciar transação", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				log.Error("Falha ao desfazer transação.", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Error("Falha ao confirmar transação.", err)
		return errors.NewDBError("Falha ao confirmar transação", err)
	}
	return nil
}
