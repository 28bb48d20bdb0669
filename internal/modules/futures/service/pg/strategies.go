package pg

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"

	"pionex_bot/internal/models"
	"pionex_bot/pkg/db"
)

// Strategies implement db store
type Strategies struct {
	db *db.PgTxManager
}

// NewStrategies instance
func NewStrategies(txm *db.PgTxManager) *Strategies {
	return &Strategies{db: txm}
}

// AddActiveStrategy вставляет запись стратегии целиком как JSONB и
// возвращает присвоенный id.
func (s *Strategies) AddActiveStrategy(
	ctx context.Context,
	userID string,
	symbol string,
	kind models.StrategyKind,
	record any,
) (id int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.AddActiveStrategy: %w", err)
		}
	}()

	var data []byte
	data, err = sonic.Marshal(record)
	if err != nil {
		return 0, err
	}

	err = s.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			return tx.QueryRow(ctxTx,
				`INSERT INTO active_strategies (user_id, symbol, kind, record, active, created_at)
				 VALUES ($1, $2, $3, $4, true, now())
				 RETURNING id`,
				userID, symbol, string(kind), data,
			).Scan(&id)
		})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// DeactivateStrategy помечает запись неактивной. Схему не трогаем.
func (s *Strategies) DeactivateStrategy(ctx context.Context, id int64) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.DeactivateStrategy: %w", err)
		}
	}()

	return s.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			_, err := tx.Exec(ctxTx,
				`UPDATE active_strategies SET active = false, deactivated_at = now() WHERE id = $1`,
				id,
			)
			return err
		})
}
