package postgres

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/wealth_tax_helper/internal/converter/dbConverter"
	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/KotFed0t/wealth_tax_helper/internal/model/dbModel"
	"github.com/KotFed0t/wealth_tax_helper/utils"
)

func (r *Postgres) GetDebts(ctx context.Context) (debts []model.DebtPosition, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetDebts"
	query := `
		SELECT position_id, ord, creditor, legal_basis, face_amount, due_date, interest_rate, collateral
		FROM debt_positions
		ORDER BY ord`

	slog.Debug("GetDebts start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetDebts failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetDebts completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(debts)))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debts = []model.DebtPosition{}
	for rows.Next() {
		var debt dbModel.Debt
		err = rows.StructScan(&debt)
		if err != nil {
			return nil, err
		}
		debts = append(debts, dbConverter.ConvertDebt(debt))
	}

	return debts, rows.Err()
}

// SaveDebts replaces the whole debt collection atomically.
func (r *Postgres) SaveDebts(ctx context.Context, debts []model.DebtPosition) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.SaveDebts"
	query := `
		INSERT INTO debt_positions(
			position_id, ord, creditor, legal_basis, face_amount, due_date, interest_rate, collateral
		)
		VALUES (
			:position_id, :ord, :creditor, :legal_basis, :face_amount, :due_date, :interest_rate, :collateral
		)`

	slog.Debug("SaveDebts start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(debts)))
	defer func() {
		if err != nil {
			slog.Error("SaveDebts failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("SaveDebts completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows := make([]dbModel.Debt, 0, len(debts))
	for i, d := range debts {
		row, err := dbConverter.ToDbDebt(d, i)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := r.txOrDb(ctx).ExecContext(ctx, `DELETE FROM debt_positions`); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := r.txOrDb(ctx).NamedExecContext(ctx, query, rows)
		return mapPgErr(err)
	})
}
