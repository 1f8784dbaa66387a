package postgres

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/wealth_tax_helper/internal/converter/dbConverter"
	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/KotFed0t/wealth_tax_helper/internal/model/dbModel"
	"github.com/KotFed0t/wealth_tax_helper/utils"
)

func (r *Postgres) GetAssets(ctx context.Context) (assets []model.AssetPosition, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetAssets"
	query := `
		SELECT position_id, ord, category, identifier, name, quantity, unit_value,
		       position_value, valuation_method, valuation_date, source
		FROM asset_positions
		ORDER BY ord`

	slog.Debug("GetAssets start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetAssets failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetAssets completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(assets)))
		}
	}()

	rows := []dbModel.Asset{}
	err = r.txOrDb(ctx).SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	assets = make([]model.AssetPosition, 0, len(rows))
	for _, row := range rows {
		assets = append(assets, dbConverter.ConvertAsset(row))
	}

	return assets, nil
}

// SaveAssets replaces the whole asset collection atomically.
func (r *Postgres) SaveAssets(ctx context.Context, assets []model.AssetPosition) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.SaveAssets"
	query := `
		INSERT INTO asset_positions(
			position_id, ord, category, identifier, name, quantity, unit_value,
			position_value, valuation_method, valuation_date, source
		)
		VALUES (
			:position_id, :ord, :category, :identifier, :name, :quantity, :unit_value,
			:position_value, :valuation_method, :valuation_date, :source
		)`

	slog.Debug("SaveAssets start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(assets)))
	defer func() {
		if err != nil {
			slog.Error("SaveAssets failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("SaveAssets completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows := make([]dbModel.Asset, 0, len(assets))
	for i, a := range assets {
		row, err := dbConverter.ToDbAsset(a, i)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := r.txOrDb(ctx).ExecContext(ctx, `DELETE FROM asset_positions`); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := r.txOrDb(ctx).NamedExecContext(ctx, query, rows)
		return mapPgErr(err)
	})
}
