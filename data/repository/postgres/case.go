package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/KotFed0t/wealth_tax_helper/data/repository"
	"github.com/KotFed0t/wealth_tax_helper/internal/converter/dbConverter"
	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/KotFed0t/wealth_tax_helper/internal/model/dbModel"
	"github.com/KotFed0t/wealth_tax_helper/utils"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

const uniqueViolation = "23505"

// GetCase returns the case, repository.ErrNotFound when there is none.
func (r *Postgres) GetCase(ctx context.Context) (c model.CaseData, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetCase"
	query := `SELECT case_id, payload, dt_update FROM case_data WHERE case_id = $1`

	slog.Debug("GetCase start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.Error("GetCase failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetCase completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	row := dbModel.Case{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, model.DefaultCaseID).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CaseData{}, repository.ErrNotFound
		}
		return model.CaseData{}, err
	}

	return dbConverter.ConvertCase(row)
}

// SaveCase replaces the stored case record. The case is a singleton, any other ID is overridden.
func (r *Postgres) SaveCase(ctx context.Context, c model.CaseData) (err error) {
	c.ID = model.DefaultCaseID

	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.SaveCase"
	query := `
		INSERT INTO case_data(case_id, payload, dt_update)
		VALUES ($1, $2, now())
		ON CONFLICT (case_id) DO UPDATE SET payload = EXCLUDED.payload, dt_update = now()`

	slog.Debug("SaveCase start", slog.String("rqID", rqID), slog.String("op", op), slog.String("caseID", c.ID))
	defer func() {
		if err != nil {
			slog.Error("SaveCase failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("SaveCase completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	row, err := dbConverter.ToDbCase(c)
	if err != nil {
		return err
	}

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, row.ID, row.Payload)
	return err
}

func mapPgErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrAlreadyExists
	}
	return err
}
