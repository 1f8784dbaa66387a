package fxApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/KotFed0t/wealth_tax_helper/config"
	"github.com/KotFed0t/wealth_tax_helper/internal/externalApi"
	"github.com/KotFed0t/wealth_tax_helper/internal/model/fxModel"
	"github.com/KotFed0t/wealth_tax_helper/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const latest = "latest"

type FxApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *FxApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.FxApi.Url)
	return &FxApi{client: client}
}

// GetRate returns the reference rate for one unit of from in to on date (YYYY-MM-DD,
// empty for the latest fixing).
func (a *FxApi) GetRate(ctx context.Context, from, to, date string) (fxModel.Rate, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FxApi.GetRate"

	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if date == "" {
		date = latest
	}

	if from == to {
		return fxModel.Rate{From: from, To: to, Date: date, Value: decimal.NewFromInt(1)}, nil
	}

	slog.Debug("start FxApi.GetRate request", slog.String("rqID", rqID), slog.String("op", op),
		slog.String("from", from), slog.String("to", to), slog.String("date", date))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetPathParam("date", date).
		SetQueryParams(map[string]string{"from": from, "to": to}).
		Get("/{date}")
	if err != nil {
		slog.Error("error while dialing FxApi", slog.String("err", err.Error()), slog.String("rqID", rqID), slog.String("op", op))
		return fxModel.Rate{}, err
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound || resp.StatusCode() == http.StatusUnprocessableEntity:
		return fxModel.Rate{}, externalApi.ErrNotFound
	case resp.IsError():
		slog.Error("FxApi responded with error", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqID), slog.String("op", op))
		return fxModel.Rate{}, fmt.Errorf("%w: %d", externalApi.ErrUnexpectedCode, resp.StatusCode())
	}

	rates := fxModel.RatesResponse{}
	err = json.Unmarshal(resp.Body(), &rates)
	if err != nil {
		slog.Error("can't unmarshall response into fxModel.RatesResponse", slog.String("err", err.Error()), slog.String("rqID", rqID), slog.String("op", op))
		return fxModel.Rate{}, err
	}

	value, ok := rates.Rates[to]
	if !ok {
		return fxModel.Rate{}, externalApi.ErrNotFound
	}

	// rates are quoted for rates.Amount units of the base currency
	if !rates.Amount.IsZero() && !rates.Amount.Equal(decimal.NewFromInt(1)) {
		value = value.Div(rates.Amount)
	}

	slog.Debug("FxApi.GetRate request complete", slog.String("rqID", rqID), slog.String("op", op), slog.String("rate", value.String()))

	return fxModel.Rate{From: from, To: to, Date: rates.Date, Value: value}, nil
}
