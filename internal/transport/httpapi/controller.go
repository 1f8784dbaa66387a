package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/KotFed0t/wealth_tax_helper/internal/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type WealthTaxService interface {
	GetCase(ctx context.Context) (model.CaseData, error)
	SaveCase(ctx context.Context, c model.CaseData) (model.CaseData, error)
	ListAssets(ctx context.Context, category *model.Category) ([]model.AssetPosition, error)
	GetAsset(ctx context.Context, id string) (model.AssetPosition, error)
	AddAsset(ctx context.Context, draft model.AssetDraft) (model.AssetPosition, error)
	UpdateAsset(ctx context.Context, id string, draft model.AssetDraft) (model.AssetPosition, error)
	DeleteAsset(ctx context.Context, id string) error
	ListDebts(ctx context.Context) ([]model.DebtPosition, error)
	GetDebt(ctx context.Context, id string) (model.DebtPosition, error)
	AddDebt(ctx context.Context, draft model.DebtDraft) (model.DebtPosition, error)
	UpdateDebt(ctx context.Context, id string, draft model.DebtDraft) (model.DebtPosition, error)
	DeleteDebt(ctx context.Context, id string) error
	Calculate(ctx context.Context) (model.TaxResult, error)
	LastResult(ctx context.Context) (model.TaxResult, error)
	Summary(ctx context.Context) (model.Summary, error)
	Report(ctx context.Context) (fileBytes []byte, filename string, err error)
	PublishReport(ctx context.Context) (link string, err error)
}

type Controller struct {
	wealthTaxService WealthTaxService
}

func NewController(wealthTaxService WealthTaxService) *Controller {
	return &Controller{wealthTaxService: wealthTaxService}
}

// Routes returns the API handler with request id, access log and panic recovery applied.
func (ctrl *Controller) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", ctrl.Health)

	mux.HandleFunc("GET /api/case", ctrl.GetCase)
	mux.HandleFunc("PUT /api/case", ctrl.SaveCase)

	mux.HandleFunc("GET /api/assets", ctrl.ListAssets)
	mux.HandleFunc("POST /api/assets", ctrl.AddAsset)
	mux.HandleFunc("GET /api/assets/{id}", ctrl.GetAsset)
	mux.HandleFunc("PUT /api/assets/{id}", ctrl.UpdateAsset)
	mux.HandleFunc("DELETE /api/assets/{id}", ctrl.DeleteAsset)

	mux.HandleFunc("GET /api/debts", ctrl.ListDebts)
	mux.HandleFunc("POST /api/debts", ctrl.AddDebt)
	mux.HandleFunc("GET /api/debts/{id}", ctrl.GetDebt)
	mux.HandleFunc("PUT /api/debts/{id}", ctrl.UpdateDebt)
	mux.HandleFunc("DELETE /api/debts/{id}", ctrl.DeleteDebt)

	mux.HandleFunc("POST /api/calculations", ctrl.Calculate)
	mux.HandleFunc("GET /api/calculations/last", ctrl.LastResult)

	mux.HandleFunc("GET /api/summary", ctrl.Summary)
	mux.HandleFunc("GET /api/report", ctrl.Report)
	mux.HandleFunc("POST /api/report/publish", ctrl.PublishReport)

	return Chain(mux, RequestID(), Logger(), Recover())
}

func (ctrl *Controller) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (ctrl *Controller) GetCase(w http.ResponseWriter, r *http.Request) {
	c, err := ctrl.wealthTaxService.GetCase(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (ctrl *Controller) SaveCase(w http.ResponseWriter, r *http.Request) {
	var c model.CaseData
	if !decodeBody(w, r, &c) {
		return
	}

	saved, err := ctrl.wealthTaxService.SaveCase(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (ctrl *Controller) ListAssets(w http.ResponseWriter, r *http.Request) {
	var category *model.Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, ok := model.ParseCategory(raw)
		if !ok {
			verr := &model.ValidationError{}
			verr.Add("category", "is unknown")
			writeError(w, r, verr)
			return
		}
		category = &c
	}

	assets, err := ctrl.wealthTaxService.ListAssets(r.Context(), category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

func (ctrl *Controller) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := ctrl.wealthTaxService.GetAsset(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (ctrl *Controller) AddAsset(w http.ResponseWriter, r *http.Request) {
	var draft model.AssetDraft
	if !decodeBody(w, r, &draft) {
		return
	}

	asset, err := ctrl.wealthTaxService.AddAsset(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/assets/"+url.PathEscape(asset.ID))
	writeJSON(w, http.StatusCreated, asset)
}

func (ctrl *Controller) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var draft model.AssetDraft
	if !decodeBody(w, r, &draft) {
		return
	}

	asset, err := ctrl.wealthTaxService.UpdateAsset(r.Context(), r.PathValue("id"), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (ctrl *Controller) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := ctrl.wealthTaxService.DeleteAsset(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ctrl *Controller) ListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := ctrl.wealthTaxService.ListDebts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, debts)
}

func (ctrl *Controller) GetDebt(w http.ResponseWriter, r *http.Request) {
	debt, err := ctrl.wealthTaxService.GetDebt(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, debt)
}

func (ctrl *Controller) AddDebt(w http.ResponseWriter, r *http.Request) {
	var draft model.DebtDraft
	if !decodeBody(w, r, &draft) {
		return
	}

	debt, err := ctrl.wealthTaxService.AddDebt(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/debts/"+url.PathEscape(debt.ID))
	writeJSON(w, http.StatusCreated, debt)
}

func (ctrl *Controller) UpdateDebt(w http.ResponseWriter, r *http.Request) {
	var draft model.DebtDraft
	if !decodeBody(w, r, &draft) {
		return
	}

	debt, err := ctrl.wealthTaxService.UpdateDebt(r.Context(), r.PathValue("id"), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, debt)
}

func (ctrl *Controller) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	if err := ctrl.wealthTaxService.DeleteDebt(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ctrl *Controller) Calculate(w http.ResponseWriter, r *http.Request) {
	res, err := ctrl.wealthTaxService.Calculate(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (ctrl *Controller) LastResult(w http.ResponseWriter, r *http.Request) {
	res, err := ctrl.wealthTaxService.LastResult(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (ctrl *Controller) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := ctrl.wealthTaxService.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (ctrl *Controller) Report(w http.ResponseWriter, r *http.Request) {
	fileBytes, filename, err := ctrl.wealthTaxService.Report(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(fileBytes)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(fileBytes)
}

func (ctrl *Controller) PublishReport(w http.ResponseWriter, r *http.Request) {
	link, err := ctrl.wealthTaxService.PublishReport(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"link": link})
}
