package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/KotFed0t/wealth_tax_helper/data/session"
	"github.com/KotFed0t/wealth_tax_helper/internal/converter/telebotConverter"
	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/KotFed0t/wealth_tax_helper/internal/service"
	"github.com/KotFed0t/wealth_tax_helper/utils"
	tele "gopkg.in/telebot.v4"
)

const (
	internalErrMsg  = "Da ist etwas schiefgelaufen, bitte später erneut versuchen."
	defaultCurrency = "EUR"

	startMsg = "Willkommen beim Vermögensteuer-Helfer!\n\n" +
		"/case – Stammdaten des Falls\n" +
		"/assets – Vermögenspositionen\n" +
		"/debts – Schulden\n" +
		"/add_asset – Vermögensposition erfassen\n" +
		"/add_debt – Schuld erfassen\n" +
		"/delete_asset <ID> – Vermögensposition löschen\n" +
		"/delete_debt <ID> – Schuld löschen\n" +
		"/summary – Übersicht nach Kategorien\n" +
		"/calc – Vermögensteuer berechnen\n" +
		"/report – Excel-Bericht\n" +
		"/publish – Bericht in Google Drive teilen\n" +
		"/cancel – laufende Eingabe abbrechen"
)

type WealthTaxService interface {
	GetCase(ctx context.Context) (model.CaseData, error)
	ListAssets(ctx context.Context, category *model.Category) ([]model.AssetPosition, error)
	AddAsset(ctx context.Context, draft model.AssetDraft) (model.AssetPosition, error)
	DeleteAsset(ctx context.Context, id string) error
	ListDebts(ctx context.Context) ([]model.DebtPosition, error)
	AddDebt(ctx context.Context, draft model.DebtDraft) (model.DebtPosition, error)
	DeleteDebt(ctx context.Context, id string) error
	Calculate(ctx context.Context) (model.TaxResult, error)
	Summary(ctx context.Context) (model.Summary, error)
	Report(ctx context.Context) (fileBytes []byte, filename string, err error)
	PublishReport(ctx context.Context) (link string, err error)
}

type Session interface {
	GetSession(ctx context.Context, chatID int64) (model.Session, error)
	SetSession(ctx context.Context, chatID int64, session model.Session) error
}

type Controller struct {
	wealthTaxService WealthTaxService
	session          Session
}

func NewController(wealthTaxService WealthTaxService, session Session) *Controller {
	return &Controller{
		wealthTaxService: wealthTaxService,
		session:          session,
	}
}

func (ctrl *Controller) Start(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	_ = ctrl.setState(ctx, c.Chat().ID, model.DefaultState)
	return c.Send(startMsg)
}

const stuckDialogHint = "\n\nDie Eingabe konnte nicht beendet werden, bitte /cancel senden."

// Cancel leaves any pending input dialog.
func (ctrl *Controller) Cancel(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if err := ctrl.setState(ctx, c.Chat().ID, model.DefaultState); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send("Eingabe abgebrochen.")
}

func (ctrl *Controller) Case(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	caseData, err := ctrl.wealthTaxService.GetCase(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Send("Es sind noch keine Stammdaten erfasst.")
		}
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.CaseText(caseData))
}

func (ctrl *Controller) Assets(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	var category *model.Category
	if arg := strings.TrimSpace(c.Message().Payload); arg != "" {
		cat, ok := model.ParseCategory(arg)
		if !ok {
			return c.Send("Unbekannte Kategorie. Erlaubt: listed, funds, claims, other")
		}
		category = &cat
	}

	assets, err := ctrl.wealthTaxService.ListAssets(ctx, category)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.AssetsText(assets, ctrl.currency(ctx)))
}

func (ctrl *Controller) Debts(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	debts, err := ctrl.wealthTaxService.ListDebts(ctx)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.DebtsText(debts, ctrl.currency(ctx)))
}

func (ctrl *Controller) Calc(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	res, err := ctrl.wealthTaxService.Calculate(ctx)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.TaxResultText(res, ctrl.currency(ctx)))
}

func (ctrl *Controller) Summary(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	summary, err := ctrl.wealthTaxService.Summary(ctx)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.SummaryText(summary, ctrl.currency(ctx)))
}

func (ctrl *Controller) Report(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	fileBytes, filename, err := ctrl.wealthTaxService.Report(ctx)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(fileBytes)),
		FileName: filename,
	}
	return c.Send(doc)
}

func (ctrl *Controller) Publish(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	link, err := ctrl.wealthTaxService.PublishReport(ctx)
	if err != nil {
		if errors.Is(err, service.ErrPublishingDisabled) {
			return c.Send("Das Teilen von Berichten ist nicht eingerichtet.")
		}
		return c.Send(internalErrMsg)
	}

	return c.Send("Bericht veröffentlicht: " + link)
}

func (ctrl *Controller) InitAddAsset(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if err := ctrl.setState(ctx, c.Chat().ID, model.ExpectingAsset); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(telebotConverter.AssetInputHelp)
}

func (ctrl *Controller) ProcessAddAsset(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	draft, err := telebotConverter.ParseAssetDraft(c.Message().Text)
	if err != nil {
		return c.Send("Format nicht erkannt (" + err.Error() + ").\n\n" + telebotConverter.AssetInputHelp)
	}

	asset, err := ctrl.wealthTaxService.AddAsset(ctx, draft)
	if err != nil {
		return ctrl.sendServiceError(c, err)
	}

	msg := telebotConverter.AssetsText([]model.AssetPosition{asset}, ctrl.currency(ctx))
	if err = ctrl.setState(ctx, c.Chat().ID, model.DefaultState); err != nil {
		msg += stuckDialogHint
	}
	return c.Send(msg)
}

func (ctrl *Controller) InitAddDebt(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if err := ctrl.setState(ctx, c.Chat().ID, model.ExpectingDebt); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(telebotConverter.DebtInputHelp)
}

func (ctrl *Controller) ProcessAddDebt(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	draft, err := telebotConverter.ParseDebtDraft(c.Message().Text)
	if err != nil {
		return c.Send("Format nicht erkannt (" + err.Error() + ").\n\n" + telebotConverter.DebtInputHelp)
	}

	debt, err := ctrl.wealthTaxService.AddDebt(ctx, draft)
	if err != nil {
		return ctrl.sendServiceError(c, err)
	}

	msg := telebotConverter.DebtsText([]model.DebtPosition{debt}, ctrl.currency(ctx))
	if err = ctrl.setState(ctx, c.Chat().ID, model.DefaultState); err != nil {
		msg += stuckDialogHint
	}
	return c.Send(msg)
}

func (ctrl *Controller) DeleteAsset(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	id := strings.TrimSpace(c.Message().Payload)
	if id == "" {
		return c.Send("Bitte die ID angeben: /delete_asset <ID>")
	}

	if err := ctrl.wealthTaxService.DeleteAsset(ctx, id); err != nil {
		return ctrl.sendServiceError(c, err)
	}
	return c.Send("Vermögensposition gelöscht.")
}

func (ctrl *Controller) DeleteDebt(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	id := strings.TrimSpace(c.Message().Payload)
	if id == "" {
		return c.Send("Bitte die ID angeben: /delete_debt <ID>")
	}

	if err := ctrl.wealthTaxService.DeleteDebt(ctx, id); err != nil {
		return ctrl.sendServiceError(c, err)
	}
	return c.Send("Schuld gelöscht.")
}

// OnText dispatches free text according to the dialog step of the chat.
func (ctrl *Controller) OnText(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.session.GetSession(ctx, c.Chat().ID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	switch chatSession.State {
	case model.ExpectingAsset:
		return ctrl.ProcessAddAsset(c)
	case model.ExpectingDebt:
		return ctrl.ProcessAddDebt(c)
	default:
		return c.Send("Bitte zuerst einen Befehl wählen, siehe /start")
	}
}

func (ctrl *Controller) sendServiceError(c tele.Context, err error) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Send(telebotConverter.ValidationErrorText(verr))
	case errors.Is(err, service.ErrNotFound):
		return c.Send("Keine Position mit dieser ID gefunden.")
	default:
		return c.Send(internalErrMsg)
	}
}

func (ctrl *Controller) setState(ctx context.Context, chatID int64, state model.State) error {
	err := ctrl.session.SetSession(ctx, chatID, model.Session{State: state})
	if err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	}
	return err
}

// currency is the valuation currency of the case, EUR when none is stored.
func (ctrl *Controller) currency(ctx context.Context) string {
	caseData, err := ctrl.wealthTaxService.GetCase(ctx)
	if err != nil || caseData.Assessment.Currency == "" {
		return defaultCurrency
	}
	return caseData.Assessment.Currency
}
