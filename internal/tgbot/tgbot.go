package tgbot

import (
	"fmt"
	"log/slog"

	"github.com/KotFed0t/wealth_tax_helper/config"
	"github.com/KotFed0t/wealth_tax_helper/internal/transport/telegram"
	customMW "github.com/KotFed0t/wealth_tax_helper/internal/transport/telegram/middleware"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type TGBot struct {
	bot  *tele.Bot
	ctrl *telegram.Controller
}

func New(cfg *config.Config, ctrl *telegram.Controller) (*TGBot, error) {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("tele.NewBot: %w", err)
	}

	return &TGBot{bot: b, ctrl: ctrl}, nil
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger())

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	b.bot.Handle(tele.OnText, b.ctrl.OnText)

	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/cancel", b.ctrl.Cancel)
	b.bot.Handle("/case", b.ctrl.Case)
	b.bot.Handle("/assets", b.ctrl.Assets)
	b.bot.Handle("/debts", b.ctrl.Debts)
	b.bot.Handle("/calc", b.ctrl.Calc)
	b.bot.Handle("/summary", b.ctrl.Summary)
	b.bot.Handle("/report", b.ctrl.Report)
	b.bot.Handle("/publish", b.ctrl.Publish)
	b.bot.Handle("/add_asset", b.ctrl.InitAddAsset)
	b.bot.Handle("/add_debt", b.ctrl.InitAddDebt)
	b.bot.Handle("/delete_asset", b.ctrl.DeleteAsset)
	b.bot.Handle("/delete_debt", b.ctrl.DeleteDebt)
}
