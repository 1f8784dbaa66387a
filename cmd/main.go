package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/wealth_tax_helper/config"
	"github.com/KotFed0t/wealth_tax_helper/data"
	"github.com/KotFed0t/wealth_tax_helper/data/cache"
	"github.com/KotFed0t/wealth_tax_helper/data/repository/postgres"
	redisRepo "github.com/KotFed0t/wealth_tax_helper/data/repository/redis"
	"github.com/KotFed0t/wealth_tax_helper/data/session"
	"github.com/KotFed0t/wealth_tax_helper/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/wealth_tax_helper/internal/externalApi/fxApi"
	"github.com/KotFed0t/wealth_tax_helper/internal/reportGenerator/xlsxGenerator"
	"github.com/KotFed0t/wealth_tax_helper/internal/scheduler"
	"github.com/KotFed0t/wealth_tax_helper/internal/service/wealthTaxService"
	"github.com/KotFed0t/wealth_tax_helper/internal/taxcalc"
	"github.com/KotFed0t/wealth_tax_helper/internal/tgbot"
	"github.com/KotFed0t/wealth_tax_helper/internal/transport/httpapi"
	"github.com/KotFed0t/wealth_tax_helper/internal/transport/telegram"
	"github.com/KotFed0t/wealth_tax_helper/utils"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code, so deferred shutdowns happen before exiting.
func run() int {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config loaded", slog.String("logLevel", cfg.LogLevel), slog.String("storage", cfg.Storage.Backend), slog.String("httpAddr", cfg.HTTP.Addr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	schedule, err := taxcalc.ParseSchedule(cfg.Tax.Allowance, cfg.Tax.BandBounds, cfg.Tax.BandRates)
	if err != nil {
		slog.Error("invalid tax schedule", slog.String("err", err.Error()))
		return 1
	}

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	var repo wealthTaxService.Repository
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		repo = redisRepo.NewStore(redisClient)
	default:
		pgClient := data.NewPostgresClient(cfg)
		defer pgClient.Close()
		repo = postgres.NewPostgres(pgClient)
	}
	slog.Info("storage backend selected", slog.String("backend", cfg.Storage.Backend))

	redisCache := cache.NewRedisCache(redisClient, cfg.Cache.ResultExpiration)
	redisSession := session.NewRedisSession(redisClient, cfg.SessionExpiration)

	fxApiClient := fxApi.New(cfg)

	reportGenerator := xlsxGenerator.New()

	// publishing stays disabled without Drive credentials
	var cloudStorage wealthTaxService.CloudStorage
	if cfg.GoogleDrive.CredentialsFile != "" {
		drive, err := googleDriveApi.New(ctx, cfg)
		if err != nil {
			slog.Error("can't init google drive, report publishing disabled", slog.String("err", err.Error()))
		} else {
			cloudStorage = drive
		}
	}

	wealthTaxSrv := wealthTaxService.New(
		repo,
		redisCache,
		fxApiClient,
		reportGenerator,
		cloudStorage,
		taxcalc.New(schedule),
	)

	if cfg.SeedDemoData {
		if err = wealthTaxSrv.Seed(utils.CtxWithRqID(ctx, "")); err != nil {
			slog.Error("seeding demo data failed", slog.String("err", err.Error()))
		}
	}

	sched, err := scheduler.New()
	if err != nil {
		slog.Error("can't create scheduler", slog.String("err", err.Error()))
		return 1
	}
	recalculate := func(ctx context.Context) error {
		_, err := wealthTaxSrv.Calculate(ctx)
		return err
	}
	var deleteOldReports func(ctx context.Context) error
	if cloudStorage != nil {
		deleteOldReports = wealthTaxSrv.DeleteOldReports
	}
	if err = registerJobs(sched, cfg.Jobs, recalculate, deleteOldReports); err != nil {
		slog.Error("can't create scheduler jobs", slog.String("err", err.Error()))
		return 1
	}
	sched.Start()
	defer sched.Stop()

	httpServer := httpapi.NewServer(cfg, httpapi.NewController(wealthTaxSrv))
	httpServer.Start()
	defer httpServer.Stop()

	if cfg.Telegram.Token != "" {
		tgController := telegram.NewController(wealthTaxSrv, redisSession)

		tgBot, err := tgbot.New(cfg, tgController)
		if err != nil {
			slog.Error("can't create tgbot", slog.String("err", err.Error()))
			return 1
		}
		tgBot.Start()
		defer tgBot.Stop()
	} else {
		slog.Info("TELEGRAM_TOKEN is empty, tgbot disabled")
	}

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt

	return 0
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
