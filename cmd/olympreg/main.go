package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cpkimr/olympreg/internal/api/admin"
	"github.com/cpkimr/olympreg/internal/api/user"
	"github.com/cpkimr/olympreg/internal/config"
	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/importer"
	"github.com/cpkimr/olympreg/internal/notify"
	"github.com/cpkimr/olympreg/internal/pubsub"
	"github.com/cpkimr/olympreg/internal/scoring"

	"go.uber.org/zap"
)

var Version = "dev-build"

func main() {

	fmt.Fprintf(os.Stderr, "OlympReg %s - School Olympiad Administration Backend\n\n", Version)

	// config
	var configPath string
	flag.StringVar(&configPath, "c", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// logger
	var logger *zap.Logger
	if cfg.Logger.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// database
	db, err := database.Init(cfg.Storage.Database)
	if err != nil {
		zap.S().Fatalf("failed to initialize database: %v", err)
	}
	zap.S().Info("database initialized successfully")

	// scoring rules
	rules, err := scoring.RulesFromConfig(cfg.Scoring)
	if err != nil {
		zap.S().Fatalf("invalid scoring configuration: %v", err)
	}
	zap.S().Infof("loaded scoring rules for %d stages", len(rules))

	// notifications
	var sender notify.Sender
	if cfg.Telegram.Enabled {
		sender = notify.NewTelegramSender(cfg.Telegram)
		zap.S().Info("telegram notifications enabled")
	} else {
		sender = notify.NopSender{}
		zap.S().Info("telegram notifications disabled, messages will be dropped")
	}
	dispatcher := notify.NewDispatcher(sender, 0)
	dispatcher.Start()
	defer dispatcher.Stop()

	// scoring recorder
	recorder := scoring.NewRecorder(db, rules, dispatcher, pubsub.GetBroker())
	imp := importer.New(db, recorder)

	// API routers
	userEngine := user.NewUserRouter(cfg, db, recorder)
	adminEngine := admin.NewAdminRouter(cfg, db, recorder, imp)

	// start servers
	go func() {
		zap.S().Infof("starting user server at %s", cfg.Listen)
		if err := userEngine.Run(cfg.Listen); err != nil {
			zap.S().Fatalf("failed to start user server: %v", err)
		}
	}()

	if cfg.Admin.Enabled {
		go func() {
			zap.S().Infof("starting admin server at %s", cfg.Admin.Listen)
			if err := adminEngine.Run(cfg.Admin.Listen); err != nil {
				zap.S().Fatalf("failed to start admin server: %v", err)
			}
		}()
	}

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.S().Info("shutting down server...")
}
