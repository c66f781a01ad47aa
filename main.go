package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	echoapi "github.com/mwalimu/edusight/api/echo"
	"github.com/mwalimu/edusight/core"
	"github.com/mwalimu/edusight/core/predict"
	"github.com/mwalimu/edusight/core/student"
	logsvc "github.com/mwalimu/edusight/services/logger"
	"github.com/mwalimu/edusight/storage/cache"
	"github.com/mwalimu/edusight/storage/database"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stdout, conf.AppName+" : ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if conf.Debug || conf.RollbarToken == "" {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("database setup failed", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("database open failed", err)
	}
	defer func() { _ = db.Close() }()
	if err := database.Migrate(db); err != nil {
		logger.Fatal("database migration failed", err)
	}

	// load the model once at startup; refusing to start beats serving
	// predictions from a missing or mismatched artifact
	modelPath := conf.Model.Path
	if !filepath.IsAbs(modelPath) {
		modelPath = filepath.Join(core.Getwd(), modelPath)
	}
	clf, err := predict.LoadClassifier(modelPath)
	if err != nil {
		logger.Fatal("model load failed", err)
	}
	logger.Info("model loaded", clf.Version(), clf.Algorithm())

	// set up services
	studentSvc := student.NewService(database.NewStudentRepository(db))
	predictSvc := predict.NewService(clf, logger)

	if conf.Redis.URL != "" {
		cacheSvc, err := cache.NewService(conf.Redis.URL)
		if err != nil {
			logger.Warn("redis unavailable, dashboard caching disabled", err)
		} else {
			defer func() { _ = cacheSvc.Close() }()
			predictSvc.WithCache(cacheSvc, conf.Redis.DashboardTTL)
		}
	}

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Address:    conf.Server.Address,
		Debug:      conf.Debug,
		StudentSvc: studentSvc,
		PredictSvc: predictSvc,
		Logger:     logger,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			logger.Error("server shutdown failed", err)
		}
	}()

	app.Start()
}
