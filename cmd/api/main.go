package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"esg-insights-go/internal/config"
	"esg-insights-go/internal/dataset"
	"esg-insights-go/internal/esgapi"
	"esg-insights-go/internal/logger"
	"esg-insights-go/internal/processor"
	"esg-insights-go/internal/vocab"
)

func main() {
	_ = godotenv.Load() // loads .env

	cfg := config.Load()
	log := logger.New(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})
	log.WithField("service", "esg-insights-go").Info("starting service")

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	order := vocab.DefaultCategoryOrder()
	if cfg.CategoryOrderPath != "" {
		o, err := vocab.LoadCategoryOrder(cfg.CategoryOrderPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load category order")
		}
		order = o
	}
	log.WithField("category_order", order.Version()).Info("category order ready")

	var src processor.Source
	if cfg.UseAPI() {
		log.WithField("esg_api_url", cfg.APIURL).Info("reading dashboards from the ESG API")
		src = esgapi.New(esgapi.Options{
			BaseURL:    cfg.APIURL,
			Timeout:    cfg.APITimeout,
			MaxElapsed: cfg.APIMaxElapsed,
			Logger:     log,
		})
	} else {
		log.WithField("dataset_path", cfg.DatasetPath).Info("loading offline workbook")
		wb, err := dataset.Open(cfg.DatasetPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load dataset")
		}
		wb.Summary().Log(log)
		src = wb
	}

	proc := processor.New(src, processor.Options{
		Order:  order,
		Policy: cfg.CellPolicy(),
		Logger: log,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      newServer(proc, log).routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).WithField("status_cell_policy", cfg.CellPolicy().String()).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}
