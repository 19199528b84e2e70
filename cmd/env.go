package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/worldpop-cli/internal/chart"
	"github.com/sells-group/worldpop-cli/internal/dataset"
	"github.com/sells-group/worldpop-cli/internal/fetcher"
	"github.com/sells-group/worldpop-cli/internal/model"
	"github.com/sells-group/worldpop-cli/internal/store"
)

// loadTable loads the configured dataset and applies density filling and
// the adjustments file, if any.
func loadTable(ctx context.Context) (*dataset.Table, error) {
	t, err := dataset.Load(ctx, cfg.Dataset.Path, dataset.Options{
		Format:   cfg.Dataset.Format,
		Sheet:    cfg.Dataset.Sheet,
		CacheDir: cfg.Dataset.CacheDir,
		Fetch:    fetchOptions(),
	})
	if err != nil {
		return nil, err
	}

	adj := &dataset.Adjustments{}
	if cfg.Dataset.Adjustments != "" {
		if adj, err = dataset.LoadAdjustments(cfg.Dataset.Adjustments); err != nil {
			return nil, err
		}
	}
	adj.FillDensity = adj.FillDensity || cfg.Dataset.FillDensity
	return adj.Apply(t)
}

func fetchOptions() fetcher.Options {
	return fetcher.Options{
		HTTP: fetcher.HTTPOptions{
			UserAgent:   cfg.Fetch.UserAgent,
			Timeout:     time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries:  cfg.Fetch.MaxRetries,
			RatePerHost: rate.Limit(5),
		},
		FTP: fetcher.FTPOptions{
			Timeout:  time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			User:     cfg.Fetch.FTPUser,
			Password: cfg.Fetch.FTPPassword,
		},
	}
}

func chartOptions() chart.Options {
	return chart.Options{WidthInches: cfg.Chart.WidthInches, HeightInches: cfg.Chart.HeightInches}
}

// loadShapes reads the configured shapefile; without one every choropleth
// feature has a null geometry.
func loadShapes() (chart.Shapes, error) {
	if cfg.Chart.Shapefile == "" {
		return nil, nil
	}
	return chart.LoadShapes(cfg.Chart.Shapefile, cfg.Chart.ShapefileCodeField)
}

// loadCities reads the configured city list or falls back to the built-in
// major cities.
func loadCities() ([]model.City, error) {
	if cfg.Chart.Cities == "" {
		return dataset.MajorCities(), nil
	}
	return dataset.LoadCities(cfg.Chart.Cities)
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "worldpop.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// openStore opens and migrates the configured store.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func datasetName() string {
	return filepath.Base(cfg.Dataset.Path)
}

func logDone(msg string, fields ...zap.Field) {
	zap.L().Info(msg, append(fields, zap.String("dataset", cfg.Dataset.Path))...)
}
