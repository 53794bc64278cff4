package main

import (
	"context"
	"errors"
	"flag"

	"github.com/spf13/viper"

	"github.com/ebalakin/enertrack/internal/pkg/config"
	"github.com/ebalakin/enertrack/internal/pkg/constants"
	"github.com/ebalakin/enertrack/internal/pkg/logger"
	"github.com/ebalakin/enertrack/internal/pkg/store"
	"github.com/ebalakin/enertrack/internal/pkg/store/xpgx"
	"github.com/ebalakin/enertrack/internal/service/forecast"
)

// enertrack-train fits a forecast model on a user's aggregate history and
// writes the artifact the server loads at startup.
func main() {
	userID := flag.Int64("user", 0, "user id whose history to train on")
	out := flag.String("out", "", "artifact path (defaults to forecast.model_path)")
	trees := flag.Int("trees", 0, "override ensemble size")
	flag.Parse()

	ctx := context.Background()

	if err := config.Init(); err != nil {
		logger.Fatal(ctx, err)
	}
	logger.Fatal(ctx, logger.Init(viper.GetString(constants.ViperLogLevel)))

	if *userID == 0 {
		logger.Fatal(ctx, errors.New("missing required -user flag"))
	}
	path := *out
	if path == "" {
		path = viper.GetString(constants.ViperModelPath)
	}

	pool, err := xpgx.NewPool(ctx, viper.GetString(constants.ViperDatabaseDSN))
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer pool.Close()

	params := forecast.DefaultParams()
	if *trees > 0 {
		params.NumTrees = *trees
	}

	model, err := forecast.TrainFromHistory(ctx, store.NewStore(pool), *userID, params)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	if err := model.Save(path); err != nil {
		logger.Fatal(ctx, err)
	}
	logger.Infof(ctx, "model written to %s", path)
}
