package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/viper"

	"github.com/ebalakin/enertrack/internal/api"
	"github.com/ebalakin/enertrack/internal/pkg/config"
	"github.com/ebalakin/enertrack/internal/pkg/constants"
	"github.com/ebalakin/enertrack/internal/pkg/logger"
	"github.com/ebalakin/enertrack/internal/pkg/store"
	"github.com/ebalakin/enertrack/internal/pkg/store/xpgx"
	"github.com/ebalakin/enertrack/internal/service/forecast"
)

func main() {
	ctx := context.Background()

	if err := config.Init(); err != nil {
		logger.Fatal(ctx, err)
	}
	logger.Fatal(ctx, logger.Init(viper.GetString(constants.ViperLogLevel)))

	pool, err := xpgx.NewPool(ctx, viper.GetString(constants.ViperDatabaseDSN))
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer pool.Close()

	// The database may still be coming up alongside us.
	err = backoff.Retry(
		func() error { return pool.Ping(ctx) },
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), 10),
			ctx,
		),
	)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	model, err := forecast.Load(viper.GetString(constants.ViperModelPath))
	if err != nil {
		if errors.Is(err, constants.ErrModelNotFound) || errors.Is(err, constants.ErrModelVersionMismatch) {
			logger.Warnf(ctx, "unusable model artifact at %s (%v), forecast endpoints will return 503 until one is trained",
				viper.GetString(constants.ViperModelPath), err)
			model = nil
		} else {
			logger.Fatal(ctx, err)
		}
	}

	svc, err := api.NewAPIService(store.NewStore(pool), model)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	go svc.Serve(viper.GetString(constants.ViperHTTPAddr))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, viper.GetDuration(constants.ViperShutdownTimeout))
	defer cancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "shutdown: %v", err)
	}
	logger.Info(ctx, "server stopped")
}
