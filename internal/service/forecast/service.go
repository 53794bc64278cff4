package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/constants"
	"github.com/ebalakin/enertrack/internal/pkg/logger"
	"github.com/ebalakin/enertrack/internal/pkg/metrics"
	"github.com/ebalakin/enertrack/internal/pkg/store"
)

// MinForecastHistoryDays gates the serving endpoints. Training can squeeze
// by on less, but forecasts built on under a week of data are noise.
const MinForecastHistoryDays = 7

// Service serves forecasts from a pre-trained model. The serving path never
// trains; models are produced offline and loaded at startup.
type Service struct {
	store store.Store
	model *Model
}

func NewService(s store.Store, model *Model) *Service {
	return &Service{store: s, model: model}
}

func (s *Service) loadHistory(ctx context.Context, user *domain.User) ([]*domain.DailyAggregate, error) {
	lookback := viper.GetInt(constants.ViperLookbackDays)
	since := time.Now().AddDate(0, 0, -lookback)

	aggs, err := s.store.DailyAggregates(ctx, user.ID, since)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if len(aggs) < MinForecastHistoryDays {
		return nil, fmt.Errorf("user %d has %d days of history, need %d: %w",
			user.ID, len(aggs), MinForecastHistoryDays, constants.ErrInsufficientData)
	}
	return aggs, nil
}

// DailyForecast predicts the next nDays of total consumption for user.
func (s *Service) DailyForecast(ctx context.Context, user *domain.User, nDays int) ([]domain.PredictionRecord, error) {
	start := time.Now()
	recs, err := s.dailyForecast(ctx, user, nDays)
	observeRun(domain.HorizonDaily, start, err)
	return recs, err
}

func (s *Service) dailyForecast(ctx context.Context, user *domain.User, nDays int) ([]domain.PredictionRecord, error) {
	if s.model == nil {
		return nil, constants.ErrModelNotFound
	}

	aggs, err := s.loadHistory(ctx, user)
	if err != nil {
		return nil, err
	}

	maxDays := viper.GetInt(constants.ViperMaxHorizonDays)
	recs, err := s.model.PredictNextDays(aggs, nDays, maxDays, user.TariffRate)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, user.ID, recs)
	return recs, nil
}

// MonthlyForecast predicts the next 30 days and sums them.
func (s *Service) MonthlyForecast(ctx context.Context, user *domain.User) (*domain.MonthlyForecast, error) {
	start := time.Now()
	fc, err := s.monthlyForecast(ctx, user)
	observeRun(domain.HorizonMonthly, start, err)
	return fc, err
}

func (s *Service) monthlyForecast(ctx context.Context, user *domain.User) (*domain.MonthlyForecast, error) {
	if s.model == nil {
		return nil, constants.ErrModelNotFound
	}

	aggs, err := s.loadHistory(ctx, user)
	if err != nil {
		return nil, err
	}

	fc, err := s.model.PredictMonthly(aggs, viper.GetInt(constants.ViperMaxHorizonDays), user.TariffRate)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, user.ID, fc.DailyPredictions)
	return fc, nil
}

// History returns previously generated predictions for the user.
func (s *Service) History(ctx context.Context, userID int64, horizon domain.HorizonType, limit uint64) ([]*domain.PredictionRecord, error) {
	return s.store.ListPredictions(ctx, userID, horizon, limit)
}

// ModelInfo exposes artifact metadata for the status endpoint.
func (s *Service) ModelInfo() (trainedAt time.Time, test Metrics, ok bool) {
	if s.model == nil {
		return time.Time{}, Metrics{}, false
	}
	return s.model.TrainedAt, s.model.TestMetrics, true
}

// audit persists the run best-effort: a failed insert degrades the audit
// trail, not the response.
func (s *Service) audit(ctx context.Context, userID int64, recs []domain.PredictionRecord) {
	if err := s.store.InsertPredictions(ctx, userID, recs); err != nil {
		logger.Warnf(ctx, "persist predictions for user %d: %v", userID, err)
	}
}

func observeRun(horizon domain.HorizonType, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ForecastRunsTotal.WithLabelValues(string(horizon), outcome).Inc()
	metrics.ForecastDuration.Observe(time.Since(start).Seconds())
}

// TrainFromHistory fits a fresh model on a user's full aggregate history.
// Used by the offline trainer, never by request handlers.
func TrainFromHistory(ctx context.Context, s store.Store, userID int64, params Params) (*Model, error) {
	lookback := viper.GetInt(constants.ViperLookbackDays)
	aggs, err := s.DailyAggregates(ctx, userID, time.Now().AddDate(0, 0, -lookback))
	if err != nil {
		return nil, fmt.Errorf("load training history: %w", err)
	}

	samples, err := BuildTrainingSet(aggs)
	if err != nil {
		return nil, err
	}

	model, err := Train(samples, params)
	if err != nil {
		return nil, err
	}

	logger.Infof(ctx, "trained model on %d samples for user %d, test rmse=%.3f mae=%.3f r2=%.3f",
		len(samples), userID, model.TestMetrics.RMSE, model.TestMetrics.MAE, model.TestMetrics.R2)
	return model, nil
}
