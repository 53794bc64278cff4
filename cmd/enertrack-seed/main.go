package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/config"
	"github.com/ebalakin/enertrack/internal/pkg/constants"
	"github.com/ebalakin/enertrack/internal/pkg/logger"
	"github.com/ebalakin/enertrack/internal/pkg/store"
	"github.com/ebalakin/enertrack/internal/pkg/store/xpgx"
)

type applianceProfile struct {
	name        string
	typicalKWh  float64
	probability float64
	activeHours []int
}

var appliances = []applianceProfile{
	{"Air Conditioner", 3.5, 0.3, []int{17, 18, 19, 20, 21, 22}},
	{"Refrigerator", 0.15, 0.95, allHours()},
	{"Washing Machine", 1.2, 0.15, []int{8, 9, 10, 19, 20}},
	{"Dryer", 2.5, 0.1, []int{9, 10, 20, 21}},
	{"Dishwasher", 1.5, 0.2, []int{20, 21, 22}},
	{"Microwave", 0.3, 0.4, []int{7, 8, 12, 13, 18, 19, 20}},
	{"Electric Oven", 2.0, 0.15, []int{12, 18, 19}},
	{"Television", 0.15, 0.6, []int{18, 19, 20, 21, 22, 23}},
	{"Computer", 0.2, 0.5, []int{9, 10, 11, 14, 15, 16, 19, 20}},
	{"Water Heater", 3.0, 0.3, []int{6, 7, 8, 19, 20, 21}},
	{"LED Lights", 0.01, 0.8, []int{6, 7, 8, 18, 19, 20, 21, 22, 23}},
}

func allHours() []int {
	hours := make([]int, 24)
	for i := range hours {
		hours[i] = i
	}
	return hours
}

func activeAt(p applianceProfile, hour int) bool {
	for _, h := range p.activeHours {
		if h == hour {
			return true
		}
	}
	return false
}

// enertrack-seed fills a user's history with plausible appliance usage so
// dashboards and forecast training have something to work with.
func main() {
	userID := flag.Int64("user", 1, "user id to seed records for")
	days := flag.Int("days", 90, "days of history to generate")
	tariff := flag.Float64("tariff", 7.0, "cost per kWh")
	seed := flag.Int64("seed", time.Now().UnixNano(), "rng seed")
	flag.Parse()

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

	st := store.NewStore(pool)
	rng := rand.New(rand.NewSource(*seed))
	tariffDec := decimal.NewFromFloat(*tariff)

	added := 0
	start := time.Now().AddDate(0, 0, -*days)
	for day := 0; day < *days; day++ {
		date := start.AddDate(0, 0, day)

		activity := 1.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			activity = 1.3
		}

		for hour := 0; hour < 24; hour++ {
			ts := time.Date(date.Year(), date.Month(), date.Day(), hour, rng.Intn(60), 0, 0, time.UTC)

			for _, app := range appliances {
				probability := app.probability * 0.3
				if activeAt(app, hour) {
					probability = app.probability * activity
				}
				if rng.Float64() >= probability {
					continue
				}

				kwh := app.typicalKWh * (0.8 + 0.4*rng.Float64())
				duration := 1.0
				if app.name != "Refrigerator" && app.name != "Water Heater" {
					duration = 0.5 + 1.5*rng.Float64()
				}

				rec := &domain.EnergyRecord{
					UserID:        *userID,
					RecordedAt:    ts,
					ApplianceName: app.name,
					PowerUsageKWh: kwh,
					DurationHours: duration,
					Cost:          tariffDec.Mul(decimal.NewFromFloat(kwh)).Round(2),
				}
				if _, err := st.InsertEnergyRecord(ctx, rec); err != nil {
					logger.Fatal(ctx, err)
				}
				added++
			}
		}

		if (day+1)%10 == 0 {
			logger.Infof(ctx, "seeded %d/%d days", day+1, *days)
		}
	}

	logger.Infof(ctx, "done, %d records added for user %d", added, *userID)
}
