package charts

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ebalakin/enertrack/internal/pkg/constants"
	"github.com/ebalakin/enertrack/internal/pkg/metrics"
	"github.com/ebalakin/enertrack/internal/pkg/store"
)

const cacheSize = 256

// Service renders consumption charts as PNGs. Rendered images are cached
// per user and chart for a short TTL since dashboard clients poll them.
type Service struct {
	store store.Store
	cache *expirable.LRU[string, []byte]
}

func NewService(s store.Store) *Service {
	ttl := viper.GetDuration(constants.ViperChartCacheTTL)
	return &Service{
		store: s,
		cache: expirable.NewLRU[string, []byte](cacheSize, nil, ttl),
	}
}

func (s *Service) cached(ctx context.Context, key string, kind string, render func() ([]byte, error)) ([]byte, error) {
	if png, ok := s.cache.Get(key); ok {
		metrics.ChartRendersTotal.WithLabelValues(kind, "hit").Inc()
		return png, nil
	}

	png, err := render()
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, png)
	metrics.ChartRendersTotal.WithLabelValues(kind, "miss").Inc()
	return png, nil
}

// Daily renders total consumption per day over the last `days` days as a
// filled line chart.
func (s *Service) Daily(ctx context.Context, userID int64, days int) ([]byte, error) {
	key := fmt.Sprintf("daily:%d:%d", userID, days)
	return s.cached(ctx, key, "daily", func() ([]byte, error) {
		daily, err := s.store.DailyAggregates(ctx, userID, time.Now().AddDate(0, 0, -days))
		if err != nil {
			return nil, err
		}
		if len(daily) == 0 {
			return nil, constants.ErrInsufficientData
		}

		values := make([]float64, len(daily))
		labels := make([]string, len(daily))
		for i, d := range daily {
			values[i] = d.TotalKWh
			labels[i] = d.Date.Format("Jan 02")
		}

		c := newCanvas("Daily Energy Consumption (kWh)")
		max := maxOf(values)
		c.drawAxes(max, "")
		c.line(values, max, colorPrimary, true)
		c.drawXLabels(labels, 12)
		return c.encodePNG()
	})
}

// Cost renders daily cost as bars.
func (s *Service) Cost(ctx context.Context, userID int64, days int) ([]byte, error) {
	key := fmt.Sprintf("cost:%d:%d", userID, days)
	return s.cached(ctx, key, "cost", func() ([]byte, error) {
		daily, err := s.store.DailyAggregates(ctx, userID, time.Now().AddDate(0, 0, -days))
		if err != nil {
			return nil, err
		}
		if len(daily) == 0 {
			return nil, constants.ErrInsufficientData
		}

		values := make([]float64, len(daily))
		labels := make([]string, len(daily))
		for i, d := range daily {
			values[i], _ = d.TotalCost.Float64()
			labels[i] = d.Date.Format("Jan 02")
		}

		c := newCanvas("Daily Energy Cost")
		max := maxOf(values)
		c.drawAxes(max, "")
		c.bars(values, max, func(int) color.RGBA { return colorSecondary })

		step := 1
		if len(labels) > 12 {
			step = (len(labels) + 11) / 12
		}
		c.dc.SetColor(colorText)
		for i := 0; i < len(labels); i += step {
			c.dc.DrawStringAnchored(labels[i], c.barX(i, len(labels)), c.plotY+c.plotH+16, 0.5, 0.5)
		}
		return c.encodePNG()
	})
}

// ApplianceBar renders the top 10 appliances by total consumption.
func (s *Service) ApplianceBar(ctx context.Context, userID int64) ([]byte, error) {
	key := fmt.Sprintf("appbar:%d", userID)
	return s.cached(ctx, key, "appliance_bar", func() ([]byte, error) {
		apps, err := s.store.ApplianceAggregates(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(apps) == 0 {
			return nil, constants.ErrInsufficientData
		}
		if len(apps) > 10 {
			apps = apps[:10]
		}

		c := newCanvas("Energy Consumption by Appliance (kWh)")
		var max float64
		for _, a := range apps {
			if a.TotalKWh > max {
				max = a.TotalKWh
			}
		}
		max = maxOf([]float64{max})

		// Horizontal bars, one row per appliance.
		rowH := c.plotH / float64(len(apps))
		barH := rowH * 0.6
		c.dc.SetColor(colorAxis)
		c.dc.DrawLine(c.plotX, c.plotY, c.plotX, c.plotY+c.plotH)
		c.dc.Stroke()

		for i, a := range apps {
			y := c.plotY + rowH*float64(i) + (rowH-barH)/2
			w := c.plotW * a.TotalKWh / max
			c.dc.SetColor(palette[i%len(palette)])
			c.dc.DrawRectangle(c.plotX, y, w, barH)
			c.dc.Fill()

			c.dc.SetColor(colorText)
			c.dc.DrawStringAnchored(a.ApplianceName, c.plotX+4, y-6, 0, 0.5)
			c.dc.DrawStringAnchored(fmt.Sprintf("%.1f", a.TotalKWh), c.plotX+w+6, y+barH/2, 0, 0.5)
		}
		return c.encodePNG()
	})
}

// AppliancePie renders consumption share per appliance.
func (s *Service) AppliancePie(ctx context.Context, userID int64) ([]byte, error) {
	key := fmt.Sprintf("apppie:%d", userID)
	return s.cached(ctx, key, "appliance_pie", func() ([]byte, error) {
		apps, err := s.store.ApplianceAggregates(ctx, userID)
		if err != nil {
			return nil, err
		}
		var total float64
		for _, a := range apps {
			total += a.TotalKWh
		}
		if total == 0 {
			return nil, constants.ErrInsufficientData
		}
		if len(apps) > 8 {
			apps = apps[:8]
		}

		c := newCanvas("Appliance Consumption Share")
		cx := c.plotX + c.plotW*0.35
		cy := c.plotY + c.plotH/2
		radius := math.Min(c.plotW, c.plotH) * 0.4

		angle := -math.Pi / 2
		for i, a := range apps {
			frac := a.TotalKWh / total
			end := angle + frac*2*math.Pi

			c.dc.MoveTo(cx, cy)
			c.dc.DrawArc(cx, cy, radius, angle, end)
			c.dc.ClosePath()
			c.dc.SetColor(palette[i%len(palette)])
			c.dc.Fill()
			angle = end
		}

		// Legend on the right.
		legendX := c.plotX + c.plotW*0.72
		for i, a := range apps {
			y := c.plotY + 20*float64(i)
			c.dc.SetColor(palette[i%len(palette)])
			c.dc.DrawRectangle(legendX, y, 12, 12)
			c.dc.Fill()
			c.dc.SetColor(colorText)
			label := fmt.Sprintf("%s (%.0f%%)", a.ApplianceName, a.TotalKWh/total*100)
			c.dc.DrawStringAnchored(label, legendX+18, y+6, 0, 0.5)
		}
		return c.encodePNG()
	})
}

// Monthly renders total consumption per calendar month.
func (s *Service) Monthly(ctx context.Context, userID int64, months int) ([]byte, error) {
	key := fmt.Sprintf("monthly:%d:%d", userID, months)
	return s.cached(ctx, key, "monthly", func() ([]byte, error) {
		rows, err := s.store.MonthlyAggregates(ctx, userID, months)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, constants.ErrInsufficientData
		}

		// Rows arrive newest first; plot chronologically.
		values := make([]float64, len(rows))
		labels := make([]string, len(rows))
		for i, m := range rows {
			j := len(rows) - 1 - i
			values[j] = m.TotalKWh
			labels[j] = fmt.Sprintf("%d-%02d", m.Year, m.Month)
		}

		c := newCanvas("Monthly Energy Consumption (kWh)")
		max := maxOf(values)
		c.drawAxes(max, "")
		c.bars(values, max, func(int) color.RGBA { return colorAccent })
		c.dc.SetColor(colorText)
		for i, label := range labels {
			c.dc.DrawStringAnchored(label, c.barX(i, len(labels)), c.plotY+c.plotH+16, 0.5, 0.5)
		}
		return c.encodePNG()
	})
}

// WeeklyComparison renders average consumption per weekday, weekends
// highlighted.
func (s *Service) WeeklyComparison(ctx context.Context, userID int64, days int) ([]byte, error) {
	key := fmt.Sprintf("weekly:%d:%d", userID, days)
	return s.cached(ctx, key, "weekly_comparison", func() ([]byte, error) {
		daily, err := s.store.DailyAggregates(ctx, userID, time.Now().AddDate(0, 0, -days))
		if err != nil {
			return nil, err
		}
		if len(daily) == 0 {
			return nil, constants.ErrInsufficientData
		}

		var sums, counts [7]float64
		for _, d := range daily {
			idx := (int(d.Date.Weekday()) + 6) % 7
			sums[idx] += d.TotalKWh
			counts[idx]++
		}

		values := make([]float64, 7)
		for i := range values {
			if counts[i] > 0 {
				values[i] = sums[i] / counts[i]
			}
		}
		labels := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

		c := newCanvas("Average Consumption by Weekday (kWh)")
		max := maxOf(values)
		c.drawAxes(max, "")
		c.bars(values, max, func(i int) color.RGBA {
			if i >= 5 {
				return colorHighlight
			}
			return colorPrimary
		})
		c.dc.SetColor(colorText)
		for i, label := range labels {
			c.dc.DrawStringAnchored(label, c.barX(i, 7), c.plotY+c.plotH+16, 0.5, 0.5)
		}
		return c.encodePNG()
	})
}

// HourlyPattern renders the 24-hour usage profile with the peak hour
// highlighted.
func (s *Service) HourlyPattern(ctx context.Context, userID int64) ([]byte, error) {
	key := fmt.Sprintf("hourly:%d", userID)
	return s.cached(ctx, key, "hourly_pattern", func() ([]byte, error) {
		rows, err := s.store.HourlyAverages(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, constants.ErrInsufficientData
		}

		values := make([]float64, 24)
		for _, r := range rows {
			if r.Hour >= 0 && r.Hour < 24 {
				values[r.Hour] = r.AvgKWh
			}
		}
		peak := 0
		for h, v := range values {
			if v > values[peak] {
				peak = h
			}
		}

		c := newCanvas("Average Hourly Usage Pattern (kWh)")
		max := maxOf(values)
		c.drawAxes(max, "")
		c.bars(values, max, func(i int) color.RGBA {
			if i == peak {
				return colorHighlight
			}
			return colorPrimary
		})
		c.dc.SetColor(colorText)
		for h := 0; h < 24; h += 3 {
			c.dc.DrawStringAnchored(fmt.Sprintf("%02d:00", h), c.barX(h, 24), c.plotY+c.plotH+16, 0.5, 0.5)
		}
		return c.encodePNG()
	})
}

// DashboardBundle renders the main dashboard charts concurrently.
type DashboardBundle struct {
	Daily      []byte
	Cost       []byte
	Appliances []byte
	Weekly     []byte
}

func (s *Service) Dashboard(ctx context.Context, userID int64, days int) (*DashboardBundle, error) {
	var bundle DashboardBundle

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bundle.Daily, err = s.Daily(ctx, userID, days)
		return
	})
	g.Go(func() (err error) {
		bundle.Cost, err = s.Cost(ctx, userID, days)
		return
	})
	g.Go(func() (err error) {
		bundle.Appliances, err = s.ApplianceBar(ctx, userID)
		return
	})
	g.Go(func() (err error) {
		bundle.Weekly, err = s.WeeklyComparison(ctx, userID, days)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &bundle, nil
}
