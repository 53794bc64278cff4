package energy

import (
	"context"
	"fmt"
	"time"

	"github.com/ebalakin/enertrack/internal/domain"
)

const insightWindowDays = 30

// Insights builds personalized observations from the last 30 days. Rules
// are heuristic; each one only fires when its data is actually present.
func (s *Service) Insights(ctx context.Context, user *domain.User) ([]domain.Insight, error) {
	daily, err := s.DailyConsumption(ctx, user.ID, insightWindowDays)
	if err != nil {
		return nil, err
	}
	appliances, err := s.ApplianceConsumption(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return buildInsights(user, daily, appliances), nil
}

// buildInsights expects daily in ascending date order.
func buildInsights(user *domain.User, daily []*domain.DailyAggregate, appliances []*domain.ApplianceAggregate) []domain.Insight {
	insights := []domain.Insight{}
	if len(daily) == 0 {
		return insights
	}

	recent := lastN(daily, 7)
	avg := meanKWh(recent)
	today := daily[len(daily)-1].TotalKWh

	if today > avg*1.3 {
		insights = append(insights, domain.Insight{
			Type:     "alert",
			Priority: "high",
			Title:    "High Consumption Alert",
			Text: fmt.Sprintf("Your consumption today (%.2f kWh) is 30%% higher than your weekly average. Check for appliances left on.",
				today),
		})
	}
	if today < avg*0.8 {
		insights = append(insights, domain.Insight{
			Type:     "success",
			Priority: "medium",
			Title:    "Great Job!",
			Text: fmt.Sprintf("Your consumption today (%.2f kWh) is 20%% lower than your average. Keep it up!",
				today),
		})
	}

	insights = append(insights, domain.Insight{
		Type:     "info",
		Priority: "medium",
		Title:    "Peak Usage Optimization",
		Text:     "Your peak usage is typically between 6 PM - 9 PM. Consider shifting some activities to off-peak hours (11 PM - 6 AM) to save on costs.",
	})

	if len(appliances) > 0 {
		top := appliances[0]
		topCost, _ := top.TotalCost.Round(2).Float64()
		insights = append(insights, domain.Insight{
			Type:     "tip",
			Priority: "high",
			Title:    "Top Energy Consumer",
			Text: fmt.Sprintf("%s is your highest energy consumer (%.1f kWh, %.2f). Consider upgrading to energy-efficient models.",
				top.ApplianceName, top.TotalKWh, topCost),
		})

		if len(appliances) >= 3 {
			var top3, all float64
			for i, a := range appliances {
				all += a.TotalKWh
				if i < 3 {
					top3 += a.TotalKWh
				}
			}
			if all > 0 {
				insights = append(insights, domain.Insight{
					Type:     "info",
					Priority: "medium",
					Title:    "Appliance Usage Pattern",
					Text: fmt.Sprintf("Your top 3 appliances consume %.0f%% of your total energy. Optimizing these can significantly reduce your bill.",
						top3/all*100),
				})
			}
		}
	}

	if len(daily) >= 14 {
		if insight, ok := weekdayWeekendInsight(daily); ok {
			insights = append(insights, insight)
		}
	}

	if len(daily) >= 7 {
		if insight, ok := trendInsight(daily); ok {
			insights = append(insights, insight)
		}
	}

	tariff, _ := user.TariffRate.Float64()
	save15 := avg * 0.15 * tariff * 30
	save25 := avg * 0.25 * tariff * 30
	insights = append(insights, domain.Insight{
		Type:     "success",
		Priority: "high",
		Title:    "Savings Opportunity",
		Text: fmt.Sprintf("By reducing consumption by 15%%, you could save %.2f/month. A 25%% reduction could save %.2f/month!",
			save15, save25),
	})

	monthlyCarbon := avg * 30 * carbonPerKWh
	insights = append(insights, domain.Insight{
		Type:     "info",
		Priority: "medium",
		Title:    "Environmental Impact",
		Text: fmt.Sprintf("Your monthly carbon footprint is ~%.1f kg CO2. That's equivalent to planting %.1f trees to offset!",
			monthlyCarbon, monthlyCarbon/20),
	})

	return insights
}

func weekdayWeekendInsight(daily []*domain.DailyAggregate) (domain.Insight, bool) {
	var weekday, weekend []*domain.DailyAggregate
	for i := len(daily) - 1; i >= 0; i-- {
		d := daily[i]
		if wd := d.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			if len(weekend) < 4 {
				weekend = append(weekend, d)
			}
		} else if len(weekday) < 7 {
			weekday = append(weekday, d)
		}
	}
	if len(weekday) == 0 || len(weekend) == 0 {
		return domain.Insight{}, false
	}

	weekdayAvg := meanKWh(weekday)
	weekendAvg := meanKWh(weekend)

	switch {
	case weekendAvg > weekdayAvg*1.2:
		return domain.Insight{
			Type:     "info",
			Priority: "low",
			Title:    "Weekend Usage Pattern",
			Text: fmt.Sprintf("Your weekend consumption (%.1f kWh) is %.0f%% higher than weekdays (%.1f kWh). More people at home?",
				weekendAvg, (weekendAvg/weekdayAvg-1)*100, weekdayAvg),
		}, true
	case weekdayAvg > weekendAvg*1.2:
		return domain.Insight{
			Type:     "info",
			Priority: "low",
			Title:    "Weekday Usage Pattern",
			Text: fmt.Sprintf("Your weekday consumption (%.1f kWh) is %.0f%% higher than weekends. Consider reducing daytime appliance usage.",
				weekdayAvg, (weekdayAvg/weekendAvg-1)*100),
		}, true
	}
	return domain.Insight{}, false
}

// trendInsight compares the 3 most recent days against the 4 before them.
func trendInsight(daily []*domain.DailyAggregate) (domain.Insight, bool) {
	recent := meanKWh(lastN(daily, 3))
	earlier := meanKWh(lastN(daily[:len(daily)-3], 4))

	switch {
	case recent > earlier*1.15:
		return domain.Insight{
			Type:     "warning",
			Priority: "high",
			Title:    "Increasing Trend Detected",
			Text: fmt.Sprintf("Your consumption is increasing. Recent average: %.1f kWh vs earlier: %.1f kWh. Monitor your usage closely.",
				recent, earlier),
		}, true
	case recent < earlier*0.85:
		return domain.Insight{
			Type:     "success",
			Priority: "medium",
			Title:    "Decreasing Trend - Excellent!",
			Text: fmt.Sprintf("Your consumption is decreasing! Recent average: %.1f kWh vs earlier: %.1f kWh. Great progress!",
				recent, earlier),
		}, true
	}
	return domain.Insight{}, false
}

func lastN(daily []*domain.DailyAggregate, n int) []*domain.DailyAggregate {
	if len(daily) <= n {
		return daily
	}
	return daily[len(daily)-n:]
}

func meanKWh(daily []*domain.DailyAggregate) float64 {
	if len(daily) == 0 {
		return 0
	}
	var sum float64
	for _, d := range daily {
		sum += d.TotalKWh
	}
	return sum / float64(len(daily))
}
