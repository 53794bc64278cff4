package importer

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/logger"
	"github.com/ebalakin/enertrack/internal/pkg/store"
)

const defaultApplianceName = "Grid Import"

// Service imports historical usage from a utility provider's HTML usage
// page. Providers publish daily readings as a plain table, one row per day.
type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

type parsedRow struct {
	date time.Time
	kwh  float64
}

// ImportFromURL fetches the usage page, parses its reading table and stores
// one record per day under the given appliance name.
func (s *Service) ImportFromURL(ctx context.Context, user *domain.User, req *domain.ImportUsageRequest) (*domain.ImportUsageResponse, error) {
	doc, err := fetchDocument(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	applianceName := req.ApplianceName
	if applianceName == "" {
		applianceName = defaultApplianceName
	}

	rows, skipped := parseUsageTable(doc)
	logger.Infof(ctx, "parsed %d usage rows (%d skipped) from %s", len(rows), skipped, req.URL)

	var imported int
	var mx sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	for _, row := range rows {
		row := row
		eg.Go(func() error {
			rec := &domain.EnergyRecord{
				UserID:        user.ID,
				RecordedAt:    row.date,
				ApplianceName: applianceName,
				PowerUsageKWh: row.kwh,
				DurationHours: 24,
				Cost:          user.TariffRate.Mul(decimal.NewFromFloat(row.kwh)).Round(2),
			}
			if _, err := s.store.InsertEnergyRecord(egCtx, rec); err != nil {
				return fmt.Errorf("insert imported record for %s: %w", row.date.Format("2006-01-02"), err)
			}

			mx.Lock()
			imported++
			mx.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &domain.ImportUsageResponse{Imported: imported, Skipped: skipped}, nil
}

func fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	var resp *http.Response
	err := backoff.Retry(
		func() error {
			var httpErr error
			resp, httpErr = http.Get(url)
			if httpErr != nil {
				return fmt.Errorf("http.Get: %w", httpErr)
			}
			if resp.StatusCode != http.StatusOK {
				resp.Body.Close()
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 5),
			ctx,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch usage page: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}
	return doc, nil
}

// parseUsageTable walks every table row and keeps rows whose first cell
// parses as a date and second as a kWh reading. Header rows and malformed
// rows are counted as skipped.
func parseUsageTable(doc *goquery.Document) ([]parsedRow, int) {
	var rows []parsedRow
	var skipped int

	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			// Header rows use th cells.
			if tr.Find("th").Length() == 0 {
				skipped++
			}
			return
		}

		date, err := parseDate(strings.TrimSpace(cells.Eq(0).Text()))
		if err != nil {
			skipped++
			return
		}
		kwh, err := parseKWh(strings.TrimSpace(cells.Eq(1).Text()))
		if err != nil || kwh < 0 {
			skipped++
			return
		}

		rows = append(rows, parsedRow{date: date, kwh: kwh})
	})

	return rows, skipped
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02.01.2006", "02/01/2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseKWh(s string) (float64, error) {
	s = strings.TrimSuffix(strings.ToLower(s), "kwh")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	return strconv.ParseFloat(s, 64)
}
