package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const usagePage = `
<html><body>
<h1>Monthly Usage Statement</h1>
<table>
  <tr><th>Date</th><th>Consumption</th></tr>
  <tr><td>2025-03-01</td><td>9.4 kWh</td></tr>
  <tr><td>02.03.2025</td><td>10,2</td></tr>
  <tr><td>2025-03-03</td><td>n/a</td></tr>
  <tr><td>not a date</td><td>5.0</td></tr>
  <tr><td>2025-03-04</td><td>8.1</td></tr>
</table>
</body></html>`

func TestParseUsageTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(usagePage))
	if err != nil {
		t.Fatal(err)
	}

	rows, skipped := parseUsageTable(doc)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}

	want := []struct {
		date string
		kwh  float64
	}{
		{"2025-03-01", 9.4},
		{"2025-03-02", 10.2},
		{"2025-03-04", 8.1},
	}
	for i, w := range want {
		if got := rows[i].date.Format("2006-01-02"); got != w.date {
			t.Errorf("row %d date = %s, want %s", i, got, w.date)
		}
		if rows[i].kwh != w.kwh {
			t.Errorf("row %d kwh = %v, want %v", i, rows[i].kwh, w.kwh)
		}
	}
}

func TestParseDateLayouts(t *testing.T) {
	for _, s := range []string{"2025-03-15", "15.03.2025", "15/03/2025", "Mar 15, 2025"} {
		d, err := parseDate(s)
		if err != nil {
			t.Errorf("parseDate(%q): %v", s, err)
			continue
		}
		want := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
		if !d.Equal(want) {
			t.Errorf("parseDate(%q) = %v, want %v", s, d, want)
		}
	}
}

func TestParseKWh(t *testing.T) {
	cases := map[string]float64{
		"9.4":     9.4,
		"9.4 kWh": 9.4,
		"10,2":    10.2,
		"12 KWH":  12,
	}
	for in, want := range cases {
		got, err := parseKWh(in)
		if err != nil {
			t.Errorf("parseKWh(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("parseKWh(%q) = %v, want %v", in, got, want)
		}
	}
}
