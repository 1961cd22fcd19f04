package trends

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	domnca "github.com/kangopak/ohisee-api/internal/domain/nca"
)

// MonthlyTrend counts NCAs opened/closed/still open per calendar month.
type MonthlyTrend struct {
	Month     string `json:"month"`
	Opened    int    `json:"opened"`
	Closed    int    `json:"closed"`
	StillOpen int    `json:"still_open"`
}

// AgeBuckets is the close-out age histogram for one month.
type AgeBuckets struct {
	Month       string `json:"month"`
	Under10Days int    `json:"less_than_10_days"`
	Under20Days int    `json:"less_than_20_days"`
	Under30Days int    `json:"less_than_30_days"`
	Over30Days  int    `json:"more_than_30_days"`
}

// Share is one category/source slice with its independently rounded
// percentage. Slices are sorted by count descending; the percentages are
// not reconciled to exactly 100.
type Share struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// YearSummary aggregates one calendar year of NCAs.
type YearSummary struct {
	MonthlyTrends     []MonthlyTrend `json:"monthly_trends"`
	AgeAnalysis       []AgeBuckets   `json:"age_analysis"`
	CategoryBreakdown []Share        `json:"category_breakdown"`
	SourceBreakdown   []Share        `json:"source_breakdown"`
	TotalOpened       int            `json:"total_opened"`
	TotalClosed       int            `json:"total_closed"`
	TotalStillOpen    int            `json:"total_still_open"`
}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Fixed keyword cascade for category classification; first matching
// bucket wins, unmatched descriptions fall into Other.
var categoryCascade = []struct {
	name     string
	keywords []string
}{
	{"Seal Integrity", []string{"seal", "gusset", "zipper"}},
	{"Equipment & Tools", []string{"equipment", "machine", "tool"}},
	{"Contamination", []string{"contamination", "foreign"}},
	{"Print & Registration", []string{"print", "registration", "panel"}},
	{"Material Quality", []string{"material", "supplier"}},
	{"Packing & Quantity", []string{"packing", "quantity"}},
}

// Categorize classifies a free-text NC description into a fixed bucket.
func Categorize(description string) string {
	d := strings.ToLower(description)
	for _, c := range categoryCascade {
		for _, kw := range c.keywords {
			if strings.Contains(d, kw) {
				return c.name
			}
		}
	}
	return "Other"
}

// sourceOf attributes an NCA to supplier, in-house or customer.
func sourceOf(n *domnca.NCA) string {
	switch {
	case n.NCType == domnca.TypeRawMaterial && n.SupplierName != "":
		return "supplier"
	case n.NCType == domnca.TypeFinishedGoods || n.NCType == domnca.TypeWIP:
		return "in-house"
	default:
		return "customer"
	}
}

// AggregateYear buckets a year's NCAs into the trend summary. Pure
// function over the fetched rows; an empty input yields a zeroed summary
// with all twelve months present.
func AggregateYear(ncas []*domnca.NCA, now time.Time) YearSummary {
	var (
		monthly  [12]MonthlyTrend
		ages     [12]AgeBuckets
		catCount = map[string]int{}
		srcCount = map[string]int{"supplier": 0, "in-house": 0, "customer": 0}
	)
	for i := range monthly {
		monthly[i].Month = monthNames[i]
		ages[i].Month = monthNames[i]
	}

	closed := 0
	for _, n := range ncas {
		m := int(n.CreatedAt.Month()) - 1
		monthly[m].Opened++

		if n.Status == domnca.StatusClosed && n.CloseOutDate != nil {
			closed++
			cm := int(n.CloseOutDate.Month()) - 1
			monthly[cm].Closed++
		} else {
			monthly[m].StillOpen++
		}

		// Age relative to raise date: closed NCAs use the close-out
		// date, open ones their due date, else today.
		ref := now
		if n.Status == domnca.StatusClosed && n.CloseOutDate != nil {
			ref = *n.CloseOutDate
		} else if n.CloseOutDueDate != nil {
			ref = *n.CloseOutDueDate
		}
		days := int(math.Floor(ref.Sub(n.CreatedAt).Hours() / 24))
		switch {
		case days < 10:
			ages[m].Under10Days++
		case days < 20:
			ages[m].Under20Days++
		case days < 30:
			ages[m].Under30Days++
		default:
			ages[m].Over30Days++
		}

		srcCount[sourceOf(n)]++
		catCount[Categorize(n.Description)]++
	}

	return YearSummary{
		MonthlyTrends:     monthly[:],
		AgeAnalysis:       ages[:],
		CategoryBreakdown: toShares(catCount),
		SourceBreakdown:   toShares(srcCount),
		TotalOpened:       len(ncas),
		TotalClosed:       closed,
		TotalStillOpen:    len(ncas) - closed,
	}
}

// toShares converts counts to percentage slices. Each percentage rounds
// independently, so the sum can drift from 100 by up to the bucket count.
func toShares(counts map[string]int) []Share {
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]Share, 0, len(counts))
	for name, c := range counts {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(c) / float64(total) * 100))
		}
		out = append(out, Share{Name: name, Count: c, Percentage: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// WeekCount is one point of the rolling 12-week NCA series.
type WeekCount struct {
	Week  string `json:"week"`
	Count int    `json:"count"`
}

// WeeklyCounts buckets NCAs into the trailing 12 ISO-style weeks ending
// today. NCAs outside the window are ignored.
func WeeklyCounts(ncas []*domnca.NCA, now time.Time) []WeekCount {
	keys := make([]string, 0, 12)
	counts := map[string]int{}
	for i := 11; i >= 0; i-- {
		k := weekKey(now.AddDate(0, 0, -i*7))
		keys = append(keys, k)
		counts[k] = 0
	}
	for _, n := range ncas {
		k := weekKey(n.CreatedAt)
		if _, ok := counts[k]; ok {
			counts[k]++
		}
	}
	out := make([]WeekCount, len(keys))
	for i, k := range keys {
		out[i] = WeekCount{Week: k, Count: counts[k]}
	}
	return out
}

func weekKey(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", y, w)
}
