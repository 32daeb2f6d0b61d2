// Package pricefill normalizes sparse market price samples into a contiguous
// daily series for charting.
package pricefill

import (
	"errors"
	"sort"
	"time"

	"github.com/cocoguard/cart-session-service/internal/model"
)

// WindowDays is the fixed length of the output series.
const WindowDays = 15

const dayFormat = "2006-01-02"

// Accepted input date layouts, tried in order.
var layouts = []string{
	dayFormat,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ErrBadDate reports an input date that matches none of the accepted
// calendar layouts.
var ErrBadDate = errors.New("unparseable calendar date")

// ParseDay parses a calendar date in any accepted layout and truncates it to
// midnight UTC.
func ParseDay(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncate(t), nil
		}
	}
	return time.Time{}, ErrBadDate
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type sample struct {
	day   time.Time
	price *float64
}

// Fill produces exactly WindowDays points covering [today-14, today], one
// per calendar day, dates formatted YYYY-MM-DD.
//
// Each day carries forward the price of the most recent sample dated on or
// before it. Duplicate sample dates resolve last-in-input wins. Samples
// dated after the window are never consulted; samples before the window
// only seed the initial carried price. Leading days with no qualifying
// sample are backfilled from the first known price; with no samples at all,
// every price is nil.
func Fill(points []model.PricePoint, today time.Time) []model.PricePoint {
	samples := make([]sample, 0, len(points))
	for _, p := range points {
		day, err := ParseDay(p.Date)
		if err != nil {
			continue
		}
		var price *float64
		if p.Price != nil {
			v := *p.Price
			price = &v
		}
		samples = append(samples, sample{day: day, price: price})
	}
	// Stable keeps input order among equal dates, so the last duplicate
	// processed wins the carry.
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].day.Before(samples[j].day)
	})

	start := truncate(today).AddDate(0, 0, -(WindowDays - 1))
	out := make([]model.PricePoint, 0, WindowDays)
	idx := 0
	var carry *float64
	for d := 0; d < WindowDays; d++ {
		day := start.AddDate(0, 0, d)
		for idx < len(samples) && !samples[idx].day.After(day) {
			carry = samples[idx].price
			idx++
		}
		out = append(out, model.PricePoint{Date: day.Format(dayFormat), Price: carry})
	}

	var first *float64
	for i := range out {
		if out[i].Price != nil {
			first = out[i].Price
			break
		}
	}
	if first != nil {
		for i := range out {
			if out[i].Price != nil {
				break
			}
			v := *first
			out[i].Price = &v
		}
	}
	return out
}
