package market

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Candle is one daily OHLC bar. Date is the trading day at midnight UTC.
type Candle struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// Day truncates t to midnight UTC of its calendar day in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SortCandles orders candles by date and drops later duplicates of a day.
func SortCandles(cs []Candle) []Candle {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Date.Before(cs[j].Date) })
	out := cs[:0]
	for i, c := range cs {
		if i > 0 && c.Date.Equal(out[len(out)-1].Date) {
			continue
		}
		out = append(out, c)
	}
	return out
}
