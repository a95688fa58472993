package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/rustyeddy/tradesheet/market"
)

// Yahoo pulls daily bars from the Yahoo Finance chart API.
type Yahoo struct{}

func NewYahoo() *Yahoo { return &Yahoo{} }

func (y *Yahoo) Candles(ctx context.Context, instrument string, from, to time.Time) ([]market.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if to.IsZero() {
		to = time.Now()
	}

	params := &chart.Params{
		Symbol:   instrument,
		Start:    datetime.New(&from),
		End:      datetime.New(&to),
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	out := make([]market.Candle, 0, 64)
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bar := iter.Bar()
		// Yahoo reports holidays as zero bars.
		if bar.Close.IsZero() {
			continue
		}
		out = append(out, market.Candle{
			Date:   market.Day(time.Unix(int64(bar.Timestamp), 0).UTC()),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", instrument, err)
	}
	return market.SortCandles(out), nil
}
