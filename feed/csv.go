package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradesheet/ledger"
	"github.com/rustyeddy/tradesheet/market"
)

// CSVDir reads one file per instrument, <dir>/<instrument>.csv, with rows:
//
//	date,open,high,low,close[,volume]
//
// A single header row is allowed. Empty or short rows are skipped.
type CSVDir struct {
	Dir string
}

func NewCSVDir(dir string) *CSVDir {
	return &CSVDir{Dir: dir}
}

func (c *CSVDir) Path(instrument string) string {
	return filepath.Join(c.Dir, instrument+".csv")
}

func (c *CSVDir) Candles(ctx context.Context, instrument string, from, to time.Time) ([]market.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.Path(instrument))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cs, err := ReadCandles(f, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", instrument, err)
	}
	return cs, nil
}

// ReadCandles parses candle rows from r, keeping those dated in [from, to).
func ReadCandles(r io.Reader, from, to time.Time) ([]market.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var out []market.Candle
	first := true
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 {
			continue
		}

		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(row[0]), "date") {
				continue
			}
		}

		c, ok, err := parseCandleRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok || !inRange(c.Date, from, to) {
			continue
		}
		out = append(out, c)
	}
	return market.SortCandles(out), nil
}

func parseCandleRow(row []string) (market.Candle, bool, error) {
	// date,open,high,low,close
	if len(row) < 5 {
		return market.Candle{}, false, nil
	}
	ds := strings.TrimSpace(row[0])
	if ds == "" {
		return market.Candle{}, false, nil
	}
	d, err := time.Parse("2006-01-02", ds)
	if err != nil {
		return market.Candle{}, false, fmt.Errorf("bad date %q: %w", ds, err)
	}

	var px [4]decimal.Decimal
	names := [4]string{"open", "high", "low", "close"}
	for i := range px {
		px[i], err = ledger.ParsePrice(row[i+1])
		if err != nil {
			return market.Candle{}, false, fmt.Errorf("bad %s: %w", names[i], err)
		}
	}

	var vol int64
	if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
		vol, err = strconv.ParseInt(strings.TrimSpace(row[5]), 10, 64)
		if err != nil {
			return market.Candle{}, false, fmt.Errorf("bad volume %q: %w", row[5], err)
		}
	}

	return market.Candle{
		Date:   d,
		Open:   px[0],
		High:   px[1],
		Low:    px[2],
		Close:  px[3],
		Volume: vol,
	}, true, nil
}
