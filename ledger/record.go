// Package ledger holds the append-only signal ledger: the record type, the raw
// tabular row it is persisted as, and the store contract backends implement.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the calendar-date layout used for observed dates.
	DateLayout = "2006-01-02"
	// LoggedAtLayout is the wall-clock layout used for logged_at.
	LoggedAtLayout = "2006-01-02 15:04:05"
)

// Header is the column order of the ledger table.
var Header = []string{"logged_at", "instrument", "date", "signal", "close"}

type Action int

const (
	None Action = iota
	Buy
	Sell
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return "None"
	}
}

// ParseAction maps a signal label to an Action. Matching is case-insensitive
// and ignores surrounding whitespace; anything else is None.
func ParseAction(s string) Action {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy
	case "sell":
		return Sell
	default:
		return None
	}
}

// Record is one observed signal. Records are values and are never mutated
// after they have been appended.
type Record struct {
	LoggedAt   time.Time
	Instrument string
	Date       time.Time
	Action     Action
	Price      decimal.Decimal
}

// Row is the raw, unvalidated form of a record as it sits in the store.
type Row struct {
	LoggedAt   string `json:"logged_at"`
	Instrument string `json:"instrument"`
	Date       string `json:"date"`
	Signal     string `json:"signal"`
	Close      string `json:"close"`
}

// Row renders r into its persisted form.
func (r Record) Row() Row {
	return Row{
		LoggedAt:   r.LoggedAt.Format(LoggedAtLayout),
		Instrument: r.Instrument,
		Date:       r.Date.Format(DateLayout),
		Signal:     r.Action.String(),
		Close:      r.Price.String(),
	}
}

// Cells returns the row in Header order.
func (r Row) Cells() []string {
	return []string{r.LoggedAt, r.Instrument, r.Date, r.Signal, r.Close}
}

// RowFromCells builds a Row from cells in Header order. Short rows are padded
// with empty strings so malformed input still yields a Row.
func RowFromCells(cells []string) Row {
	get := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}
	return Row{
		LoggedAt:   get(0),
		Instrument: get(1),
		Date:       get(2),
		Signal:     get(3),
		Close:      get(4),
	}
}

var dateLayouts = []string{
	DateLayout,
	LoggedAtLayout,
	time.RFC3339,
	"2006/01/02",
}

// ParseDate accepts the date layouts seen in ledger rows.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}

// Prices outside these bounds are rejected: arithmetic on decimals rescales
// to the smaller exponent, so a cell like "1e-200000000" would allocate a
// coefficient with hundreds of millions of digits.
const (
	maxPriceExponent = 32
	maxPriceBits     = 128
)

// ParsePrice coerces a close cell into a decimal.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unparsable price %q: %w", s, err)
	}
	if exp := d.Exponent(); exp > maxPriceExponent || exp < -maxPriceExponent {
		return decimal.Decimal{}, fmt.Errorf("price %q out of range: exponent %d", s, exp)
	}
	if d.Coefficient().BitLen() > maxPriceBits {
		return decimal.Decimal{}, fmt.Errorf("price %q out of range: too many digits", s)
	}
	return d, nil
}

// Parse coerces the date and close cells of a row. Rows whose date or price
// cannot be coerced return an error; the signal label is not validated here.
func (r Row) Parse() (Record, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return Record{}, err
	}
	price, err := ParsePrice(r.Close)
	if err != nil {
		return Record{}, err
	}
	// logged_at is informational; a bad value becomes the zero time.
	loggedAt, _ := time.Parse(LoggedAtLayout, strings.TrimSpace(r.LoggedAt))
	return Record{
		LoggedAt:   loggedAt,
		Instrument: r.Instrument,
		Date:       date,
		Action:     ParseAction(r.Signal),
		Price:      price,
	}, nil
}
