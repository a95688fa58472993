// Package journal keeps the local trade journal and renders reconciled
// trades as Org documents.
package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradesheet/ledger"
)

// Entry is one journal line. Exit price and PnL stay null at Buy time and
// are never filled in afterwards.
type Entry struct {
	Date       time.Time
	Instrument string
	Action     ledger.Action
	EntryPrice decimal.Decimal
	ExitPrice  decimal.NullDecimal
	PnL        decimal.NullDecimal
}

type TradeJournal interface {
	Record(Entry) error
	Close() error
}
