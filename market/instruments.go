package market

import "strings"

type InstrumentMeta struct {
	Name     string
	Exchange string
	Currency string
}

// Instruments lists the tracked NSE universe.
var Instruments = map[string]InstrumentMeta{
	"RELIANCE.NS": {Name: "RELIANCE.NS", Exchange: "NSE", Currency: "INR"},
	"TCS.NS":      {Name: "TCS.NS", Exchange: "NSE", Currency: "INR"},
	"INFY.NS":     {Name: "INFY.NS", Exchange: "NSE", Currency: "INR"},
}

// DefaultInstruments is the watch list used when none is configured.
var DefaultInstruments = []string{"RELIANCE.NS", "TCS.NS", "INFY.NS"}

// CurrencySymbol returns the display symbol for an instrument's quote currency.
// Unknown instruments are inferred from the Yahoo suffix.
func CurrencySymbol(instrument string) string {
	cur := ""
	if meta, ok := Instruments[instrument]; ok {
		cur = meta.Currency
	} else if strings.HasSuffix(instrument, ".NS") || strings.HasSuffix(instrument, ".BO") {
		cur = "INR"
	}
	switch cur {
	case "INR":
		return "₹"
	case "USD", "":
		return "$"
	default:
		return cur + " "
	}
}
