package signals

import (
	"github.com/rustyeddy/tradesheet/market"
	"github.com/rustyeddy/tradesheet/market/strategies"
)

// Evaluate feeds candles through strat and keeps every non-Hold decision.
func Evaluate(strat strategies.Strategy, candles []market.Candle) []Signal {
	out := make([]Signal, 0, 8)
	for _, c := range candles {
		d := strat.Update(c)
		if d.Signal == strategies.Hold {
			continue
		}
		out = append(out, Signal{
			Date:  market.Day(d.Date),
			Close: d.Close,
			Label: d.Signal.String(),
		})
	}
	return out
}

// Latest returns the most recent signal, if any.
func Latest(ss []Signal) (Signal, bool) {
	if len(ss) == 0 {
		return Signal{}, false
	}
	return ss[len(ss)-1], true
}
