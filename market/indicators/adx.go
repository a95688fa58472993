package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/tradesheet/market"
)

// ADX is Wilder's Average Directional Index over daily bars.
//
// The first bar only primes the previous close. The next N bars seed the
// smoothed true range and directional movement. The index is the mean of the
// first N DX readings, the last seeding bar giving the first, so a 14-day ADX
// is ready on the 28th bar.
type ADX struct {
	n    int
	name string

	prev    market.Candle
	hasPrev bool
	bars    int

	tr, plusDM, minusDM wilderSum

	plusDI, minusDI, dx float64

	adx     float64
	dxSeed  float64
	dxCount int
	ready   bool
}

// wilderSum accumulates n raw values, then switches to Wilder smoothing:
// next = prior - prior/n + v.
type wilderSum struct {
	v float64
}

func (w *wilderSum) seed(v float64)              { w.v += v }
func (w *wilderSum) smooth(v float64, n float64) { w.v = w.v - w.v/n + v }

func NewADX(period int) *ADX {
	if period <= 0 {
		panic("ADX period must be > 0")
	}
	return &ADX{n: period, name: fmt.Sprintf("ADX(%d)", period)}
}

func (a *ADX) Name() string     { return a.name }
func (a *ADX) Warmup() int      { return 2 * a.n }
func (a *ADX) Ready() bool      { return a.ready }
func (a *ADX) Float64() float64 { return a.adx }

func (a *ADX) PlusDI() float64  { return a.plusDI }
func (a *ADX) MinusDI() float64 { return a.minusDI }
func (a *ADX) DX() float64      { return a.dx }

func (a *ADX) Reset() {
	*a = ADX{n: a.n, name: a.name}
}

// Update consumes the next closed daily bar.
func (a *ADX) Update(c market.Candle) {
	if !a.hasPrev {
		a.prev, a.hasPrev = c, true
		return
	}
	tr, up, down := movement(a.prev, c)
	a.prev = c
	a.bars++

	nf := float64(a.n)
	if a.bars <= a.n {
		a.tr.seed(tr)
		a.plusDM.seed(up)
		a.minusDM.seed(down)
		if a.bars < a.n {
			return
		}
	} else {
		a.tr.smooth(tr, nf)
		a.plusDM.smooth(up, nf)
		a.minusDM.smooth(down, nf)
	}

	a.plusDI, a.minusDI = directionalIndex(a.plusDM.v, a.minusDM.v, a.tr.v)
	a.dx = dxOf(a.plusDI, a.minusDI)

	switch {
	case a.ready:
		a.adx = (a.adx*(nf-1) + a.dx) / nf
	default:
		a.dxSeed += a.dx
		a.dxCount++
		if a.dxCount >= a.n {
			a.adx = a.dxSeed / nf
			a.ready = true
		}
	}
}

// movement returns the true range and the +DM/-DM of cur against prev.
// Only the larger of the two moves counts, and only when positive.
func movement(prev, cur market.Candle) (tr, plusDM, minusDM float64) {
	h, l := cur.High.InexactFloat64(), cur.Low.InexactFloat64()
	pc := prev.Close.InexactFloat64()

	tr = math.Max(h-l, math.Max(math.Abs(h-pc), math.Abs(l-pc)))

	up := h - prev.High.InexactFloat64()
	down := prev.Low.InexactFloat64() - l
	if up > down && up > 0 {
		plusDM = up
	}
	if down > up && down > 0 {
		minusDM = down
	}
	return tr, plusDM, minusDM
}

func directionalIndex(plusDM, minusDM, tr float64) (float64, float64) {
	if tr <= 0 {
		return 0, 0
	}
	return 100 * plusDM / tr, 100 * minusDM / tr
}

func dxOf(plusDI, minusDI float64) float64 {
	sum := plusDI + minusDI
	if sum <= 0 {
		return 0
	}
	return 100 * math.Abs(plusDI-minusDI) / sum
}
