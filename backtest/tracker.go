package backtest

import (
	"fmt"
	"time"
)

type Side string

const Long Side = "long"

// State is the position state of a Tracker.
type State int8

const (
	Flat State = iota
	InLong
)

func (s State) String() string {
	switch s {
	case Flat:
		return "FLAT"
	case InLong:
		return "LONG"
	}
	return fmt.Sprintf("State(%d)", int8(s))
}

// Transition is what a single Step did.
type Transition int8

const (
	Hold Transition = iota
	Opened
	Closed
)

func (t Transition) String() string {
	switch t {
	case Hold:
		return "hold"
	case Opened:
		return "open"
	case Closed:
		return "close"
	}
	return fmt.Sprintf("Transition(%d)", int8(t))
}

// Position is the single open long exposure.
type Position struct {
	EntryTime  time.Time `json:"entryTime"`
	EntryPrice float64   `json:"entryPrice"`
}

// Trade is one entry of the trade history. Closed trades are immutable; the
// last trade may still be open at the end of a run.
type Trade struct {
	EntryTime  time.Time `json:"entryTime"`
	Side       Side      `json:"side"`
	EntryPrice float64   `json:"entryPrice"`
	ExitTime   time.Time `json:"exitTime,omitzero"`
	ExitPrice  float64   `json:"exitPrice,omitempty"`
	PnLPct     float64   `json:"pnlPct"`
	Closed     bool      `json:"closed"`
}

// Tracker is the FLAT/LONG state machine. It holds at most one position,
// compounds equity over closed trades and never force-closes.
//
// Equity starts at 1.0 and is multiplied by (1 + pnl) on each close.
type Tracker struct {
	state  State
	pos    Position
	equity float64
	trades []Trade
}

func NewTracker() *Tracker {
	return &Tracker{equity: 1.0}
}

// Step applies at most one transition for a sample at ts with closing price
// px. trend and signal are the coarse trend gate and fine crossover for the
// sample.
//
//   - FLAT opens when trend && signal.
//   - LONG closes when !trend || !signal.
//
// A close never re-opens on the same sample.
func (t *Tracker) Step(ts time.Time, px float64, trend, signal bool) Transition {
	switch t.state {
	case Flat:
		if trend && signal {
			t.open(ts, px)
			return Opened
		}
	case InLong:
		if !trend || !signal {
			t.close(ts, px)
			return Closed
		}
	}
	return Hold
}

func (t *Tracker) open(ts time.Time, px float64) {
	t.state = InLong
	t.pos = Position{EntryTime: ts, EntryPrice: px}
	t.trades = append(t.trades, Trade{
		EntryTime:  ts,
		Side:       Long,
		EntryPrice: px,
	})
}

func (t *Tracker) close(ts time.Time, px float64) {
	pnl := (px - t.pos.EntryPrice) / t.pos.EntryPrice
	t.equity *= 1 + pnl

	last := &t.trades[len(t.trades)-1]
	last.ExitTime = ts
	last.ExitPrice = px
	last.PnLPct = pnl
	last.Closed = true

	t.state = Flat
	t.pos = Position{}
}

func (t *Tracker) State() State { return t.state }

// Equity is the compounded growth factor over closed trades.
func (t *Tracker) Equity() float64 { return t.equity }

// Open returns the open position, if any.
func (t *Tracker) Open() (Position, bool) {
	return t.pos, t.state == InLong
}

// Trades returns a copy of the trade history, including an open trade.
func (t *Tracker) Trades() []Trade {
	return append([]Trade(nil), t.trades...)
}

// ClosedTrades returns a copy of the closed trades only.
func (t *Tracker) ClosedTrades() []Trade {
	out := make([]Trade, 0, len(t.trades))
	for _, tr := range t.trades {
		if tr.Closed {
			out = append(out, tr)
		}
	}
	return out
}

// Last returns the most recent trade.
func (t *Tracker) Last() (Trade, bool) {
	if len(t.trades) == 0 {
		return Trade{}, false
	}
	return t.trades[len(t.trades)-1], true
}
