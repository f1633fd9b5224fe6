package indicators

// SimpleMA is a streaming Simple Moving Average indicator.
//
// It keeps the last period closes in a ring and a running sum so each
// Update is O(1).
type SimpleMA struct {
	period int
	window []float64
	next   int
	count  int
	sum    float64
}

// NewMA creates a new Simple Moving Average indicator with the given period.
// Use SMA or validate the period first; NewMA panics on a non-positive period.
func NewMA(period int) *SimpleMA {
	if err := checkPeriod(period); err != nil {
		panic(err)
	}
	return &SimpleMA{
		period: period,
		window: make([]float64, period),
	}
}

func (m *SimpleMA) Reset() {
	for i := range m.window {
		m.window[i] = 0
	}
	m.next = 0
	m.count = 0
	m.sum = 0
}

func (m *SimpleMA) Update(close float64) {
	if m.count == m.period {
		m.sum -= m.window[m.next]
	} else {
		m.count++
	}
	m.window[m.next] = close
	m.sum += close
	m.next = (m.next + 1) % m.period
}

// Ready reports whether period closes have been seen.
func (m *SimpleMA) Ready() bool {
	return m.count >= m.period
}

func (m *SimpleMA) Value() Value {
	if !m.Ready() {
		return None
	}
	return Some(m.sum / float64(m.period))
}
