package risk

// Metrics accumulates scoring results for the caller that owns it. It is not safe for
// concurrent use.
type Metrics struct {
	predictions int
	high        int
	medium      int
	low         int
	sum         float64
}

type MetricsSnapshot struct {
	Predictions     int     `json:"predictions"`
	High            int     `json:"high"`
	Medium          int     `json:"medium"`
	Low             int     `json:"low"`
	MeanProbability float64 `json:"mean_probability"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Observe(a Assessment) {
	m.predictions++
	m.sum += a.Probability
	switch LevelOf(a.Probability) {
	case LevelHigh:
		m.high++
	case LevelMedium:
		m.medium++
	default:
		m.low++
	}
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Predictions: m.predictions,
		High:        m.high,
		Medium:      m.medium,
		Low:         m.low,
	}
	if m.predictions > 0 {
		s.MeanProbability = m.sum / float64(m.predictions)
	}
	return s
}
