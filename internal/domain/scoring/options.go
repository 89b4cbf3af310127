package scoring

// Option applies a configuration option to the DominanceModeler.
type Option func(*DominanceModeler)

// WithRatingWeight sets the multiplier applied to the star rating.
func WithRatingWeight(w float64) Option {
	return func(m *DominanceModeler) {
		if w > 0 {
			m.ratingWeight = w
		}
	}
}

// WithReviewDivisor sets how many reviews are worth one score point.
func WithReviewDivisor(d float64) Option {
	return func(m *DominanceModeler) {
		if d > 0 {
			m.reviewDivisor = d
		}
	}
}

// WithRevenuePerPoint sets the monthly revenue attributed to one point of gap.
func WithRevenuePerPoint(v float64) Option {
	return func(m *DominanceModeler) {
		if v >= 0 {
			m.revenuePerPoint = v
		}
	}
}
