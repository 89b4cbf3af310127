package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithMaxReports bounds the number of targets kept on the board.
// Non-positive values are ignored.
func WithMaxReports(n int) Option {
	return func(s *TreapStore) {
		if n > 0 {
			s.maxReports = n
		}
	}
}
