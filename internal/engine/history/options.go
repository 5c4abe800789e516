package history

// Option configures a History during creation.
type Option func(*History)

// WithMaxDepth sets the undo log depth cap. Values outside the
// [MinDepth, MaxDepth] range are clamped rather than rejected; the
// zero value keeps DefaultDepth.
func WithMaxDepth(n int) Option {
	return func(h *History) {
		if n == 0 {
			return
		}
		if n < MinDepth {
			n = MinDepth
		}
		if n > MaxDepth {
			n = MaxDepth
		}
		h.maxDepth = n
	}
}
