package dynamo

// TimeGrid is an ordered, strictly increasing sequence of sample times.
// Owned by the caller requesting a trajectory; treated as immutable once
// built.
type TimeGrid []float64

// UniformGrid returns n equally spaced samples over [start, end].
// n must be at least 2 and end must be greater than start.
func UniformGrid(start, end float64, n int) (TimeGrid, error) {
	if n < 2 {
		return nil, ErrEmptyGrid
	}
	if end <= start {
		return nil, ErrGridNotIncreasing
	}
	g := make(TimeGrid, n)
	step := (end - start) / float64(n-1)
	for i := range g {
		g[i] = start + float64(i)*step
	}
	g[n-1] = end
	return g, nil
}

// NewTimeGrid validates an arbitrary sample sequence.
func NewTimeGrid(times []float64) (TimeGrid, error) {
	if len(times) == 0 {
		return nil, ErrEmptyGrid
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, ErrGridNotIncreasing
		}
	}
	g := make(TimeGrid, len(times))
	copy(g, times)
	return g, nil
}

func (g TimeGrid) Len() int       { return len(g) }
func (g TimeGrid) Start() float64 { return g[0] }
func (g TimeGrid) End() float64   { return g[len(g)-1] }
