package lighting

// PreparerBuilderOption is a functional option applied to a Preparer during construction via NewPreparer.
type PreparerBuilderOption func(*Preparer)

// WithDrawFunc sets the callback that records shadow casters into each face pass.
// Without one, passes are opened and closed empty, which still clears static faces.
//
// Parameters:
//   - fn: the draw callback
//
// Returns:
//   - PreparerBuilderOption: functional option to set the draw callback
func WithDrawFunc(fn DrawFunc) PreparerBuilderOption {
	return func(p *Preparer) {
		p.draw = fn
	}
}

// WithPackWorkers sets how many goroutines pack light records once the parallel threshold is reached.
// Values below 2 keep packing on the calling goroutine.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - PreparerBuilderOption: functional option to set the worker count
func WithPackWorkers(n int) PreparerBuilderOption {
	return func(p *Preparer) {
		p.packWorkers = n
	}
}

// WithParallelPackThreshold sets the light count at which packing fans out to the worker pool.
//
// Parameters:
//   - n: the minimum number of lights packed in parallel
//
// Returns:
//   - PreparerBuilderOption: functional option to set the threshold
func WithParallelPackThreshold(n int) PreparerBuilderOption {
	return func(p *Preparer) {
		p.parallelThreshold = n
	}
}
