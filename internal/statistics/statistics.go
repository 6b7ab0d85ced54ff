package statistics

import (
	"errors"
	"sort"
)

var (
	ErrNoSamples        = errors.New("statistics: no samples")
	ErrAlreadyFinalized = errors.New("statistics: accumulator already finalized")
)

// Accumulator collects the latency samples of one URL in arrival order.
// It is the write side of Statistics: samples go in until Finalize is called,
// after which the accumulator is spent.
type Accumulator struct {
	samples   []float64
	finalized bool
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// AddSample appends one request time in seconds. It panics after Finalize.
func (a *Accumulator) AddSample(t float64) {
	if a.finalized {
		panic("statistics: AddSample called after Finalize")
	}
	a.samples = append(a.samples, t)
}

// Len returns the number of samples collected so far.
func (a *Accumulator) Len() int {
	return len(a.samples)
}

// Finalize sorts the samples, computes their exact total and hands them over
// to an immutable Statistics.
func (a *Accumulator) Finalize() (*Statistics, error) {
	if a.finalized {
		return nil, ErrAlreadyFinalized
	}
	if len(a.samples) == 0 {
		return nil, ErrNoSamples
	}

	samples := a.samples
	a.samples = nil
	a.finalized = true

	sort.Float64s(samples)

	// Summed in sorted order, so the total does not depend on arrival order.
	var total float64
	for _, s := range samples {
		total += s
	}

	return &Statistics{samples: samples, total: total}, nil
}

// Statistics are the finalized, read-only latency statistics of one URL.
// Count is always at least one.
type Statistics struct {
	samples []float64 // ascending
	total   float64
}

func (s *Statistics) Count() int {
	return len(s.samples)
}

func (s *Statistics) Total() float64 {
	return s.total
}

func (s *Statistics) Average() float64 {
	return s.total / float64(len(s.samples))
}

// Median returns the sample at index n/2, the upper median for even counts.
func (s *Statistics) Median() float64 {
	return s.samples[len(s.samples)/2]
}

func (s *Statistics) Maximum() float64 {
	return s.samples[len(s.samples)-1]
}
