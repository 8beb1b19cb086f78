package execution

import (
	"github.com/notargets/gocvfem/metrics"
)

// Sequential evaluates one element at a time on the calling goroutine
type Sequential struct {
	scratch Scratch
}

func NewSequential() *Sequential { return &Sequential{} }

func (sq *Sequential) Mode() Mode { return SequentialMode }

func (sq *Sequential) Volumes(k *metrics.Kernel, b Batch, out []float64) (err error) {
	b.Check(k, out, 1)
	for e := 0; e < b.K; e++ {
		if err = volumes(k, b, e, out); err != nil {
			return
		}
	}
	return
}

func (sq *Sequential) AreaVectors(k *metrics.Kernel, b Batch, out []float64) (err error) {
	b.Check(k, out, k.SpatialDim)
	for e := 0; e < b.K; e++ {
		areaVectors(k, b, e, out)
	}
	return
}

func (sq *Sequential) ForEach(K int, fn func(k int, s *Scratch) error) (err error) {
	for e := 0; e < K; e++ {
		if err = fn(e, &sq.scratch); err != nil {
			return
		}
	}
	return
}
