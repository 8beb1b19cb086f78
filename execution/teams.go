package execution

import (
	"sync"

	"github.com/notargets/gocvfem/metrics"
	"github.com/notargets/gocvfem/utils"
)

// Teams splits a batch into contiguous element ranges, one goroutine per
// range. Each team draws its scratch from a pool for the life of the task.
type Teams struct {
	NumTeams int
	pool     sync.Pool
}

func NewTeams(numTeams int) (t *Teams) {
	t = &Teams{NumTeams: numTeams}
	t.pool.New = func() any { return &Scratch{} }
	return
}

func (t *Teams) Mode() Mode { return TeamsMode }

// ForEach returns the error of the lowest failing element index
func (t *Teams) ForEach(K int, fn func(k int, s *Scratch) error) error {
	if K <= 0 {
		return nil
	}
	pm := utils.NewPartitionMap(t.NumTeams, K)
	return pm.Run(func(bn, kMin, kMax int) (err error) {
		s := t.pool.Get().(*Scratch)
		defer t.pool.Put(s)
		for e := kMin; e < kMax; e++ {
			if err = fn(e, s); err != nil {
				return
			}
		}
		return
	})
}

func (t *Teams) Volumes(k *metrics.Kernel, b Batch, out []float64) error {
	b.Check(k, out, 1)
	return t.ForEach(b.K, func(e int, _ *Scratch) error {
		return volumes(k, b, e, out)
	})
}

func (t *Teams) AreaVectors(k *metrics.Kernel, b Batch, out []float64) error {
	b.Check(k, out, k.SpatialDim)
	return t.ForEach(b.K, func(e int, _ *Scratch) error {
		areaVectors(k, b, e, out)
		return nil
	})
}
