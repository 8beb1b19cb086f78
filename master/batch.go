package master

import (
	"fmt"

	"github.com/notargets/gocvfem/execution"
)

// DeterminantBatch evaluates Determinant for every element of a batch with
// the given executor, out is [K][ip] or [K][ip][dim]
func DeterminantBatch(me MasterElement, ex execution.Executor, b execution.Batch, out []float64) (err error) {
	el, ok := me.(*element)
	if !ok {
		return fmt.Errorf("master element of type %T cannot run batched", me)
	}
	if el.role == scvRole {
		err = ex.Volumes(el.kernel, b, out)
	} else {
		err = ex.AreaVectors(el.kernel, b, out)
	}
	if err != nil {
		err = fmt.Errorf("%v %v batch determinant: %w", el.desc.Kind, ex.Mode(), err)
	}
	return
}

// NewBatch allocates a batch sized for K elements of this master element
func NewBatch(me MasterElement, K int) execution.Batch {
	return execution.NewBatch(K, me.NodesPerElement(), me.SpatialDim())
}
