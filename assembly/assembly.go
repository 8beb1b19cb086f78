package assembly

import (
	"fmt"

	"github.com/notargets/gocvfem/execution"
	"github.com/notargets/gocvfem/geometry"
	"github.com/notargets/gocvfem/master"
	"github.com/notargets/gocvfem/metrics"
	"github.com/notargets/gocvfem/utils"
)

// Diffusion assembles the control volume finite element Laplacian of a
// block. At every sub-control surface point the flux -grad(phi).A is
// scattered into the row of its left node and subtracted from the row of
// its right node. Element contributions are evaluated through ex and
// scattered serially.
func Diffusion(b *geometry.Block, scs master.MasterElement, ex execution.Executor) (A utils.CSR, err error) {
	var (
		nn    = scs.NodesPerElement()
		nIps  = scs.NumIntPoints()
		dim   = b.Dim
		coefs = make([]float64, b.K*nIps*nn)
	)
	if scs.Kind() != b.Kind || scs.Kernel().Direction == nil {
		err = fmt.Errorf("diffusion needs the %v sub-control surface master element, have %v", b.Kind, scs.Kind())
		return
	}
	err = ex.ForEach(b.K, func(k int, s *execution.Scratch) (err error) {
		var (
			buf    = s.Floats(nn*dim + 2*nIps*nn*dim + nIps*dim)
			coords = b.ElementCoords(k, buf[:nn*dim])
			gradop = buf[nn*dim : nn*dim+nIps*nn*dim]
			deriv  = buf[nn*dim+nIps*nn*dim : nn*dim+2*nIps*nn*dim]
			area   = buf[nn*dim+2*nIps*nn*dim:]
			c      = coefs[k*nIps*nn : (k+1)*nIps*nn]
		)
		if err = scs.GradOp(coords, gradop, deriv); err != nil {
			return fmt.Errorf("diffusion: %w", metrics.AtElement(err, k))
		}
		if err = scs.Determinant(coords, area); err != nil {
			return fmt.Errorf("diffusion: %w", metrics.AtElement(err, k))
		}
		for ip := 0; ip < nIps; ip++ {
			for n := 0; n < nn; n++ {
				var flux float64
				for i := 0; i < dim; i++ {
					flux -= gradop[(ip*nn+n)*dim+i] * area[ip*dim+i]
				}
				c[ip*nn+n] = flux
			}
		}
		return
	})
	if err != nil {
		return
	}
	dok := utils.NewDOK(b.NumNodes(), b.NumNodes())
	for k := 0; k < b.K; k++ {
		conn := b.Conn[k]
		for ip := 0; ip < nIps; ip++ {
			lr := scs.IpNodeMap(ip)
			left, right := conn[lr[0]], conn[lr[1]]
			for n := 0; n < nn; n++ {
				v := coefs[(k*nIps+ip)*nn+n]
				dok.AddAt(left, conn[n], v)
				dok.AddAt(right, conn[n], -v)
			}
		}
	}
	dok.SetReadOnly("diffusion")
	A = dok.ToCSR()
	return
}

// RowSumDefect is the largest row sum magnitude of an operator that
// annihilates constants
func RowSumDefect(A utils.CSR) (defect float64) {
	for _, s := range A.RowSums() {
		if s < 0 {
			s = -s
		}
		defect = max(defect, s)
	}
	return
}

// Lumped sums the sub-control volumes of every element into its nodes
func Lumped(b *geometry.Block, scv master.MasterElement, ex execution.Executor) (vol []float64, err error) {
	var (
		nIps = scv.NumIntPoints()
		bt   = b.Batch()
		scvs = make([]float64, b.K*nIps)
	)
	if scv.Kind() != b.Kind || scv.Kernel().ParametricDim != b.Dim || scv.Kernel().Direction != nil {
		err = fmt.Errorf("lumped volumes need the %v sub-control volume master element, have %v", b.Kind, scv.Kind())
		return
	}
	if err = master.DeterminantBatch(scv, ex, bt, scvs); err != nil {
		return
	}
	vol = make([]float64, b.NumNodes())
	for k := 0; k < b.K; k++ {
		for ip := 0; ip < nIps; ip++ {
			vol[b.Conn[k][scv.IpNodeMap(ip)[0]]] += scvs[k*nIps+ip]
		}
	}
	return
}

// Apply computes y = A x
func Apply(A utils.CSR, x []float64) (y []float64) {
	nr, _ := A.Dims()
	y = make([]float64, nr)
	A.M.DoNonZero(func(i, j int, v float64) {
		y[i] += v * x[j]
	})
	return
}
