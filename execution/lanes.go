package execution

import (
	"github.com/ajroetker/go-highway/hwy"
	"github.com/notargets/gocvfem/metrics"
)

// Real is the subset of the vector element types a batch is converted to
type Real interface {
	float32 | float64
}

// Lanes evaluates a kernel for a whole batch at once. The batch is
// transposed to structure of arrays so that each vector lane carries one
// element, and every Jacobian entry is accumulated across the batch with
// FMA. A Lanes value is not safe for concurrent use.
type Lanes[T Real] struct {
	xs      []T    // [node][dim][K]
	jac     [9][]T // [dim][pdim] rows of length K
	res     [3][]T
	tol     []float64
	scratch Scratch
}

func NewLanes[T Real]() *Lanes[T] { return &Lanes[T]{} }

func (l *Lanes[T]) Mode() Mode { return LanesMode }

func (l *Lanes[T]) ForEach(K int, fn func(k int, s *Scratch) error) (err error) {
	for e := 0; e < K; e++ {
		if err = fn(e, &l.scratch); err != nil {
			return
		}
	}
	return
}

func grow[T Real](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

func (l *Lanes[T]) transpose(b Batch) {
	var (
		K  = b.K
		nd = b.Nodes * b.Dim
	)
	l.xs = grow(l.xs, nd*K)
	for e := 0; e < K; e++ {
		x := b.Element(e)
		for c := 0; c < nd; c++ {
			l.xs[c*K+e] = T(x[c])
		}
	}
	for i := range l.jac {
		l.jac[i] = grow(l.jac[i], K)
	}
	for i := range l.res {
		l.res[i] = grow(l.res[i], K)
	}
}

// jacobian accumulates J[i][j] over the batch at integration point ip
func (l *Lanes[T]) jacobian(k *metrics.Kernel, ip, K int) {
	var (
		sd, pd = k.SpatialDim, k.ParametricDim
		deriv  = k.Deriv[ip*k.Nodes*pd : (ip+1)*k.Nodes*pd]
	)
	for c := 0; c < sd*pd; c++ {
		clear(l.jac[c])
	}
	for n := 0; n < k.Nodes; n++ {
		for j := 0; j < pd; j++ {
			d := deriv[n*pd+j]
			if d == 0 {
				continue
			}
			for i := 0; i < sd; i++ {
				axpy(T(d), l.xs[(n*sd+i)*K:(n*sd+i+1)*K], l.jac[i*pd+j])
			}
		}
	}
}

func (l *Lanes[T]) Volumes(k *metrics.Kernel, b Batch, out []float64) error {
	var (
		K       = b.K
		dim     = k.SpatialDim
		nip     = k.NumIps
		failed  = -1
		failIp  int
		failDet float64
	)
	b.Check(k, out, 1)
	if dim != k.ParametricDim || dim < 2 {
		return NewSequential().Volumes(k, b, out)
	}
	if K == 0 {
		return nil
	}
	l.transpose(b)
	if cap(l.tol) < K {
		l.tol = make([]float64, K)
	}
	l.tol = l.tol[:K]
	for e := 0; e < K; e++ {
		l.tol[e] = metrics.DetTolerance(metrics.ElementScale(b.Element(e), b.Nodes, dim), dim)
	}
	for ip := 0; ip < nip; ip++ {
		l.jacobian(k, ip, K)
		det := l.res[0]
		if dim == 2 {
			det2(l.jac[0], l.jac[1], l.jac[2], l.jac[3], det)
		} else {
			det3(&l.jac, det)
		}
		w := k.Weights[ip]
		for e := 0; e < K; e++ {
			v := float64(det[e])
			if !(v > l.tol[e]) && (failed < 0 || e < failed) {
				failed, failIp, failDet = e, ip, v
			}
			out[e*nip+ip] = v * w
		}
	}
	if failed >= 0 {
		return metrics.CheckDeterminant(failed, failIp, failDet, l.tol[failed])
	}
	return nil
}

func (l *Lanes[T]) AreaVectors(k *metrics.Kernel, b Batch, out []float64) error {
	var (
		K      = b.K
		sd, pd = k.SpatialDim, k.ParametricDim
		nip    = k.NumIps
	)
	b.Check(k, out, sd)
	if sd < 2 || K == 0 {
		return NewSequential().AreaVectors(k, b, out)
	}
	l.transpose(b)
	col := func(i, j int) []T { return l.jac[i*pd+j] }
	for ip := 0; ip < nip; ip++ {
		l.jacobian(k, ip, K)
		var (
			dir = -1
			w   = k.Weights[ip]
		)
		if k.Direction != nil {
			dir = k.Direction[ip]
		}
		if sd == 2 {
			c, sign := 1, 1.
			switch dir {
			case -1:
				c = 0
			case 1:
				c, sign = 0, -1
			}
			scaleTo(T(sign*w), col(1, c), l.res[0])
			scaleTo(T(-sign*w), col(0, c), l.res[1])
		} else {
			a, bb := 0, 1
			switch dir {
			case 0:
				a, bb = 1, 2
			case 1:
				a, bb = 2, 0
			}
			cross(col(0, a), col(1, a), col(2, a), col(0, bb), col(1, bb), col(2, bb),
				l.res[0], l.res[1], l.res[2])
			for i := 0; i < 3; i++ {
				scaleTo(T(w), l.res[i], l.res[i])
			}
		}
		for e := 0; e < K; e++ {
			for i := 0; i < sd; i++ {
				out[(e*nip+ip)*sd+i] = float64(l.res[i][e])
			}
		}
	}
	return nil
}

// axpy computes y += a*x
func axpy[T Real](a T, x, y []T) {
	va := hwy.Set(a)
	hwy.ProcessWithTail[T](len(y),
		func(offset int) {
			vy := hwy.FMA(va, hwy.Load(x[offset:]), hwy.Load(y[offset:]))
			hwy.Store(vy, y[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			vy := hwy.FMA(va, hwy.MaskLoad(mask, x[offset:]), hwy.MaskLoad(mask, y[offset:]))
			hwy.MaskStore(mask, vy, y[offset:])
		},
	)
}

// scaleTo computes out = a*x, out may alias x
func scaleTo[T Real](a T, x, out []T) {
	va := hwy.Set(a)
	hwy.ProcessWithTail[T](len(out),
		func(offset int) {
			hwy.Store(hwy.Mul(va, hwy.Load(x[offset:])), out[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			hwy.MaskStore(mask, hwy.Mul(va, hwy.MaskLoad(mask, x[offset:])), out[offset:])
		},
	)
}

// det2 computes out = a*d - b*c
func det2[T Real](a, b, c, d, out []T) {
	hwy.ProcessWithTail[T](len(out),
		func(offset int) {
			va, vb := hwy.Load(a[offset:]), hwy.Load(b[offset:])
			vc, vd := hwy.Load(c[offset:]), hwy.Load(d[offset:])
			hwy.Store(hwy.Sub(hwy.Mul(va, vd), hwy.Mul(vb, vc)), out[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			va, vb := hwy.MaskLoad(mask, a[offset:]), hwy.MaskLoad(mask, b[offset:])
			vc, vd := hwy.MaskLoad(mask, c[offset:]), hwy.MaskLoad(mask, d[offset:])
			hwy.MaskStore(mask, hwy.Sub(hwy.Mul(va, vd), hwy.Mul(vb, vc)), out[offset:])
		},
	)
}

// det3 expands a row-major 3x3 batch of matrices along the first row
func det3[T Real](j *[9][]T, out []T) {
	hwy.ProcessWithTail[T](len(out),
		func(offset int) {
			j0, j1, j2 := hwy.Load(j[0][offset:]), hwy.Load(j[1][offset:]), hwy.Load(j[2][offset:])
			j3, j4, j5 := hwy.Load(j[3][offset:]), hwy.Load(j[4][offset:]), hwy.Load(j[5][offset:])
			j6, j7, j8 := hwy.Load(j[6][offset:]), hwy.Load(j[7][offset:]), hwy.Load(j[8][offset:])
			c0 := hwy.Sub(hwy.Mul(j4, j8), hwy.Mul(j5, j7))
			c1 := hwy.Sub(hwy.Mul(j3, j8), hwy.Mul(j5, j6))
			c2 := hwy.Sub(hwy.Mul(j3, j7), hwy.Mul(j4, j6))
			det := hwy.FMA(j2, c2, hwy.Sub(hwy.Mul(j0, c0), hwy.Mul(j1, c1)))
			hwy.Store(det, out[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			j0, j1, j2 := hwy.MaskLoad(mask, j[0][offset:]), hwy.MaskLoad(mask, j[1][offset:]), hwy.MaskLoad(mask, j[2][offset:])
			j3, j4, j5 := hwy.MaskLoad(mask, j[3][offset:]), hwy.MaskLoad(mask, j[4][offset:]), hwy.MaskLoad(mask, j[5][offset:])
			j6, j7, j8 := hwy.MaskLoad(mask, j[6][offset:]), hwy.MaskLoad(mask, j[7][offset:]), hwy.MaskLoad(mask, j[8][offset:])
			c0 := hwy.Sub(hwy.Mul(j4, j8), hwy.Mul(j5, j7))
			c1 := hwy.Sub(hwy.Mul(j3, j8), hwy.Mul(j5, j6))
			c2 := hwy.Sub(hwy.Mul(j3, j7), hwy.Mul(j4, j6))
			det := hwy.FMA(j2, c2, hwy.Sub(hwy.Mul(j0, c0), hwy.Mul(j1, c1)))
			hwy.MaskStore(mask, det, out[offset:])
		},
	)
}

// cross computes c = a x b for a batch of vectors stored as components
func cross[T Real](ax, ay, az, bx, by, bz, cx, cy, cz []T) {
	hwy.ProcessWithTail[T](len(cx),
		func(offset int) {
			vAx, vAy, vAz := hwy.Load(ax[offset:]), hwy.Load(ay[offset:]), hwy.Load(az[offset:])
			vBx, vBy, vBz := hwy.Load(bx[offset:]), hwy.Load(by[offset:]), hwy.Load(bz[offset:])
			hwy.Store(hwy.Sub(hwy.Mul(vAy, vBz), hwy.Mul(vAz, vBy)), cx[offset:])
			hwy.Store(hwy.Sub(hwy.Mul(vAz, vBx), hwy.Mul(vAx, vBz)), cy[offset:])
			hwy.Store(hwy.Sub(hwy.Mul(vAx, vBy), hwy.Mul(vAy, vBx)), cz[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			vAx, vAy, vAz := hwy.MaskLoad(mask, ax[offset:]), hwy.MaskLoad(mask, ay[offset:]), hwy.MaskLoad(mask, az[offset:])
			vBx, vBy, vBz := hwy.MaskLoad(mask, bx[offset:]), hwy.MaskLoad(mask, by[offset:]), hwy.MaskLoad(mask, bz[offset:])
			hwy.MaskStore(mask, hwy.Sub(hwy.Mul(vAy, vBz), hwy.Mul(vAz, vBy)), cx[offset:])
			hwy.MaskStore(mask, hwy.Sub(hwy.Mul(vAz, vBx), hwy.Mul(vAx, vBz)), cy[offset:])
			hwy.MaskStore(mask, hwy.Sub(hwy.Mul(vAx, vBy), hwy.Mul(vAy, vBx)), cz[offset:])
		},
	)
}
