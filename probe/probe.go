package probe

import (
	"fmt"
	"math"

	"github.com/notargets/gocvfem/geometry"
	"github.com/notargets/gocvfem/master"
)

// LineOfSight samples NPoints equally spaced points from Tail to Tip,
// both ends included, every Frequency steps
type LineOfSight struct {
	Name      string     `yaml:"Name"`
	Tail      [3]float64 `yaml:"Tail"`
	Tip       [3]float64 `yaml:"Tip"`
	NPoints   int        `yaml:"NPoints"`
	Frequency int        `yaml:"Frequency"`
}

// Points returns the sample locations [pt][dim]
func (l LineOfSight) Points(dim int) (pts []float64) {
	pts = make([]float64, l.NPoints*dim)
	for p := 0; p < l.NPoints; p++ {
		s := 0.
		if l.NPoints > 1 {
			s = float64(p) / float64(l.NPoints-1)
		}
		for i := 0; i < dim; i++ {
			pts[p*dim+i] = l.Tail[i] + s*(l.Tip[i]-l.Tail[i])
		}
	}
	return
}

// Due reports whether the line is sampled at this step
func (l LineOfSight) Due(step int) bool {
	return l.Frequency <= 1 || step%l.Frequency == 0
}

func (l LineOfSight) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("line of sight needs a name")
	}
	if l.NPoints < 1 {
		return fmt.Errorf("line of sight %s: need at least one point, have %d", l.Name, l.NPoints)
	}
	return nil
}

// InsideTol is the parametric distance slack for a point to count as inside
const InsideTol = 1.e-8

// Sampler interpolates a nodal field of a block at arbitrary points
type Sampler struct {
	Block  *geometry.Block
	Volume master.MasterElement
	boxes  [][2][3]float64
}

func NewSampler(b *geometry.Block) (s *Sampler) {
	s = &Sampler{
		Block:  b,
		Volume: master.NewVolume(b.Kind),
		boxes:  make([][2][3]float64, b.K),
	}
	var coords []float64
	for k := 0; k < b.K; k++ {
		coords = b.ElementCoords(k, coords)
		box := &s.boxes[k]
		for i := 0; i < 3; i++ {
			box[0][i], box[1][i] = math.Inf(1), math.Inf(-1)
		}
		for n := 0; n < len(coords)/b.Dim; n++ {
			for i := 0; i < b.Dim; i++ {
				box[0][i] = math.Min(box[0][i], coords[n*b.Dim+i])
				box[1][i] = math.Max(box[1][i], coords[n*b.Dim+i])
			}
		}
		// room for curved sides
		for i := 0; i < b.Dim; i++ {
			pad := 0.1 * (box[1][i] - box[0][i])
			box[0][i] -= pad
			box[1][i] += pad
		}
	}
	return
}

func (s *Sampler) inBox(k int, x []float64) bool {
	for i := range x {
		if x[i] < s.boxes[k][0][i] || x[i] > s.boxes[k][1][i] {
			return false
		}
	}
	return true
}

// Sample interpolates field [node][nComp] at points [pt][dim]. A point on
// an element boundary is the average over every element containing it.
// Points outside the block get zero values and are counted as unmatched.
func (s *Sampler) Sample(points []float64, nComp int, field []float64) (values []float64, unmatched int) {
	var (
		b      = s.Block
		npts   = len(points) / b.Dim
		par    = make([]float64, b.Dim)
		res    = make([]float64, nComp)
		coords []float64
		local  []float64
	)
	values = make([]float64, npts*nComp)
	for p := 0; p < npts; p++ {
		var (
			x      = points[p*b.Dim : (p+1)*b.Dim]
			val    = values[p*nComp : (p+1)*nComp]
			degree int
		)
		for k := 0; k < b.K; k++ {
			if !s.inBox(k, x) {
				continue
			}
			coords = b.ElementCoords(k, coords)
			if s.Volume.IsInElement(coords, x, par) > 1+InsideTol {
				continue
			}
			local = b.Gather(k, nComp, field, local)
			s.Volume.InterpolatePoint(nComp, par, local, res)
			for c := range val {
				val[c] += res[c]
			}
			degree++
		}
		if degree == 0 {
			unmatched++
			continue
		}
		for c := range val {
			val[c] /= float64(degree)
		}
	}
	return
}
