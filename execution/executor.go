package execution

import (
	"fmt"
	"strings"

	"github.com/notargets/gocvfem/metrics"
)

type Mode uint8

const (
	SequentialMode Mode = iota
	LanesMode
	TeamsMode
	DeviceMode
)

var modeNames = []string{"sequential", "lanes", "teams", "device"}

func (m Mode) String() string {
	if int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
	return modeNames[m]
}

func ParseMode(name string) (m Mode, err error) {
	for i, mn := range modeNames {
		if strings.EqualFold(mn, name) {
			return Mode(i), nil
		}
	}
	err = fmt.Errorf("unknown execution mode %q, valid modes are %s", name, strings.Join(modeNames, ", "))
	return
}

// Executor evaluates one metric kernel over a batch of elements of the same
// topology. Results are laid out [K][ip] for volumes and [K][ip][dim] for
// area vectors. Geometry faults are returned as *metrics.GeometryError
// carrying the element index within the batch.
type Executor interface {
	Mode() Mode
	Volumes(k *metrics.Kernel, b Batch, out []float64) error
	AreaVectors(k *metrics.Kernel, b Batch, out []float64) error
	// ForEach calls fn for every element index in [0,K). Each call owns s
	// for its duration.
	ForEach(K int, fn func(k int, s *Scratch) error) error
}

// Batch holds the nodal coordinates of K elements, [K][Nodes][Dim]
type Batch struct {
	K      int
	Nodes  int
	Dim    int
	Coords []float64
}

func NewBatch(K, nodes, dim int) Batch {
	return Batch{
		K:      K,
		Nodes:  nodes,
		Dim:    dim,
		Coords: make([]float64, K*nodes*dim),
	}
}

// Element returns a view of the coordinates of element k
func (b Batch) Element(k int) []float64 {
	stride := b.Nodes * b.Dim
	return b.Coords[k*stride : (k+1)*stride]
}

// Check panics when the batch does not match the kernel or out is short
func (b Batch) Check(k *metrics.Kernel, out []float64, perIp int) {
	if b.Nodes != k.Nodes || b.Dim != k.SpatialDim {
		panic(fmt.Errorf("batch of %d node %dD elements used with a %d node %dD kernel",
			b.Nodes, b.Dim, k.Nodes, k.SpatialDim))
	}
	if len(b.Coords) < b.K*b.Nodes*b.Dim {
		panic(fmt.Errorf("batch holds %d coordinates, need %d", len(b.Coords), b.K*b.Nodes*b.Dim))
	}
	if len(out) < b.K*k.NumIps*perIp {
		panic(fmt.Errorf("output holds %d values, need %d", len(out), b.K*k.NumIps*perIp))
	}
}

// Scratch is per task working storage
type Scratch struct {
	buf []float64
}

// Floats returns a zeroed slice of length n, reusing the scratch storage
func (s *Scratch) Floats(n int) []float64 {
	if cap(s.buf) < n {
		s.buf = make([]float64, n)
	}
	s.buf = s.buf[:n]
	for i := range s.buf {
		s.buf[i] = 0
	}
	return s.buf
}

// New returns an executor for the host modes. teams <= 0 selects one team
// per CPU. DeviceMode executors are built by the device package.
func New(mode Mode, teams int) (ex Executor, err error) {
	switch mode {
	case SequentialMode:
		ex = NewSequential()
	case LanesMode:
		ex = NewLanes[float64]()
	case TeamsMode:
		ex = NewTeams(teams)
	default:
		err = fmt.Errorf("execution mode %v has no host executor", mode)
	}
	return
}

// volumes and areaVectors run the scalar kernels on element e of a batch
func volumes(k *metrics.Kernel, b Batch, e int, out []float64) error {
	return k.ScvVolumes(e, b.Element(e), out[e*k.NumIps:(e+1)*k.NumIps])
}

func areaVectors(k *metrics.Kernel, b Batch, e int, out []float64) {
	stride := k.NumIps * k.SpatialDim
	k.AreaVectors(b.Element(e), out[e*stride:(e+1)*stride])
}
