package device

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/notargets/gocca"
	"github.com/notargets/gocvfem/execution"
	"github.com/notargets/gocvfem/metrics"
	"github.com/notargets/gocvfem/utils"
)

// Executor runs batched metric kernels on an OCCA device. Generated
// programs are cached per kernel. Positivity of the determinants is checked
// on the host once the results are copied back.
type Executor struct {
	Device   *gocca.OCCADevice
	TeamSize int

	mu       sync.Mutex
	programs map[*metrics.Kernel]*Program
	scratch  execution.Scratch
}

// NewExecutor opens an OCCA device from its JSON properties, for example
// {"mode": "Serial"}. teamSize <= 0 uses one inner iteration per
// integration point.
func NewExecutor(deviceProps string, teamSize int) (ex *Executor, err error) {
	var dev *gocca.OCCADevice
	if dev, err = gocca.NewDevice(deviceProps); err != nil {
		err = fmt.Errorf("unable to open OCCA device %s: %w", deviceProps, err)
		return
	}
	ex = &Executor{
		Device:   dev,
		TeamSize: teamSize,
		programs: make(map[*metrics.Kernel]*Program),
	}
	return
}

func (ex *Executor) Mode() execution.Mode { return execution.DeviceMode }

// ForEach runs on the host, element by element
func (ex *Executor) ForEach(K int, fn func(k int, s *execution.Scratch) error) (err error) {
	for e := 0; e < K; e++ {
		if err = fn(e, &ex.scratch); err != nil {
			return
		}
	}
	return
}

func (ex *Executor) program(k *metrics.Kernel) (p *Program, err error) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if p = ex.programs[k]; p != nil {
		return
	}
	p = NewProgram(ex.Device, Config{
		Nodes:    k.Nodes,
		Dim:      k.SpatialDim,
		PDim:     k.ParametricDim,
		NumIps:   k.NumIps,
		TeamSize: ex.TeamSize,
	})
	dirs := make([]float64, k.NumIps)
	for ip := range dirs {
		dirs[ip] = -1
		if k.Direction != nil {
			dirs[ip] = float64(k.Direction[ip])
		}
	}
	p.AddStaticMatrix("DERIV", utils.NewMatrix(k.NumIps, k.Nodes*k.ParametricDim, k.Deriv))
	p.AddStaticMatrix("W", utils.NewMatrix(1, k.NumIps, k.Weights))
	p.AddStaticMatrix("DIRS", utils.NewMatrix(1, k.NumIps, dirs))
	if k.ParametricDim == k.SpatialDim {
		if _, err = p.BuildKernel(scvVolumesSource, "scvVolumes"); err != nil {
			p.Free()
			return nil, err
		}
	}
	if _, err = p.BuildKernel(areaVectorsSource, "areaVectors"); err != nil {
		p.Free()
		return nil, err
	}
	ex.programs[k] = p
	return
}

// run copies the batch to the device, runs one kernel and copies the
// results back into out
func (ex *Executor) run(k *metrics.Kernel, b execution.Batch, name string, out []float64, perIp int) (err error) {
	var (
		p        *Program
		nIn      = b.K * b.Nodes * b.Dim
		nOut     = b.K * k.NumIps * perIp
		floatLen = int64(8)
	)
	if p, err = ex.program(k); err != nil {
		return
	}
	xMem := ex.Device.Malloc(int64(nIn)*floatLen, unsafe.Pointer(&b.Coords[0]), nil)
	defer xMem.Free()
	outMem := ex.Device.Malloc(int64(nOut)*floatLen, nil, nil)
	defer outMem.Free()
	if err = p.RunKernel(name, b.K, xMem, outMem); err != nil {
		return fmt.Errorf("kernel %s: %w", name, err)
	}
	ex.Device.Finish()
	outMem.CopyTo(unsafe.Pointer(&out[0]), int64(nOut)*floatLen)
	return
}

func (ex *Executor) Volumes(k *metrics.Kernel, b execution.Batch, out []float64) (err error) {
	b.Check(k, out, 1)
	if b.K == 0 {
		return
	}
	if k.ParametricDim != k.SpatialDim || k.SpatialDim < 2 {
		return execution.NewSequential().Volumes(k, b, out)
	}
	if err = ex.run(k, b, "scvVolumes", out, 1); err != nil {
		return
	}
	for e := 0; e < b.K; e++ {
		tol := metrics.DetTolerance(metrics.ElementScale(b.Element(e), b.Nodes, b.Dim), b.Dim)
		for ip := 0; ip < k.NumIps; ip++ {
			det := out[e*k.NumIps+ip] / k.Weights[ip]
			if err = metrics.CheckDeterminant(e, ip, det, tol); err != nil {
				return
			}
		}
	}
	return
}

func (ex *Executor) AreaVectors(k *metrics.Kernel, b execution.Batch, out []float64) (err error) {
	b.Check(k, out, k.SpatialDim)
	if b.K == 0 {
		return
	}
	if k.SpatialDim < 2 {
		return execution.NewSequential().AreaVectors(k, b, out)
	}
	return ex.run(k, b, "areaVectors", out, k.SpatialDim)
}

// Free releases the generated programs and the device
func (ex *Executor) Free() {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	for _, p := range ex.programs {
		p.Free()
	}
	ex.programs = nil
	ex.Device.Free()
}
