package device

import (
	"fmt"
	"sort"
	"strings"

	"github.com/notargets/gocca"
	"github.com/notargets/gocvfem/utils"
)

// Program manages code generation and execution of the metric kernels of
// one integration rule. Elements map to OCCA outer iterations (teams) and
// integration points to the inner iterations of a team.
type Program struct {
	// Rule configuration
	Nodes    int // Nodes per element
	Dim      int // Spatial dimension
	PDim     int // Parametric dimension
	NumIps   int // Integration points per element
	TeamSize int // Inner iterations per element

	// Static data to embed
	StaticMatrices map[string]utils.Matrix // DERIV, W, DIRS

	// Generated code
	kernelPreamble string

	// Runtime resources
	device  *gocca.OCCADevice
	kernels map[string]*gocca.OCCAKernel
}

// Config holds configuration for creating a Program
type Config struct {
	Nodes, Dim, PDim, NumIps int
	TeamSize                 int // default: NumIps, at most 64
}

func NewProgram(device *gocca.OCCADevice, cfg Config) *Program {
	if cfg.TeamSize <= 0 {
		cfg.TeamSize = min(cfg.NumIps, 64)
	}
	return &Program{
		Nodes:          cfg.Nodes,
		Dim:            cfg.Dim,
		PDim:           cfg.PDim,
		NumIps:         cfg.NumIps,
		TeamSize:       cfg.TeamSize,
		StaticMatrices: make(map[string]utils.Matrix),
		device:         device,
		kernels:        make(map[string]*gocca.OCCAKernel),
	}
}

// AddStaticMatrix adds a matrix that will be compiled into kernels as static data
func (p *Program) AddStaticMatrix(name string, matrix utils.Matrix) {
	p.StaticMatrices[name] = matrix
}

// GenerateKernelMain generates the kernel preamble with static data
func (p *Program) GenerateKernelMain() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("#define NODES %d\n", p.Nodes))
	sb.WriteString(fmt.Sprintf("#define DIM %d\n", p.Dim))
	sb.WriteString(fmt.Sprintf("#define PDIM %d\n", p.PDim))
	sb.WriteString(fmt.Sprintf("#define NIP %d\n", p.NumIps))
	sb.WriteString(fmt.Sprintf("#define TEAM %d\n", p.TeamSize))
	sb.WriteString("\n")
	sb.WriteString("typedef double real_t;\n")
	sb.WriteString("typedef long int_t;\n")
	sb.WriteString("#define REAL_ZERO 0.0\n")
	sb.WriteString("\n")

	sb.WriteString("// Static matrices\n")
	names := make([]string, 0, len(p.StaticMatrices))
	for name := range p.StaticMatrices {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(formatStaticMatrix(name, p.StaticMatrices[name]))
	}
	p.kernelPreamble = sb.String()
	return p.kernelPreamble
}

// formatStaticMatrix formats a single matrix as a static C array
func formatStaticMatrix(name string, m utils.Matrix) string {
	rows, cols := m.Dims()
	var sb strings.Builder

	// Use const for OCCA (it will translate to __constant__ for GPU backends)
	sb.WriteString(fmt.Sprintf("const real_t %s[%d][%d] = {\n", name, rows, cols))
	for i := 0; i < rows; i++ {
		sb.WriteString("    {")
		for j := 0; j < cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%.15e", m.At(i, j)))
		}
		sb.WriteString("}")
		if i < rows-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};\n\n")
	return sb.String()
}

// BuildKernel compiles a kernel from source with the generated preamble
func (p *Program) BuildKernel(kernelSource, kernelName string) (*gocca.OCCAKernel, error) {
	if p.kernelPreamble == "" {
		p.GenerateKernelMain()
	}
	fullSource := p.kernelPreamble + "\n" + kernelSource
	kernel, err := p.device.BuildKernelFromString(fullSource, kernelName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build kernel %s: %w", kernelName, err)
	}
	if kernel == nil {
		return nil, fmt.Errorf("kernel build returned nil for %s", kernelName)
	}
	p.kernels[kernelName] = kernel
	return kernel, nil
}

// RunKernel executes a built kernel over K elements
func (p *Program) RunKernel(name string, K int, args ...interface{}) error {
	kernel, exists := p.kernels[name]
	if !exists {
		return fmt.Errorf("kernel %s not found", name)
	}
	outerDims := gocca.OCCADim{X: uint64(K), Y: 1, Z: 1}
	innerDims := gocca.OCCADim{X: uint64(p.TeamSize), Y: 1, Z: 1}
	kernel.SetRunDims(outerDims, innerDims)
	return kernel.RunWithArgs(append([]interface{}{K}, args...)...)
}

// GetKernelPreamble returns the generated preamble
func (p *Program) GetKernelPreamble() string {
	return p.kernelPreamble
}

func (p *Program) Free() {
	for _, kernel := range p.kernels {
		if kernel != nil {
			kernel.Free()
		}
	}
}
