package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
	"github.com/notargets/gocvfem/execution"
	"github.com/notargets/gocvfem/geometry"
	"github.com/notargets/gocvfem/probe"
	"github.com/notargets/gocvfem/topology"
)

type BlockParameters struct {
	NX           int     `yaml:"NX"`
	NY           int     `yaml:"NY"`
	NZ           int     `yaml:"NZ"`
	Lx           float64 `yaml:"Lx"`
	Ly           float64 `yaml:"Ly"`
	Lz           float64 `yaml:"Lz"`
	Perturbation float64 `yaml:"Perturbation"` // Fraction of the lattice spacing
	Seed         int64   `yaml:"Seed"`
}

// Parameters obtained from the YAML input file
type CVFEMParameters struct {
	Title      string              `yaml:"Title"`
	Topology   string              `yaml:"Topology"`
	Execution  string              `yaml:"Execution"`
	Teams      int                 `yaml:"Teams"`
	DeviceMode string              `yaml:"DeviceMode"` // OCCA device properties, JSON
	Block      BlockParameters     `yaml:"Block"`
	Probes     []probe.LineOfSight `yaml:"Probes"`
	Field      string              `yaml:"Field"`
}

func (ip *CVFEMParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	ip.setDefaults()
	return ip.Validate()
}

func (ip *CVFEMParameters) setDefaults() {
	if ip.Execution == "" {
		ip.Execution = execution.SequentialMode.String()
	}
	if ip.DeviceMode == "" {
		ip.DeviceMode = `{"mode": "Serial"}`
	}
	if ip.Field == "" {
		ip.Field = "linear"
	}
	b := &ip.Block
	for _, n := range []*int{&b.NX, &b.NY, &b.NZ} {
		if *n == 0 {
			*n = 1
		}
	}
	for _, l := range []*float64{&b.Lx, &b.Ly, &b.Lz} {
		if *l == 0 {
			*l = 1
		}
	}
}

func (ip *CVFEMParameters) Validate() (err error) {
	var kind topology.Kind
	if kind, err = topology.ParseKind(ip.Topology); err != nil {
		return
	}
	if !topology.Get(kind).IsVolume() {
		return fmt.Errorf("topology %v is a face, the block needs a volume topology", kind)
	}
	if _, err = execution.ParseMode(ip.Execution); err != nil {
		return
	}
	if _, err = probe.Field(ip.Field); err != nil {
		return
	}
	b := ip.Block
	if b.NX < 1 || b.NY < 1 || b.NZ < 1 {
		return fmt.Errorf("block element counts must be positive, have %d x %d x %d", b.NX, b.NY, b.NZ)
	}
	if b.Perturbation < 0 || b.Perturbation >= 0.5 {
		return fmt.Errorf("block perturbation %v is outside [0,0.5)", b.Perturbation)
	}
	for _, los := range ip.Probes {
		if err = los.Validate(); err != nil {
			return
		}
	}
	return
}

func (ip *CVFEMParameters) Kind() topology.Kind {
	kind, _ := topology.ParseKind(ip.Topology)
	return kind
}

func (ip *CVFEMParameters) Mode() execution.Mode {
	mode, _ := execution.ParseMode(ip.Execution)
	return mode
}

// NewBlock generates the configured, perturbed block
func (ip *CVFEMParameters) NewBlock() (b *geometry.Block, err error) {
	bp := ip.Block
	if b, err = geometry.NewBlock(ip.Kind(),
		[3]int{bp.NX, bp.NY, bp.NZ}, [3]float64{bp.Lx, bp.Ly, bp.Lz}); err != nil {
		return
	}
	if bp.Perturbation > 0 {
		b.Perturb(bp.Perturbation, bp.Seed)
	}
	return
}

func (ip *CVFEMParameters) Print() {
	b := ip.Block
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Topology\n", ip.Topology)
	fmt.Printf("[%s]\t\t= Execution\n", ip.Execution)
	if ip.Mode() == execution.TeamsMode {
		fmt.Printf("[%d]\t\t\t\t= Teams\n", ip.Teams)
	}
	if ip.Mode() == execution.DeviceMode {
		fmt.Printf("%s\t= DeviceMode\n", ip.DeviceMode)
	}
	fmt.Printf("[%d x %d x %d]\t\t= Block Elements\n", b.NX, b.NY, b.NZ)
	fmt.Printf("[%g x %g x %g]\t\t= Block Extents\n", b.Lx, b.Ly, b.Lz)
	fmt.Printf("%8.5f\t\t= Perturbation\n", b.Perturbation)
	fmt.Printf("[%s]\t\t\t= Field\n", ip.Field)
	for _, los := range ip.Probes {
		fmt.Printf("Probe[%s] = %v -> %v, %d points\n", los.Name, los.Tail, los.Tip, los.NPoints)
	}
}
