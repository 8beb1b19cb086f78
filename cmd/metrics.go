/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/notargets/gocvfem/InputParameters"
	"github.com/notargets/gocvfem/assembly"
	"github.com/notargets/gocvfem/geometry"
	"github.com/notargets/gocvfem/master"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// MetricsCmd represents the metrics command
var MetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Evaluate geometric metrics over a structured block",
	Long: `Generate the configured block, evaluate sub-control volumes, area
vectors and the diffusion operator through the selected executor and print
their totals.`,
	Run: func(cmd *cobra.Command, args []string) {
		icFile, _ := cmd.Flags().GetString("inputConditionsFile")
		ip := processInput(icFile)
		ip.Print()
		report, err := RunMetrics(ip, viper.GetBool("verbose"))
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		report.Print()
	},
}

func init() {
	rootCmd.AddCommand(MetricsCmd)
	MetricsCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Topology\n\t- Execution\n\t- Block")
}

type MetricsReport struct {
	Elements, Nodes int
	Volume          float64 // sum of the sub-control volumes
	BlockVolume     float64 // volume of the unperturbed block
	MinScv          float64
	NetBoundaryArea float64 // largest component of the summed boundary area vectors
	NNZ             int
	RowSumDefect    float64
	Elapsed         time.Duration
}

func RunMetrics(ip *InputParameters.CVFEMParameters, verbose bool) (r MetricsReport, err error) {
	var (
		b     *geometry.Block
		start = time.Now()
		kind  = ip.Kind()
	)
	if b, err = ip.NewBlock(); err != nil {
		return
	}
	ex, free, err := newExecutor(ip)
	if err != nil {
		return
	}
	defer free()
	r.Elements, r.Nodes, r.BlockVolume = b.K, b.NumNodes(), b.Volume()

	var (
		scv  = master.NewVolume(kind)
		bt   = b.Batch()
		scvs = make([]float64, b.K*scv.NumIntPoints())
	)
	if err = master.DeterminantBatch(scv, ex, bt, scvs); err != nil {
		return
	}
	r.MinScv = math.Inf(1)
	for i, v := range scvs {
		r.Volume += v
		r.MinScv = math.Min(r.MinScv, v)
		if verbose && i%scv.NumIntPoints() == 0 {
			fmt.Printf("element %d scv %v\n", i/scv.NumIntPoints(), scvs[i:i+scv.NumIntPoints()])
		}
	}

	var (
		face   = master.NewSurface(b.Desc.FaceKind)
		fb     = b.FaceBatch(b.Boundary())
		dim    = b.Dim
		faceAv = make([]float64, fb.K*face.NumIntPoints()*dim)
		net    = make([]float64, dim)
	)
	if err = master.DeterminantBatch(face, ex, fb, faceAv); err != nil {
		return
	}
	for i, v := range faceAv {
		net[i%dim] += v
	}
	for _, v := range net {
		r.NetBoundaryArea = math.Max(r.NetBoundaryArea, math.Abs(v))
	}

	A, err := assembly.Diffusion(b, master.NewSurface(kind), ex)
	if err != nil {
		return
	}
	r.NNZ = A.NNZ()
	r.RowSumDefect = assembly.RowSumDefect(A)
	r.Elapsed = time.Since(start)
	return
}

func (r MetricsReport) Print() {
	fmt.Printf("[%d]\t\t\t= Elements\n", r.Elements)
	fmt.Printf("[%d]\t\t\t= Nodes\n", r.Nodes)
	fmt.Printf("%.15e\t= Sub-control volume total\n", r.Volume)
	fmt.Printf("%.15e\t= Block volume\n", r.BlockVolume)
	fmt.Printf("%.15e\t= Min sub-control volume\n", r.MinScv)
	fmt.Printf("%.3e\t\t= Net boundary area\n", r.NetBoundaryArea)
	fmt.Printf("[%d]\t\t\t= Diffusion nonzeros\n", r.NNZ)
	fmt.Printf("%.3e\t\t= Diffusion row sum defect\n", r.RowSumDefect)
	fmt.Printf("%v\t\t= Elapsed\n", r.Elapsed)
}
