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

	"github.com/notargets/gocvfem/assembly"
	"github.com/notargets/gocvfem/execution"
	"github.com/notargets/gocvfem/geometry"
	"github.com/notargets/gocvfem/master"
	"github.com/notargets/gocvfem/topology"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const checkTol = 1.e-12

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the master element invariants of every topology",
	Long: `Verify partition of unity, sub-control volume partition, closed
control volume surfaces and equivalence of the host executors for every
topology, printing one row per master element.`,
	Run: func(cmd *cobra.Command, args []string) {
		teams, _ := cmd.Flags().GetInt("teams")
		rows, err := RunCheck(teams, viper.GetBool("verbose"))
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		fmt.Printf("%-8s %-4s %12s %12s %12s %12s\n", "Kind", "Role", "Unity", "Volume", "Closure", "Executors")
		failed := false
		for _, r := range rows {
			r.Print()
			failed = failed || !r.Pass()
		}
		if failed {
			fmt.Println("FAILED")
			os.Exit(1)
		}
		fmt.Println("PASSED")
	},
}

func init() {
	rootCmd.AddCommand(CheckCmd)
	CheckCmd.Flags().IntP("teams", "t", 4, "number of teams for the parallel executor")
}

// CheckRow holds the defects measured for one master element, NaN where a
// check does not apply
type CheckRow struct {
	Kind                              topology.Kind
	Role                              string
	Unity, Volume, Closure, Executors float64
}

func (r CheckRow) Pass() bool {
	for _, d := range []float64{r.Unity, r.Volume, r.Closure, r.Executors} {
		if d > checkTol {
			return false
		}
	}
	return true
}

func (r CheckRow) Print() {
	status := "ok"
	if !r.Pass() {
		status = "FAIL"
	}
	fmt.Printf("%-8v %-4s %12.3e %12.3e %12.3e %12.3e  %s\n",
		r.Kind, r.Role, r.Unity, r.Volume, r.Closure, r.Executors, status)
}

// RunCheck measures the invariants on small structured blocks of every
// volume topology and on their boundary faces
func RunCheck(teams int, verbose bool) (rows []CheckRow, err error) {
	executors := []execution.Executor{
		execution.NewLanes[float64](),
		execution.NewTeams(teams),
	}
	for _, k := range topology.VolumeKinds() {
		var (
			scv, scs = master.NewVolume(k), master.NewSurface(k)
			face     = master.NewSurface(topology.Get(k).FaceKind)
			n        = [3]int{2, 2, 2}
			l        = [3]float64{1, 2, 3}
			b        *geometry.Block
			vol      []float64
		)
		if b, err = geometry.NewBlock(k, n, l); err != nil {
			return
		}
		scvRow := CheckRow{Kind: k, Role: "scv", Unity: master.UnityDefect(scv), Closure: math.NaN()}
		scsRow := CheckRow{Kind: k, Role: "scs", Unity: master.UnityDefect(scs), Volume: math.NaN()}
		faceRow := CheckRow{Kind: face.Kind(), Role: "face", Unity: master.UnityDefect(face),
			Volume: math.NaN(), Closure: math.NaN()}

		// sub-control volumes tile an affine block exactly
		if vol, err = assembly.Lumped(b, scv, execution.NewSequential()); err != nil {
			return
		}
		var total float64
		for _, v := range vol {
			total += v
		}
		scvRow.Volume = math.Abs(total-b.Volume()) / b.Volume()

		b.Perturb(0.1, 1)
		var coords []float64
		for e := 0; e < b.K; e++ {
			coords = b.ElementCoords(e, coords)
			var defect float64
			if defect, err = master.ClosureDefect(k, coords); err != nil {
				return
			}
			if verbose {
				fmt.Printf("%v element %d closure defect %.3e\n", k, e, defect)
			}
			scsRow.Closure = math.Max(scsRow.Closure, defect)
		}

		bt := b.Batch()
		fb := b.FaceBatch(b.Boundary())
		for _, ex := range executors {
			var d float64
			if d, err = compareExecutors(scv, ex, bt); err != nil {
				return
			}
			scvRow.Executors = math.Max(scvRow.Executors, d)
			if d, err = compareExecutors(scs, ex, bt); err != nil {
				return
			}
			scsRow.Executors = math.Max(scsRow.Executors, d)
			if d, err = compareExecutors(face, ex, fb); err != nil {
				return
			}
			faceRow.Executors = math.Max(faceRow.Executors, d)
		}
		rows = append(rows, scvRow, scsRow, faceRow)
	}
	return
}

// compareExecutors returns the largest difference between ex and the
// sequential executor, relative to the largest sequential value
func compareExecutors(me master.MasterElement, ex execution.Executor, bt execution.Batch) (diff float64, err error) {
	perIp := 1
	if me.Kernel().Direction != nil || me.Kernel().ParametricDim != me.SpatialDim() {
		perIp = me.SpatialDim()
	}
	var (
		ref = make([]float64, bt.K*me.NumIntPoints()*perIp)
		out = make([]float64, len(ref))
		big float64
	)
	if err = master.DeterminantBatch(me, execution.NewSequential(), bt, ref); err != nil {
		return
	}
	if err = master.DeterminantBatch(me, ex, bt, out); err != nil {
		return
	}
	for i := range ref {
		big = math.Max(big, math.Abs(ref[i]))
		diff = math.Max(diff, math.Abs(out[i]-ref[i]))
	}
	if big > 0 {
		diff /= big
	}
	return
}
