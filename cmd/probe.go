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
	"os"

	"github.com/notargets/gocvfem/InputParameters"
	"github.com/notargets/gocvfem/probe"
	"github.com/spf13/cobra"
)

// ProbeCmd represents the probe command
var ProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Sample the analytic field along lines of sight",
	Long: `Interpolate the configured analytic field at the points of every line
of sight and write one text file per line to the output directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		icFile, _ := cmd.Flags().GetString("inputConditionsFile")
		dir, _ := cmd.Flags().GetString("outputDir")
		ip := processInput(icFile)
		ip.Print()
		paths, err := RunProbes(ip, dir)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		for _, p := range paths {
			fmt.Printf("wrote %s\n", p)
		}
	},
}

func init() {
	rootCmd.AddCommand(ProbeCmd)
	ProbeCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Topology\n\t- Block\n\t- Probes")
	ProbeCmd.Flags().StringP("outputDir", "o", ".", "directory for the probe output files")
}

func RunProbes(ip *InputParameters.CVFEMParameters, dir string) (paths []string, err error) {
	if len(ip.Probes) == 0 {
		return nil, fmt.Errorf("no probes configured")
	}
	fn, err := probe.Field(ip.Field)
	if err != nil {
		return
	}
	b, err := ip.NewBlock()
	if err != nil {
		return
	}
	var (
		field   = b.Evaluate(3, fn)
		sampler = probe.NewSampler(b)
	)
	for _, los := range ip.Probes {
		var (
			pts               = los.Points(b.Dim)
			values, unmatched = sampler.Sample(pts, 3, field)
			wr                *probe.Writer
		)
		if unmatched != 0 {
			fmt.Printf("probe %s: %d of %d points outside the block\n", los.Name, unmatched, los.NPoints)
		}
		if wr, err = probe.NewWriter(dir, los.Name); err != nil {
			return
		}
		if err = wr.Write(0, b.Dim, pts, 3, values); err != nil {
			wr.Close()
			return
		}
		if err = wr.Close(); err != nil {
			return
		}
		paths = append(paths, wr.Path)
	}
	return
}
