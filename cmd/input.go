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
	"github.com/notargets/gocvfem/device"
	"github.com/notargets/gocvfem/execution"
)

const exampleFile = `
########################################
Title: "Perturbed Quad2D9 block"
Topology: Quad2D9 # Quad2D4, Quad2D9, Hex8 or Hex27
Execution: teams # sequential, lanes, teams or device
Teams: 4
DeviceMode: '{"mode": "Serial"}'
Block:
  NX: 8
  NY: 4
  Lx: 2.
  Ly: 1.
  Perturbation: 0.1
  Seed: 1
Field: quadratic # linear or quadratic
Probes:
  - Name: centerline
    Tail: [0., 0.5, 0.]
    Tip: [2., 0.5, 0.]
    NPoints: 41
    Frequency: 1
########################################
`

func processInput(icFile string) (ip *InputParameters.CVFEMParameters) {
	var (
		err  error
		data []byte
	)
	if len(icFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if data, err = os.ReadFile(icFile); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	ip = &InputParameters.CVFEMParameters{}
	if err = ip.Parse(data); err != nil {
		fmt.Printf("error: %s: %s\n", icFile, err.Error())
		os.Exit(1)
	}
	return
}

// newExecutor builds the configured executor, free releases its device
// resources
func newExecutor(ip *InputParameters.CVFEMParameters) (ex execution.Executor, free func(), err error) {
	free = func() {}
	if ip.Mode() == execution.DeviceMode {
		var dex *device.Executor
		if dex, err = device.NewExecutor(ip.DeviceMode, 0); err != nil {
			return
		}
		return dex, dex.Free, nil
	}
	ex, err = execution.New(ip.Mode(), ip.Teams)
	return
}
