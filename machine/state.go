// Copyright 2014 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package machine

type DmaState struct {
	Config DmaConfig `json:"config"`
	Status string    `json:"status"`
}

type IrqState struct {
	Mode string `json:"mode"`

	// Raised vectors (in pin mode, vector 0 is the pin).
	Raised []uint `json:"raised"`
}

// PciemuState is a point-in-time copy of the device.
type PciemuState struct {
	Name      string               `json:"name"`
	Identity  PciIdentity          `json:"identity"`
	Debug     bool                 `json:"debug"`
	Registers [Bar0RegCount]uint64 `json:"registers"`
	Dma       DmaState             `json:"dma"`
	Irq       IrqState             `json:"irq"`
}

// State takes a snapshot. Like register accesses, it must
// be serialized with them (see IoHandler.Control).
func (pciemu *Pciemu) State() PciemuState {
	state := PciemuState{
		Name:      pciemu.Name(),
		Identity:  PciIdentityOf(pciemu.Pci),
		Debug:     pciemu.IsDebugging(),
		Registers: pciemu.Registers,
		Dma: DmaState{
			Config: pciemu.Dma.Config,
			Status: pciemu.Dma.Status().String(),
		},
		Irq: IrqState{
			Mode:   pciemu.Irq.Mode().String(),
			Raised: []uint{},
		},
	}

	for vector := uint(0); vector < IrqMaxVectors; vector += 1 {
		if pciemu.Irq.Mode() == IrqModePin && vector > 0 {
			break
		}
		if pciemu.Irq.IsRaised(vector) {
			state.Irq.Raised = append(state.Irq.Raised, vector)
		}
	}

	return state
}
