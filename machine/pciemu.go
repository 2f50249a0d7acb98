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

import (
	"pciemu/platform"
)

//
// Pciemu --
//
// The device proper: four scratch registers, a DMA engine
// and an interrupt controller behind a single BAR.
//
// Nothing here locks. Register accesses must be serialized
// by the caller, which is what the IoHandler returned from
// Attach does.
//

type Pciemu struct {
	BaseDevice

	// Bus address bits the engine can drive.
	AddrCapability uint `json:"addr-capability"`

	// Where BAR0 is mapped.
	Bar0 platform.Paddr `json:"bar0"`

	Registers [Bar0RegCount]uint64 `json:"registers"`

	// Standard header (identity only).
	Pci *Ram `json:"-"`

	Dma DmaEngine           `json:"-"`
	Irq InterruptController `json:"-"`

	// Our bus master (set at attach).
	bus BusMaster

	// Our serialized BAR0 path (set at attach).
	handler *IoHandler

	attached  bool
	finalized bool
}

func NewPciemu(info *DeviceInfo) (Device, error) {
	pciemu := new(Pciemu)
	pciemu.AddrCapability = DmaAddrCapability
	pciemu.Pci = NewPciConfig(
		PciemuVendorId,
		PciemuDeviceId,
		PciemuClass,
		PciemuRevision,
		Bar0Size)
	pciemu.Dma.Pciemu = pciemu
	pciemu.Irq.Pciemu = pciemu
	pciemu.Dma.Buffer = NewRam(DmaAreaSize)
	pciemu.Dma.Reset()
	return pciemu, pciemu.Init(info)
}

// Attach wires the device to its host and brings it up.
func (pciemu *Pciemu) Attach(bus BusMaster, lines InterruptLines) error {
	if pciemu.finalized {
		return DeviceFinalized
	}
	if pciemu.handler != nil {
		return DeviceAlreadyAttached
	}

	pciemu.bus = bus
	pciemu.Irq.init(lines)
	err := pciemu.Dma.init(pciemu.AddrCapability)
	if err != nil {
		return err
	}

	pciemu.handler = NewIoHandler(
		pciemu,
		MemoryRegion{Start: pciemu.Bar0, Size: Bar0Size},
		pciemu)
	pciemu.attached = true

	pciemu.Debug("attached (%s, %d-bit dma)",
		pciemu.Irq.Mode(),
		pciemu.AddrCapability)
	return nil
}

// Handler is the serialized BAR0 path.
func (pciemu *Pciemu) Handler() (*IoHandler, error) {
	if pciemu.handler == nil {
		return nil, DeviceNotAttached
	}
	return pciemu.handler, nil
}

// ConfigRead reads the standard header.
// The header never changes, so this needs no serialization.
func (pciemu *Pciemu) ConfigRead(offset uint64, size uint) uint64 {
	value, _ := pciemu.Pci.Read(offset, size)
	return value
}

func (pciemu *Pciemu) Reset() error {
	if pciemu.finalized {
		return DeviceFinalized
	}

	pciemu.Irq.Reset()
	pciemu.Dma.Reset()
	clear(pciemu.Registers[:])
	pciemu.Debug("reset")
	return nil
}

func (pciemu *Pciemu) Finalize() error {
	if pciemu.finalized {
		return nil
	}

	pciemu.Irq.Finalize()
	pciemu.Dma.Finalize()
	clear(pciemu.Registers[:])

	pciemu.finalized = true
	if pciemu.handler != nil {
		pciemu.handler.Stop()
	}
	pciemu.Debug("finalized")
	return nil
}
