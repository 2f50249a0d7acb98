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
// Hardware resources --
//
// This is the datasheet of the pciemu device. Drivers and
// clients program against these values, so they must not
// drift from what the device model implements.
//

// PCI identity.
const (
	PciemuVendorId PciVendorId = 0x1b36
	PciemuDeviceId PciDeviceId = 0x1100
	PciemuRevision PciRevision = 0x01
	PciemuClass    PciClass    = PciClassMisc
)

// BAR0 registers.
const (
	Bar0RegCount = 4

	Bar0Reg0 = 0x00
	Bar0Reg1 = 0x08
	Bar0Reg2 = 0x10
	Bar0Reg3 = 0x18

	// Debug interrupt toggles.
	Bar0Irq0Raise = 0x20
	Bar0Irq0Lower = 0x28

	// DMA configuration.
	Bar0DmaCfgTxDescSrc = 0x30
	Bar0DmaCfgTxDescDst = 0x38
	Bar0DmaCfgTxDescLen = 0x40
	Bar0DmaCfgCmd       = 0x48
	Bar0DmaDoorbellRing = 0x50

	// Decoded window.
	Bar0Start = Bar0Reg0
	Bar0End   = Bar0DmaDoorbellRing

	// What we report for the BAR itself.
	Bar0Size = platform.PageSize
)

// DMA.
const (
	DmaAddrCapability = 32

	DmaAreaStart platform.Paddr = 0x10000
	DmaAreaSize                 = 0x1000

	DmaDirectionToDevice   = 0x1
	DmaDirectionFromDevice = 0x2
)

// Interrupts.
const (
	IrqMaxVectors = 32

	IrqCount       = 1
	IrqVectorStart = 0
	IrqVectorEnd   = 0
	IrqIntx        = 0 // INTA

	IrqDmaEndedVector = 0
	IrqDmaEndedAddr   = Bar0Irq0Raise
	IrqDmaAckAddr     = Bar0Irq0Lower
)
