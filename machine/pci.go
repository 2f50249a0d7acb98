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

//
// PciConfig --
//
// We don't model the PCI configuration space; there is no
// bus to enumerate us. What we keep is the standard header
// so that the identity of the device (and the interrupt pin
// it would fall back to) can be reported to clients.

type PciVendorId uint16
type PciDeviceId uint16
type PciClass uint8
type PciRevision uint8

const (
	PciClassStorage        PciClass = 0x1
	PciClassNetwork        PciClass = 0x2
	PciClassDisplay        PciClass = 0x3
	PciClassMultimedia     PciClass = 0x4
	PciClassMemory         PciClass = 0x5
	PciClassBridge         PciClass = 0x6
	PciClassCommunications PciClass = 0x7
	PciClassBase           PciClass = 0x8
	PciClassInput          PciClass = 0x9
	PciClassMisc           PciClass = 0xff
)

//
// Configuration offsets.
//
const (
	PciConfigOffsetVendor       = 0x0
	PciConfigOffsetDevice       = 0x2
	PciConfigOffsetCommand      = 0x4
	PciConfigOffsetStatus       = 0x6
	PciConfigOffsetRevision     = 0x8
	PciConfigOffsetClass        = 0xb
	PciConfigOffsetHeaderType   = 0xe
	PciConfigOffsetBar0         = 0x10
	PciConfigOffsetInterruptPin = 0x3d

	PciConfigSize = 0x40
)

type PciIdentity struct {
	Vendor   PciVendorId `json:"vendor"`
	Device   PciDeviceId `json:"device"`
	Class    PciClass    `json:"class"`
	Revision PciRevision `json:"revision"`
}

func NewPciConfig(
	vendor_id PciVendorId,
	device_id PciDeviceId,
	class PciClass,
	revision PciRevision,
	bar0_size uint32) *Ram {

	config := NewRam(PciConfigSize)

	config.Write(PciConfigOffsetVendor, 2, uint64(vendor_id))
	config.Write(PciConfigOffsetDevice, 2, uint64(device_id))
	config.Write(PciConfigOffsetCommand, 2, 0x2) // Memory space.
	config.Write(PciConfigOffsetStatus, 2, 0x0)
	config.Write(PciConfigOffsetRevision, 1, uint64(revision))
	config.Write(PciConfigOffsetClass, 1, uint64(class))
	config.Write(PciConfigOffsetHeaderType, 1, 0x0)

	// BAR0 is a 32-bit memory bar. We report the size
	// mask, as a bus would see it after writing all ones.
	config.Write(PciConfigOffsetBar0, 4, uint64(^(bar0_size - 1)))

	// The pin is reported as INTx + 1 (0 means no pin).
	config.Write(PciConfigOffsetInterruptPin, 1, IrqIntx+1)

	return config
}

func PciIdentityOf(config *Ram) PciIdentity {
	return PciIdentity{
		Vendor:   PciVendorId(config.Get16(PciConfigOffsetVendor)),
		Device:   PciDeviceId(config.Get16(PciConfigOffsetDevice)),
		Class:    PciClass(config.Get8(PciConfigOffsetClass)),
		Revision: PciRevision(config.Get8(PciConfigOffsetRevision)),
	}
}
