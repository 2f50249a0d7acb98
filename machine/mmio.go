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
	"math"
)

//
// BAR0 --
//
// Only the plain registers can be read back. Every other
// offset in the window is a command and reads as all ones,
// as does anything outside the window.
//

func validOffset(offset uint64) bool {
	return offset >= Bar0Start && offset <= Bar0End
}

func (pciemu *Pciemu) Read(offset uint64, size uint) (uint64, error) {
	if !pciemu.attached {
		// Nothing is mapped yet.
		return math.MaxUint64, nil
	}
	if !validOffset(offset) {
		pciemu.Debug("read from invalid offset %x", offset)
		return math.MaxUint64, nil
	}

	switch offset {
	case Bar0Reg0, Bar0Reg1, Bar0Reg2, Bar0Reg3:
		return pciemu.Registers[offset/8], nil
	}

	return math.MaxUint64, nil
}

func (pciemu *Pciemu) Write(offset uint64, size uint, value uint64) error {
	if !pciemu.attached {
		return nil
	}
	if !validOffset(offset) {
		pciemu.Debug("write to invalid offset %x", offset)
		return nil
	}

	switch offset {
	case Bar0Reg0, Bar0Reg1, Bar0Reg2, Bar0Reg3:
		pciemu.Registers[offset/8] = value

	case Bar0Irq0Raise:
		pciemu.Irq.Raise(IrqDmaEndedVector)
	case Bar0Irq0Lower:
		pciemu.Irq.Lower(IrqDmaEndedVector)

	case Bar0DmaCfgTxDescSrc:
		pciemu.Dma.ConfigSrc(value)
	case Bar0DmaCfgTxDescDst:
		pciemu.Dma.ConfigDst(value)
	case Bar0DmaCfgTxDescLen:
		pciemu.Dma.ConfigLen(value)
	case Bar0DmaCfgCmd:
		pciemu.Dma.ConfigCmd(value)

	case Bar0DmaDoorbellRing:
		pciemu.Dma.DoorbellRing()
	}

	return nil
}
