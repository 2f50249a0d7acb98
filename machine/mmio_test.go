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
	"testing"
)

func TestRegisters(t *testing.T) {
	pciemu, _, _ := newTestPciemu(t, true)

	offsets := []uint64{Bar0Reg0, Bar0Reg1, Bar0Reg2, Bar0Reg3}
	for i, offset := range offsets {
		pciemu.Write(offset, 8, 0x1111111111111111*uint64(i+1))
	}
	for i, offset := range offsets {
		value, err := pciemu.Read(offset, 8)
		if err != nil {
			t.Fatalf("read %x: %v", offset, err)
		}
		if value != 0x1111111111111111*uint64(i+1) {
			t.Errorf("register %d: got %x", i, value)
		}
	}
}

func TestCommandOffsetsReadOnes(t *testing.T) {
	pciemu, _, _ := newTestPciemu(t, true)

	for offset := uint64(0x20); offset <= Bar0End; offset += 8 {
		value, _ := pciemu.Read(offset, 8)
		if value != math.MaxUint64 {
			t.Errorf("offset %x: got %x", offset, value)
		}
	}
}

func TestInvalidOffsets(t *testing.T) {
	pciemu, bus, lines := newTestPciemu(t, true)

	for _, offset := range []uint64{0x58, 0x60, 0xff8, 0x1000, math.MaxUint64} {
		value, _ := pciemu.Read(offset, 8)
		if value != math.MaxUint64 {
			t.Errorf("read %x: got %x", offset, value)
		}
		pciemu.Write(offset, 8, 0x1234)
	}

	// Nothing changed.
	for i := range pciemu.Registers {
		if pciemu.Registers[i] != 0 {
			t.Errorf("register %d changed", i)
		}
	}
	if pciemu.Dma.Config.TxDesc != (DmaTransferDesc{}) {
		t.Errorf("dma config changed")
	}
	if bus.calls() != 0 || len(lines.signals) != 0 {
		t.Errorf("invalid writes had effects")
	}
}

func TestUnalignedOffsetsIgnored(t *testing.T) {
	pciemu, _, _ := newTestPciemu(t, true)

	pciemu.Write(0x4, 4, 0xffffffff)
	pciemu.Write(0x34, 4, 0xffffffff)

	if pciemu.Registers[0] != 0 {
		t.Errorf("register 0 changed")
	}
	if pciemu.Dma.Config.TxDesc.Src != 0 {
		t.Errorf("src changed")
	}
	value, _ := pciemu.Read(0x4, 4)
	if value != math.MaxUint64 {
		t.Errorf("unaligned read got %x", value)
	}
}
