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
	"io"
	"log"
	"sync"
	"testing"

	"pciemu/platform"
)

type busCall struct {
	Addr platform.Paddr
	Data []byte
}

// testBus records every transfer. Reads fill the buffer
// with a counting pattern starting at fill.
type testBus struct {
	lock   sync.Mutex
	reads  []busCall
	writes []busCall
	fill   byte
	err    error

	// If set, reads announce themselves on entered and
	// then wait for release.
	entered chan struct{}
	release chan struct{}
}

func (bus *testBus) DmaRead(addr platform.Paddr, data []byte) error {
	if bus.entered != nil {
		bus.entered <- struct{}{}
		<-bus.release
	}

	bus.lock.Lock()
	defer bus.lock.Unlock()
	for i := range data {
		data[i] = bus.fill + byte(i)
	}
	bus.reads = append(bus.reads, busCall{addr, append([]byte(nil), data...)})
	return bus.err
}

func (bus *testBus) DmaWrite(addr platform.Paddr, data []byte) error {
	bus.lock.Lock()
	defer bus.lock.Unlock()
	bus.writes = append(bus.writes, busCall{addr, append([]byte(nil), data...)})
	return bus.err
}

func (bus *testBus) calls() int {
	bus.lock.Lock()
	defer bus.lock.Unlock()
	return len(bus.reads) + len(bus.writes)
}

// testLines records every interrupt action.
type testLines struct {
	msi      bool
	signals  []uint
	levels   []bool
	released int
}

func (lines *testLines) MsiEnabled() bool {
	return lines.msi
}

func (lines *testLines) SignalMsi(vector uint) error {
	lines.signals = append(lines.signals, vector)
	return nil
}

func (lines *testLines) SetLevel(high bool) error {
	lines.levels = append(lines.levels, high)
	return nil
}

func (lines *testLines) ReleaseMsi() error {
	lines.released += 1
	return nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestPciemu(t *testing.T, msi bool) (*Pciemu, *testBus, *testLines) {
	return newTestPciemuWith(t, msi, DmaAddrCapability)
}

func newTestPciemuWith(
	t *testing.T,
	msi bool,
	capability uint) (*Pciemu, *testBus, *testLines) {

	device, err := NewPciemu(&DeviceInfo{Name: "pciemu0", Driver: "pciemu"})
	if err != nil {
		t.Fatalf("NewPciemu: %v", err)
	}
	pciemu := device.(*Pciemu)
	pciemu.SetLogger(quietLogger())
	pciemu.AddrCapability = capability

	bus := &testBus{fill: 0xa0}
	lines := &testLines{msi: msi}
	if err := pciemu.Attach(bus, lines); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(func() { pciemu.handler.Stop() })

	return pciemu, bus, lines
}

// program writes a full descriptor and command.
func program(pciemu *Pciemu, src, dst, length, cmd uint64) {
	pciemu.Write(Bar0DmaCfgTxDescSrc, 8, src)
	pciemu.Write(Bar0DmaCfgTxDescDst, 8, dst)
	pciemu.Write(Bar0DmaCfgTxDescLen, 8, length)
	pciemu.Write(Bar0DmaCfgCmd, 8, cmd)
}
