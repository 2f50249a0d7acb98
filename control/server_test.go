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
package control

import (
	"bytes"
	"io"
	"log"
	"math"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"pciemu/machine"
	"pciemu/platform"
)

type testServer struct {
	path       string
	control    *Control
	device     *machine.Pciemu
	memory     *platform.Memory
	interrupts *platform.Interrupts
}

func newTestServer(t *testing.T, msi bool) *testServer {
	memory, err := platform.NewMemory(0x100000)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	interrupts, err := platform.NewInterrupts(msi, machine.IrqCount)
	if err != nil {
		t.Fatalf("NewInterrupts: %v", err)
	}

	info := &machine.DeviceInfo{Name: "pciemu0", Driver: "pciemu"}
	device, err := info.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pciemu := device.(*machine.Pciemu)
	pciemu.SetLogger(log.New(io.Discard, "", 0))
	if err := pciemu.Attach(memory, interrupts); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	rpc, err := NewRpc(pciemu, memory, interrupts)
	if err != nil {
		t.Fatalf("NewRpc: %v", err)
	}
	path := filepath.Join(t.TempDir(), "control")
	control, err := NewControl(path, rpc)
	if err != nil {
		t.Fatalf("NewControl: %v", err)
	}
	control.Serve()

	server := &testServer{
		path:       path,
		control:    control,
		device:     pciemu,
		memory:     memory,
		interrupts: interrupts,
	}
	t.Cleanup(func() {
		control.Stop()
		handler, _ := pciemu.Handler()
		handler.Control(pciemu.Finalize)
		interrupts.Dispose()
		memory.Dispose()
	})
	return server
}

func (server *testServer) dial(t *testing.T) *Client {
	client, err := Dial(server.path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestControlRegisters(t *testing.T) {
	server := newTestServer(t, true)
	client := server.dial(t)

	for i := uint64(0); i < machine.Bar0RegCount; i += 1 {
		if err := client.Write(i*8, 0x100+i); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	for i := uint64(0); i < machine.Bar0RegCount; i += 1 {
		value, err := client.Read(i * 8)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if value != 0x100+i {
			t.Errorf("register %d: got %x", i, value)
		}
	}

	// Outside the BAR entirely.
	if _, err := client.Read(machine.Bar0Size); err == nil {
		t.Errorf("read outside bar0 succeeded")
	}
}

func TestControlConfigRead(t *testing.T) {
	server := newTestServer(t, false)
	client := server.dial(t)

	vendor, err := client.ConfigRead(machine.PciConfigOffsetVendor, 2)
	if err != nil {
		t.Fatalf("ConfigRead: %v", err)
	}
	if vendor != uint64(machine.PciemuVendorId) {
		t.Errorf("vendor %x", vendor)
	}
	pin, err := client.ConfigRead(machine.PciConfigOffsetInterruptPin, 1)
	if err != nil {
		t.Fatalf("ConfigRead: %v", err)
	}
	if pin != machine.IrqIntx+1 {
		t.Errorf("pin %d", pin)
	}

	// Past the header floats high.
	value, err := client.ConfigRead(machine.PciConfigSize, 4)
	if err != nil {
		t.Fatalf("ConfigRead: %v", err)
	}
	if value != math.MaxUint64 {
		t.Errorf("past header got %x", value)
	}
}

func TestControlDmaRoundTrip(t *testing.T) {
	for _, msi := range []bool{true, false} {
		server := newTestServer(t, msi)
		client := server.dial(t)

		data := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03, 0x04}
		if err := client.MemoryWrite(0x1000, data); err != nil {
			t.Fatalf("MemoryWrite: %v", err)
		}
		if err := client.DmaToDevice(0x1000, uint64(len(data))); err != nil {
			t.Fatalf("DmaToDevice: %v", err)
		}
		if err := client.DmaFromDevice(0x2000, uint64(len(data))); err != nil {
			t.Fatalf("DmaFromDevice: %v", err)
		}

		result, err := client.MemoryRead(0x2000, uint64(len(data)))
		if err != nil {
			t.Fatalf("MemoryRead: %v", err)
		}
		if !bytes.Equal(result, data) {
			t.Errorf("msi=%v: round trip mismatch:\n%s", msi, spew.Sdump(result))
		}

		state, err := client.State()
		if err != nil {
			t.Fatalf("State: %v", err)
		}
		if state.Dma.Status != "idle" || len(state.Irq.Raised) != 0 {
			t.Errorf("msi=%v: bad state:\n%s", msi, spew.Sdump(state))
		}
		if server.interrupts.Sent(machine.IrqDmaEndedVector) != 2 {
			t.Errorf("msi=%v: expected two completions, got %d",
				msi, server.interrupts.Sent(machine.IrqDmaEndedVector))
		}
	}
}

func TestControlTransferTooLarge(t *testing.T) {
	server := newTestServer(t, true)
	client := server.dial(t)

	if err := client.DmaToDevice(0x1000, machine.DmaAreaSize+1); err != TransferTooLarge {
		t.Errorf("expected %v, got %v", TransferTooLarge, err)
	}
}

func TestControlMemoryOutOfRange(t *testing.T) {
	server := newTestServer(t, true)
	client := server.dial(t)

	if _, err := client.MemoryRead(0xffffc, 8); err == nil {
		t.Errorf("read past memory succeeded")
	}
	if err := client.MemoryWrite(0x100000, []byte{1}); err == nil {
		t.Errorf("write past memory succeeded")
	}
}

func TestControlResetAndDebug(t *testing.T) {
	server := newTestServer(t, true)
	client := server.dial(t)

	client.Write(machine.Bar0Reg1, 0x55)
	if err := client.SetDebug(true); err != nil {
		t.Fatalf("SetDebug: %v", err)
	}
	if err := client.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	state, err := client.State()
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Registers[1] != 0 || !state.Debug {
		t.Errorf("bad state:\n%s", spew.Sdump(state))
	}
	if state.Identity.Vendor != machine.PciemuVendorId {
		t.Errorf("bad identity:\n%s", spew.Sdump(state.Identity))
	}
}

func TestControlBadHeader(t *testing.T) {
	server := newTestServer(t, true)

	conn, err := net.Dial("unix", server.path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	conn.Write([]byte("NOVM  RPC!\n"))
	reply, _ := io.ReadAll(conn)
	if !strings.Contains(string(reply), InvalidHeader.Error()) {
		t.Errorf("unexpected reply %q", reply)
	}
}

func TestControlStop(t *testing.T) {
	server := newTestServer(t, true)
	client := server.dial(t)

	if err := server.control.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	<-server.control.Dead()

	if _, err := client.Read(machine.Bar0Reg0); err == nil {
		t.Errorf("connection survived stop")
	}
	if _, err := Dial(server.path); err == nil {
		t.Errorf("dial after stop succeeded")
	}
}

func TestNewControlInvalid(t *testing.T) {
	if _, err := NewControl("", nil); err != InvalidControlSocket {
		t.Errorf("expected %v, got %v", InvalidControlSocket, err)
	}
}
