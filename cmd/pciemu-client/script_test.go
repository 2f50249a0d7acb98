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
package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"pciemu/control"
	"pciemu/machine"
	"pciemu/platform"
)

func newTestClient(t *testing.T) *control.Client {
	memory, err := platform.NewMemory(0x10000)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	interrupts, err := platform.NewInterrupts(true, machine.IrqCount)
	if err != nil {
		t.Fatalf("NewInterrupts: %v", err)
	}

	device, err := machine.DeviceInfo{Name: "pciemu0", Driver: "pciemu"}.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pciemu := device.(*machine.Pciemu)
	pciemu.SetLogger(log.New(io.Discard, "", 0))
	if err := pciemu.Attach(memory, interrupts); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	rpc, err := control.NewRpc(pciemu, memory, interrupts)
	if err != nil {
		t.Fatalf("NewRpc: %v", err)
	}
	path := filepath.Join(t.TempDir(), "control")
	server, err := control.NewControl(path, rpc)
	if err != nil {
		t.Fatalf("NewControl: %v", err)
	}
	server.Serve()

	client, err := control.Dial(path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		server.Stop()
		handler, _ := pciemu.Handler()
		handler.Control(pciemu.Finalize)
		interrupts.Dispose()
		memory.Dispose()
	})
	return client
}

func writeScript(t *testing.T, source string) string {
	path := filepath.Join(t.TempDir(), "test.lua")
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestScript(t *testing.T) {
	client := newTestClient(t)

	path := writeScript(t, `
if config_read(0, 2) ~= 0x1b36 then
	error("vendor mismatch")
end

write(0x08, 1234)
if read(0x08) ~= 1234 then
	error("register mismatch")
end

mem_write(0x1000, "abcd")
dma_to_device(0x1000, 4)
dma_from_device(0x2000, 4)
if mem_read(0x2000, 4) ~= "abcd" then
	error("dma mismatch")
end
`)

	if err := runScript(client, path); err != nil {
		t.Fatalf("script: %v", err)
	}

	value, err := client.Read(machine.Bar0Reg1)
	if err != nil || value != 1234 {
		t.Errorf("register not written: %d %v", value, err)
	}
}

func TestScriptError(t *testing.T) {
	client := newTestClient(t)

	path := writeScript(t, "dma_to_device(0x1000, 0x2000)\n")
	if err := runScript(client, path); err == nil {
		t.Errorf("oversized transfer did not fail the script")
	}
}

func TestRoundTrip(t *testing.T) {
	client := newTestClient(t)

	ok, err := roundTrip(client)
	if err != nil {
		t.Fatalf("roundTrip: %v", err)
	}
	if !ok {
		t.Errorf("round trip mismatch")
	}
}
