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
	"bytes"
	"encoding/binary"
	"flag"
	"math/rand"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"golang.org/x/term"

	"pciemu/control"
	"pciemu/machine"
	"pciemu/platform"
)

var control_path = flag.String("control", "pciemu.sock", "control socket path")
var script = flag.String("script", "", "run a Lua script instead")
var dump = flag.Bool("dump", false, "dump device state and exit")
var regs = flag.Int("regs", machine.Bar0RegCount, "number of registers to exercise")
var addr = flag.Uint64("addr", 0x1000, "bus address for the DMA round trip")
var verbose = flag.Bool("v", false, "turn on device tracing")

var info = color.New(color.FgCyan)
var good = color.New(color.FgGreen)
var bad = color.New(color.FgRed, color.Bold)

func die(err error) {
	bad.Fprintf(os.Stderr, "%s\n", err.Error())
	os.Exit(1)
}

func printRegisters(client *control.Client, msg string) error {
	info.Printf("%sread register contents:\n", msg)
	for i := 0; i < *regs; i += 1 {
		value, err := client.Read(uint64(i) * 8)
		if err != nil {
			return err
		}
		info.Printf("  reg[%d] = %d\n", i, value)
	}
	return nil
}

func writeRegisters(client *control.Client) error {
	info.Printf("writing to registers ...\n")
	for i := 0; i < *regs; i += 1 {
		err := client.Write(uint64(i)*8, uint64(rand.Intn(1024)))
		if err != nil {
			return err
		}
	}
	return nil
}

// roundTrip sends a random word to the device and
// brings it back into the next page.
func roundTrip(client *control.Client) (bool, error) {
	src := platform.Paddr(*addr)
	dst := src.After(platform.PageSize)

	word := make([]byte, 4, 4)
	binary.LittleEndian.PutUint32(word, rand.Uint32())
	info.Printf("dma %x: %x -> device -> %x\n", word, src, dst)

	err := client.MemoryWrite(src, word)
	if err != nil {
		return false, err
	}
	err = client.DmaToDevice(src, uint64(len(word)))
	if err != nil {
		return false, err
	}
	err = client.DmaFromDevice(dst, uint64(len(word)))
	if err != nil {
		return false, err
	}

	result, err := client.MemoryRead(dst, uint64(len(word)))
	if err != nil {
		return false, err
	}
	return bytes.Equal(result, word), nil
}

func main() {
	flag.Parse()

	// No colors unless someone is looking.
	color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))

	client, err := control.Dial(*control_path)
	if err != nil {
		die(err)
	}
	defer client.Close()

	if *verbose {
		err = client.SetDebug(true)
		if err != nil {
			die(err)
		}
	}

	if *dump {
		state, err := client.State()
		if err != nil {
			die(err)
		}
		spew.Dump(state)
		return
	}

	vendor, err := client.ConfigRead(machine.PciConfigOffsetVendor, 2)
	if err != nil {
		die(err)
	}
	device, err := client.ConfigRead(machine.PciConfigOffsetDevice, 2)
	if err != nil {
		die(err)
	}
	info.Printf("device %04x:%04x\n", vendor, device)

	if *script != "" {
		err = runScript(client, *script)
		if err != nil {
			die(err)
		}
		return
	}

	// Registers first.
	err = printRegisters(client, "initial ")
	if err != nil {
		die(err)
	}
	err = writeRegisters(client)
	if err != nil {
		die(err)
	}
	err = printRegisters(client, "")
	if err != nil {
		die(err)
	}

	// Then a transfer each way.
	ok, err := roundTrip(client)
	if err != nil {
		die(err)
	}
	if !ok {
		bad.Printf("dma mismatch\n")
		os.Exit(1)
	}
	good.Printf("dma ok\n")
}
