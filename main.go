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
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"pciemu/control"
	"pciemu/machine"
	"pciemu/platform"
	"pciemu/utils"
)

// Our control server.
var control_path = flag.String("control", "pciemu.sock", "control socket path")

// Device description.
var config = flag.String("config", "", "device description (JSON)")

// Host parameters.
var memory_size = flag.Uint64("memory", 16*1024*1024, "bus memory size")
var msi = flag.Bool("msi", true, "negotiate MSI")

// Device parameters (without -config).
var addr_bits = flag.Uint("addr-bits", machine.DmaAddrCapability, "DMA address bits")

// Debug parameters.
var debug = flag.Bool("debug", false, "device starts debugging")

func die(err error) {
	log.Fatal(err)
}

func loadInfo() (*machine.DeviceInfo, error) {
	info := &machine.DeviceInfo{
		Name:   "pciemu0",
		Driver: "pciemu",
		Data: map[string]interface{}{
			"addr-capability": *addr_bits,
		},
	}

	if *config != "" {
		config_file, err := os.Open(*config)
		if err != nil {
			return nil, err
		}
		defer config_file.Close()

		info = new(machine.DeviceInfo)
		err = json.NewDecoder(config_file).Decode(info)
		if err != nil {
			return nil, err
		}
	}

	info.Debug = info.Debug || *debug
	return info, nil
}

func main() {
	// Parse all command line options.
	flag.Parse()

	info, err := loadInfo()
	if err != nil {
		die(err)
	}

	// Create the host side.
	memory, err := platform.NewMemory(*memory_size)
	if err != nil {
		die(err)
	}
	defer memory.Dispose()

	interrupts, err := platform.NewInterrupts(*msi, machine.IrqCount)
	if err != nil {
		die(err)
	}
	defer interrupts.Dispose()

	// Load and attach the device.
	device, err := info.Load()
	if err != nil {
		die(err)
	}
	pciemu, ok := device.(*machine.Pciemu)
	if !ok {
		die(NotPciemu)
	}
	err = pciemu.Attach(memory, interrupts)
	if err != nil {
		die(err)
	}
	handler, err := pciemu.Handler()
	if err != nil {
		die(err)
	}

	// Create our RPC server.
	rpc, err := control.NewRpc(pciemu, memory, interrupts)
	if err != nil {
		die(err)
	}
	server, err := control.NewControl(*control_path, rpc)
	if err != nil {
		die(err)
	}
	server.Serve()
	log.Printf("Serving %s on %s.", pciemu.Name(), server.Addr())

	// Run until we get a TERM signal, or the server dies.
	// If we receive a HUP signal, the device is reset.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, utils.SigShutdown, utils.SigReset, os.Interrupt)

	group, ctx := errgroup.WithContext(context.Background())
	group.Go(server.Wait)
	group.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil

			case sig := <-signals:
				switch sig {
				case utils.SigReset:
					log.Printf("Reset.")
					err := handler.Control(pciemu.Reset)
					if err != nil {
						return err
					}

				default:
					log.Printf("Shutdown.")
					return server.Stop()
				}
			}
		}
	})

	err = group.Wait()

	// The device goes down either way.
	handler.Control(pciemu.Finalize)
	if err != nil {
		die(err)
	}
}
