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
	"pciemu/machine"
)

//
// BAR0 accesses.
//
// These go through the device's handler, so they are
// ordered with respect to everything else touching it.
//

type MmioSettings struct {
	// Offset within BAR0.
	Offset uint64 `json:"offset"`

	// Access size (4 or 8, default 8).
	Size uint `json:"size"`

	// Value (writes only).
	Value uint64 `json:"value"`
}

type MmioResult struct {
	Value uint64 `json:"value"`
}

func accessSize(settings *MmioSettings) uint {
	if settings.Size == 0 {
		return 8
	}
	return settings.Size
}

func (rpc *Rpc) Read(settings *MmioSettings, res *MmioResult) error {
	event := &machine.MmioEvent{Length: accessSize(settings)}
	err := rpc.handler.Submit(event, settings.Offset)
	if err != nil {
		return err
	}
	res.Value = event.Data
	return nil
}

func (rpc *Rpc) Write(settings *MmioSettings, nop *Nop) error {
	event := &machine.MmioEvent{
		Length: accessSize(settings),
		Data:   settings.Value,
		Write:  true,
	}
	return rpc.handler.Submit(event, settings.Offset)
}
