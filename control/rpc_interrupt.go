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
// Interrupt handling.
//
// This plays the part of a driver's handler: wait for the
// completion to arrive, then acknowledge it on the device.
//

type InterruptSettings struct {
	Vector uint `json:"vector"`
}

type InterruptResult struct {
	// Total notifications seen on this vector.
	Count uint64 `json:"count"`
}

func (rpc *Rpc) WaitInterrupt(settings *InterruptSettings, res *InterruptResult) error {
	err := rpc.interrupts.Wait(settings.Vector)
	if err != nil {
		return err
	}

	ack := &machine.MmioEvent{
		Length: 8,
		Data:   uint64(settings.Vector),
		Write:  true,
	}
	err = rpc.handler.Submit(ack, machine.IrqDmaAckAddr)
	if err != nil {
		return err
	}

	res.Count = rpc.interrupts.Sent(settings.Vector)
	return nil
}
