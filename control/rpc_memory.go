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
	"pciemu/platform"
)

//
// Bus memory.
//
// This is what a driver would have pinned and handed to
// the device. Clients stage data here before a transfer
// and collect it afterwards.
//

type MemoryReadSettings struct {
	Addr platform.Paddr `json:"addr"`
	Len  uint64         `json:"len"`
}

type MemoryWriteSettings struct {
	Addr platform.Paddr `json:"addr"`
	Data []byte         `json:"data"`
}

type MemoryResult struct {
	Data []byte `json:"data"`
}

func (rpc *Rpc) MemoryRead(settings *MemoryReadSettings, res *MemoryResult) error {
	if settings.Len > rpc.memory.Size() {
		return platform.MemoryOutOfRange
	}
	data := make([]byte, settings.Len, settings.Len)
	err := rpc.memory.DmaRead(settings.Addr, data)
	if err != nil {
		return err
	}
	res.Data = data
	return nil
}

func (rpc *Rpc) MemoryWrite(settings *MemoryWriteSettings, nop *Nop) error {
	return rpc.memory.DmaWrite(settings.Addr, settings.Data)
}
