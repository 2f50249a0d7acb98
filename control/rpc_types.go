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
	"pciemu/platform"
)

//
// Rpc --
//
// This is basic state provided to the
// Rpc interface. All Rpc functions have
// access to this state (but nothing else).
//

type Rpc struct {
	// Our device.
	device *machine.Pciemu

	// Its serialized BAR0 path.
	handler *machine.IoHandler

	// The bus memory it masters.
	memory *platform.Memory

	// Where its interrupts land.
	interrupts *platform.Interrupts
}

func NewRpc(
	device *machine.Pciemu,
	memory *platform.Memory,
	interrupts *platform.Interrupts) (*Rpc, error) {

	handler, err := device.Handler()
	if err != nil {
		return nil, err
	}

	return &Rpc{
		device:     device,
		handler:    handler,
		memory:     memory,
		interrupts: interrupts,
	}, nil
}

//
// The Noop --
//
// Many of our operations do not require
// a specific parameter or a specific return.
//
type Nop struct{}
