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
	"pciemu/platform"
)

//
// Host interfaces --
//
// What a device needs from whoever hosts it. The platform
// package provides real implementations; tests provide
// recording fakes.
//

// BusMaster moves bytes between bus addresses and a local
// buffer. Either call may fail (e.g. unmapped addresses).
type BusMaster interface {
	DmaRead(addr platform.Paddr, data []byte) error
	DmaWrite(addr platform.Paddr, data []byte) error
}

// InterruptLines delivers interrupts for a device.
type InterruptLines interface {
	// Was MSI negotiated? Queried once at attach.
	MsiEnabled() bool

	// Send the message for the given vector.
	SignalMsi(vector uint) error

	// Drive the legacy pin.
	SetLevel(high bool) error

	// Give back any MSI resources.
	ReleaseMsi() error
}
