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

package platform

// Bus addresses.
// These are what a device sees when it masters the bus.
type Paddr uint64

const (
	PageSize = 4096
)

func (paddr Paddr) OffsetFrom(base Paddr) uint64 {
	return uint64(paddr) - uint64(base)
}

func (paddr Paddr) After(length uint64) Paddr {
	return Paddr(uint64(paddr) + uint64(length))
}

// Mask returns the address limited to the given bitmask.
func (paddr Paddr) Mask(mask uint64) Paddr {
	return Paddr(uint64(paddr) & mask)
}

// BitMask returns a mask covering the lower bits.
// Anything at or above 64 bits is a full mask.
func BitMask(bits uint) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}
