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

import (
	"log"
	"sync"

	"golang.org/x/sys/unix"
)

//
// Memory --
//
// The bus memory that devices master. This stands in for
// the host RAM the driver pins and hands to the device.
// It always starts at bus address zero.
//

type Memory struct {
	// The mapping itself.
	mmap []byte

	// Devices and the control plane both touch
	// memory, so accesses are serialized here.
	lock sync.RWMutex
}

func NewMemory(size uint64) (*Memory, error) {

	if size == 0 || size%PageSize != 0 {
		return nil, MemoryUnaligned
	}

	mmap, err := unix.Mmap(
		-1,
		0,
		int(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_NORESERVE)
	if err != nil {
		return nil, err
	}

	log.Printf(
		"platform: creating %x byte bus memory [%x,%x]...",
		size,
		0,
		size-1)

	return &Memory{mmap: mmap}, nil
}

func (memory *Memory) Size() uint64 {
	memory.lock.RLock()
	defer memory.lock.RUnlock()
	return uint64(len(memory.mmap))
}

func (memory *Memory) check(addr Paddr, length int) error {
	if memory.mmap == nil {
		return MemoryReleased
	}
	size := uint64(len(memory.mmap))
	if uint64(addr) > size || uint64(length) > size-uint64(addr) {
		return MemoryOutOfRange
	}
	return nil
}

// DmaRead copies from bus memory at addr into data.
func (memory *Memory) DmaRead(addr Paddr, data []byte) error {
	memory.lock.RLock()
	defer memory.lock.RUnlock()

	if err := memory.check(addr, len(data)); err != nil {
		return err
	}
	copy(data, memory.mmap[addr:])
	return nil
}

// DmaWrite copies data into bus memory at addr.
func (memory *Memory) DmaWrite(addr Paddr, data []byte) error {
	memory.lock.Lock()
	defer memory.lock.Unlock()

	if err := memory.check(addr, len(data)); err != nil {
		return err
	}
	copy(memory.mmap[addr:], data)
	return nil
}

func (memory *Memory) Dispose() error {
	memory.lock.Lock()
	defer memory.lock.Unlock()

	if memory.mmap == nil {
		return nil
	}
	err := unix.Munmap(memory.mmap)
	memory.mmap = nil
	return err
}
