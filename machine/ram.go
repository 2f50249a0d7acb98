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
	"encoding/binary"
	"math"
)

// Ram is a flat, little-endian byte store. It backs the
// DMA area and the PCI header.
type Ram struct {
	Data []byte `json:"data"`
}

func (ram *Ram) Size() int {
	return len(ram.Data)
}

func (ram *Ram) Zero() {
	clear(ram.Data)
}

func (ram *Ram) Set8(offset int, data uint8) {
	ram.Data[offset] = byte(data)
}

func (ram *Ram) Get8(offset int) uint8 {
	return ram.Data[offset]
}

func (ram *Ram) Set16(offset int, data uint16) {
	binary.LittleEndian.PutUint16(ram.Data[offset:], data)
}

func (ram *Ram) Get16(offset int) uint16 {
	return binary.LittleEndian.Uint16(ram.Data[offset:])
}

func (ram *Ram) Set32(offset int, data uint32) {
	binary.LittleEndian.PutUint32(ram.Data[offset:], data)
}

func (ram *Ram) Get32(offset int) uint32 {
	return binary.LittleEndian.Uint32(ram.Data[offset:])
}

func (ram *Ram) Set64(offset int, data uint64) {
	binary.LittleEndian.PutUint64(ram.Data[offset:], data)
}

func (ram *Ram) Get64(offset int) uint64 {
	return binary.LittleEndian.Uint64(ram.Data[offset:])
}

// Slice returns the window [offset, offset+length),
// or nil when it doesn't fit.
func (ram *Ram) Slice(offset uint64, length uint64) []byte {
	size := uint64(ram.Size())
	if offset > size || length > size-offset {
		return nil
	}
	return ram.Data[offset : offset+length]
}

func (ram *Ram) fits(offset uint64, size uint) bool {
	total := uint64(ram.Size())
	return offset <= total && uint64(size) <= total-offset
}

func (ram *Ram) Read(offset uint64, size uint) (uint64, error) {

	value := uint64(math.MaxUint64)

	// Is it greater than our size?
	if !ram.fits(offset, size) {
		// Ignore.
		return value, nil
	}

	// Handle default.
	switch size {
	case 1:
		value = uint64(ram.Get8(int(offset)))
	case 2:
		value = uint64(ram.Get16(int(offset)))
	case 4:
		value = uint64(ram.Get32(int(offset)))
	case 8:
		value = ram.Get64(int(offset))
	}

	return value, nil
}

func (ram *Ram) Write(offset uint64, size uint, value uint64) error {

	// Is it greater than our size?
	if !ram.fits(offset, size) {
		// Ignore.
		return nil
	}

	// Handle default.
	switch size {
	case 1:
		ram.Set8(int(offset), uint8(value))
	case 2:
		ram.Set16(int(offset), uint16(value))
	case 4:
		ram.Set32(int(offset), uint32(value))
	case 8:
		ram.Set64(int(offset), value)
	}

	return nil
}

func NewRam(size int) *Ram {
	ram := new(Ram)
	ram.Data = make([]byte, size, size)
	return ram
}
