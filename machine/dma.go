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
	"sync/atomic"

	"pciemu/platform"
)

//
// DmaEngine --
//
// A single channel moving data between the bus and the
// internal buffer. The buffer is what the device exposes
// at DmaAreaStart; device-side addresses in a descriptor
// must fall inside it.
//
// The status is the only thing touched atomically. Every
// other field is owned by whoever holds the Idle -> Executing
// transition (or by the serialized register path while Idle).
//

type DmaStatus uint32

const (
	DmaIdle DmaStatus = iota
	DmaExecuting
	DmaOff
)

func (status DmaStatus) String() string {
	switch status {
	case DmaIdle:
		return "idle"
	case DmaExecuting:
		return "executing"
	case DmaOff:
		return "off"
	}
	return "unknown"
}

type DmaTransferDesc struct {
	Src platform.Paddr `json:"src"`
	Dst platform.Paddr `json:"dst"`
	Len uint64         `json:"len"`
}

type DmaConfig struct {
	TxDesc DmaTransferDesc `json:"txdesc"`
	Cmd    uint64          `json:"cmd"`

	// Computed once from the address capability.
	Mask uint64 `json:"mask"`
}

type DmaEngine struct {
	*Pciemu `json:"-"`

	Config DmaConfig `json:"config"`
	Buffer *Ram      `json:"buffer"`

	status atomic.Uint32
}

func (dma *DmaEngine) Status() DmaStatus {
	return DmaStatus(dma.status.Load())
}

func (dma *DmaEngine) init(capability uint) error {
	if capability == 0 || capability > 64 {
		return DmaInvalidCapability
	}

	dma.Reset()
	dma.Config.Mask = platform.BitMask(capability)

	dma.Debug("dma: mask %x", dma.Config.Mask)
	return nil
}

// The configuration is only writable while idle.
// Writes at any other time are dropped.
func (dma *DmaEngine) configurable(what string, value uint64) bool {
	if dma.Status() != DmaIdle {
		dma.Debug("dma: %s=%x ignored (%s)", what, value, dma.Status())
		return false
	}
	return true
}

func (dma *DmaEngine) ConfigSrc(value uint64) {
	if dma.configurable("src", value) {
		dma.Config.TxDesc.Src = platform.Paddr(value)
	}
}

func (dma *DmaEngine) ConfigDst(value uint64) {
	if dma.configurable("dst", value) {
		dma.Config.TxDesc.Dst = platform.Paddr(value)
	}
}

func (dma *DmaEngine) ConfigLen(value uint64) {
	if dma.configurable("len", value) {
		dma.Config.TxDesc.Len = value
	}
}

func (dma *DmaEngine) ConfigCmd(value uint64) {
	if dma.configurable("cmd", value) {
		dma.Config.Cmd = value
	}
}

// DoorbellRing runs the configured transfer to completion.
// It does nothing unless the engine is idle.
func (dma *DmaEngine) DoorbellRing() {
	if !dma.status.CompareAndSwap(
		uint32(DmaIdle),
		uint32(DmaExecuting)) {
		dma.Debug("dma: doorbell ignored (%s)", dma.Status())
		return
	}

	dma.execute()

	dma.status.Store(uint32(DmaIdle))
}

// inside checks that [addr, addr+length) is in the buffer.
func (dma *DmaEngine) inside(addr platform.Paddr, length uint64) bool {
	end := DmaAreaStart.After(DmaAreaSize)
	if addr < DmaAreaStart || addr >= end {
		return false
	}
	return length <= end.OffsetFrom(addr)
}

func (dma *DmaEngine) mask(addr platform.Paddr) platform.Paddr {
	masked := addr.Mask(dma.Config.Mask)
	if masked != addr {
		dma.GuestError("dma: masking %x to %x", addr, masked)
	}
	return masked
}

func (dma *DmaEngine) execute() {
	desc := dma.Config.TxDesc

	if dma.bus == nil {
		dma.GuestError("dma: doorbell with no bus attached")
		return
	}

	switch dma.Config.Cmd {
	case DmaDirectionToDevice:
		if !dma.inside(desc.Dst, desc.Len) {
			dma.GuestError(
				"dma: to-device dst %x len %x outside buffer",
				desc.Dst,
				desc.Len)
			return
		}
		src := dma.mask(desc.Src)
		buffer := dma.Buffer.Slice(desc.Dst.OffsetFrom(DmaAreaStart), desc.Len)
		dma.Debug("dma: %x -> buffer+%x (%x bytes)",
			src,
			desc.Dst.OffsetFrom(DmaAreaStart),
			desc.Len)
		if err := dma.bus.DmaRead(src, buffer); err != nil {
			dma.GuestError("dma: bus read %x err=%v", src, err)
		}

	case DmaDirectionFromDevice:
		if !dma.inside(desc.Src, desc.Len) {
			dma.GuestError(
				"dma: from-device src %x len %x outside buffer",
				desc.Src,
				desc.Len)
			return
		}
		dst := dma.mask(desc.Dst)
		buffer := dma.Buffer.Slice(desc.Src.OffsetFrom(DmaAreaStart), desc.Len)
		dma.Debug("dma: buffer+%x -> %x (%x bytes)",
			desc.Src.OffsetFrom(DmaAreaStart),
			dst,
			desc.Len)
		if err := dma.bus.DmaWrite(dst, buffer); err != nil {
			dma.GuestError("dma: bus write %x err=%v", dst, err)
		}

	default:
		dma.Debug("dma: unknown command %x", dma.Config.Cmd)
		return
	}

	// Completion is signalled even if the bus failed.
	dma.Irq.Raise(IrqDmaEndedVector)
}

// Reset clears the engine. Once off, it stays off.
func (dma *DmaEngine) Reset() {
	if dma.Status() == DmaOff {
		return
	}
	dma.status.Store(uint32(DmaIdle))
	dma.Config.TxDesc = DmaTransferDesc{}
	dma.Config.Cmd = 0
	dma.Buffer.Zero()
}

func (dma *DmaEngine) Finalize() {
	dma.Reset()
	dma.status.Store(uint32(DmaOff))
}
