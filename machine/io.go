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
	"sync"

	"pciemu/platform"
)

//
// I/O events & operations --
//
// All MMIO accesses are constrained to one simple
// interface, which is what a device implements for
// each of its BARs.
//

type IoEvent interface {
	Size() uint

	GetData() uint64
	SetData(val uint64)

	IsWrite() bool
}

type IoOperations interface {
	Read(offset uint64, size uint) (uint64, error)
	Write(offset uint64, size uint, value uint64) error
}

type MemoryRegion struct {
	Start platform.Paddr `json:"start"`
	Size  uint64         `json:"size"`
}

//
// I/O queues --
//
// I/O requests are serviced by a single go-routine,
// which pulls requests from a channel, performs the
// read/write as necessary and sends the result back
// on a requested channel.
//
// This is what serializes register accesses for a
// device. The device itself has no locks beyond the
// atomic DMA status.

type IoRequest struct {
	event  IoEvent
	offset uint64
	op     func() error
	result chan error
}

type IoQueue chan IoRequest

//
// I/O Handler --
//
// A handler represents a device instance, combined
// with a set of operations (typically for a single BAR).

type IoHandler struct {
	MemoryRegion

	device     Device
	operations IoOperations
	queue      IoQueue
	done       chan struct{}
	stop       sync.Once
}

func NewIoHandler(
	device Device,
	region MemoryRegion,
	operations IoOperations) *IoHandler {

	io := &IoHandler{
		MemoryRegion: region,
		device:       device,
		operations:   operations,
		queue:        make(IoQueue),
		done:         make(chan struct{}),
	}

	// Start the handler.
	go io.Run()

	return io
}

// Submit sends the request to the device and waits for it.
// The offset is relative to the start of the region.
func (io *IoHandler) Submit(event IoEvent, offset uint64) error {

	// Accesses are 4 or 8 bytes wide.
	size := event.Size()
	if size != 4 && size != 8 {
		return IoInvalidSize
	}
	if offset > io.MemoryRegion.Size ||
		uint64(size) > io.MemoryRegion.Size-offset {
		return IoOutOfRange
	}

	// Send the request to the device.
	return io.send(IoRequest{event: event, offset: offset})
}

// Control runs op on the handler, in order with any
// outstanding accesses. Resets and snapshots go here.
func (io *IoHandler) Control(op func() error) error {
	return io.send(IoRequest{op: op})
}

func (io *IoHandler) send(req IoRequest) error {
	req.result = make(chan error, 1)
	select {
	case io.queue <- req:
	case <-io.done:
		return DeviceFinalized
	}

	// Pull the result when it's done.
	return <-req.result
}

func (io *IoHandler) Stop() {
	io.stop.Do(func() { close(io.done) })
}

func (io *IoHandler) Run() {

	for {
		// Pull next request.
		var req IoRequest
		select {
		case req = <-io.queue:
		case <-io.done:
			return
		}

		// Stopped while we were waiting?
		select {
		case <-io.done:
			req.result <- DeviceFinalized
			return
		default:
		}

		// Perform the operation.
		if req.op != nil {
			req.result <- req.op()

		} else if req.event.IsWrite() {
			val := req.event.GetData()
			err := io.operations.Write(
				req.offset,
				req.event.Size(),
				val)

			req.result <- err

			io.device.Debug("write %x @ %x+%x",
				val,
				io.MemoryRegion.Start,
				req.offset)

		} else {
			val, err := io.operations.Read(
				req.offset,
				req.event.Size())
			if err == nil {
				req.event.SetData(val)
			}

			req.result <- err

			io.device.Debug("read %x @ %x+%x",
				val,
				io.MemoryRegion.Start,
				req.offset)
		}
	}
}

// MmioEvent is a single access issued against a region.
type MmioEvent struct {
	Length uint
	Data   uint64
	Write  bool
}

func (mmio *MmioEvent) Size() uint {
	return mmio.Length
}

func (mmio *MmioEvent) GetData() uint64 {
	return mmio.Data
}

func (mmio *MmioEvent) SetData(val uint64) {
	mmio.Data = val
}

func (mmio *MmioEvent) IsWrite() bool {
	return mmio.Write
}
