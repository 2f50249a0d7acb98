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
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// Event server.
//
// Interrupts leave the device as eventfd signals, the
// same way an irqfd would hand them to a hypervisor.
// These are plain blocking calls; we only ever have a
// handful of waiters.

type EventFd struct {
	// Underlying FD.
	fd int
}

func NewEventFd() (*EventFd, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}

	eventfd := &EventFd{fd: fd}
	return eventfd, nil
}

func (fd *EventFd) Close() error {
	return unix.Close(fd.fd)
}

func (fd *EventFd) Fd() int {
	return fd.fd
}

// Wait blocks until the counter is non-zero, then
// returns and resets it.
func (fd *EventFd) Wait() (uint64, error) {
	var buf [8]byte
	for {
		_, err := unix.Read(fd.fd, buf[:])
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return 0, err
		}
		return binary.NativeEndian.Uint64(buf[:]), nil
	}
}

func (fd *EventFd) Signal(val uint64) error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], val)
	for {
		_, err := unix.Write(fd.fd, buf[:])
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return err
		}
		return nil
	}
}
