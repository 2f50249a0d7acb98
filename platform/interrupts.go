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
	"sync"
	"sync/atomic"
)

//
// Interrupts --
//
// The host side of a device's interrupt wiring. Either MSI
// was negotiated, in which case every vector gets its own
// eventfd, or the device falls back to a single INTx line.
//

type Interrupts struct {
	// Was MSI negotiated?
	msi bool

	// One eventfd per MSI vector.
	vectors []*EventFd

	// Notifications sent, per vector.
	sent []atomic.Uint64

	// The legacy line.
	intx  *EventFd
	level bool
	edges atomic.Uint64

	// Protects level and release.
	lock     sync.Mutex
	released bool
}

func NewInterrupts(msi bool, vectors uint) (*Interrupts, error) {

	intx, err := NewEventFd()
	if err != nil {
		return nil, err
	}

	interrupts := &Interrupts{
		msi:  msi,
		intx: intx,
	}

	if msi {
		interrupts.vectors = make([]*EventFd, 0, vectors)
		interrupts.sent = make([]atomic.Uint64, vectors)
		for i := uint(0); i < vectors; i += 1 {
			eventfd, err := NewEventFd()
			if err != nil {
				interrupts.Dispose()
				return nil, err
			}
			interrupts.vectors = append(interrupts.vectors, eventfd)
		}
	}

	return interrupts, nil
}

func (interrupts *Interrupts) MsiEnabled() bool {
	return interrupts.msi
}

func (interrupts *Interrupts) SignalMsi(vector uint) error {
	if !interrupts.msi {
		return MsiNotNegotiated
	}

	interrupts.lock.Lock()
	defer interrupts.lock.Unlock()

	if interrupts.released {
		return MsiReleased
	}
	if vector >= uint(len(interrupts.vectors)) {
		return MsiInvalidVector
	}

	interrupts.sent[vector].Add(1)
	return interrupts.vectors[vector].Signal(1)
}

func (interrupts *Interrupts) SetLevel(high bool) error {
	interrupts.lock.Lock()
	defer interrupts.lock.Unlock()

	rising := high && !interrupts.level
	interrupts.level = high

	// Only the edge wakes waiters, the
	// level itself is kept for Level().
	if rising {
		interrupts.edges.Add(1)
		return interrupts.intx.Signal(1)
	}
	return nil
}

func (interrupts *Interrupts) Level() bool {
	interrupts.lock.Lock()
	defer interrupts.lock.Unlock()
	return interrupts.level
}

func (interrupts *Interrupts) ReleaseMsi() error {
	interrupts.lock.Lock()
	defer interrupts.lock.Unlock()

	if interrupts.released {
		return nil
	}
	interrupts.released = true

	var first error
	for _, eventfd := range interrupts.vectors {
		if err := eventfd.Close(); err != nil && first == nil {
			first = err
		}
	}
	interrupts.vectors = nil
	return first
}

// Sent returns how many notifications were delivered.
// For the INTx line this is the number of rising edges.
func (interrupts *Interrupts) Sent(vector uint) uint64 {
	if !interrupts.msi {
		return interrupts.edges.Load()
	}
	if vector >= uint(len(interrupts.sent)) {
		return 0
	}
	return interrupts.sent[vector].Load()
}

// Wait blocks until the given vector (or the INTx line,
// when MSI is not in use) has been signalled.
func (interrupts *Interrupts) Wait(vector uint) error {

	interrupts.lock.Lock()
	eventfd := interrupts.intx
	if interrupts.msi {
		if interrupts.released {
			interrupts.lock.Unlock()
			return MsiReleased
		}
		if vector >= uint(len(interrupts.vectors)) {
			interrupts.lock.Unlock()
			return MsiInvalidVector
		}
		eventfd = interrupts.vectors[vector]
	}
	interrupts.lock.Unlock()

	_, err := eventfd.Wait()
	return err
}

func (interrupts *Interrupts) Dispose() error {
	err := interrupts.ReleaseMsi()
	if close_err := interrupts.intx.Close(); err == nil {
		err = close_err
	}
	return err
}
