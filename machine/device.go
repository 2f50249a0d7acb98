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
	"log"
	"sync/atomic"
)

type Device interface {
	Name() string
	Driver() string

	// The BAR0 operations.
	IoOperations

	Attach(bus BusMaster, lines InterruptLines) error
	Reset() error
	Finalize() error

	IsDebugging() bool
	SetDebugging(debug bool)
	Debug(format string, v ...interface{})
}

type BaseDevice struct {
	// Pointer to original device info.
	info *DeviceInfo

	// Runtime debug flag (seeded from info).
	debug atomic.Bool

	// Where our messages go.
	logger *log.Logger
}

func (device *BaseDevice) Init(info *DeviceInfo) error {
	// Save our original device info.
	// This is for convenience in implementing Name()
	// and Driver() only and isn't structural.
	device.info = info
	device.debug.Store(info.Debug)
	device.logger = log.Default()
	return nil
}

func (device *BaseDevice) Name() string {
	return device.info.Name
}

func (device *BaseDevice) Driver() string {
	return device.info.Driver
}

func (device *BaseDevice) IsDebugging() bool {
	return device.debug.Load()
}

func (device *BaseDevice) SetDebugging(debug bool) {
	device.debug.Store(debug)
}

func (device *BaseDevice) SetLogger(logger *log.Logger) {
	device.logger = logger
}

// Debug traces device activity when debugging is on.
func (device *BaseDevice) Debug(format string, v ...interface{}) {
	if device.IsDebugging() {
		device.logger.Printf(device.Name()+": "+format, v...)
	}
}

// GuestError reports something the guest (or driver)
// did wrong. These are always logged, never returned.
func (device *BaseDevice) GuestError(format string, v ...interface{}) {
	device.logger.Printf(device.Name()+": guest error: "+format, v...)
}
