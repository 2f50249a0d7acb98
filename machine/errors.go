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
	"errors"
	"fmt"
)

// Basic errors.
var DeviceNotAttached = errors.New("Device not attached!")
var DeviceAlreadyAttached = errors.New("Device already attached!")
var DeviceFinalized = errors.New("Device finalized!")

// I/O errors.
var IoInvalidSize = errors.New("Invalid I/O access size!")
var IoOutOfRange = errors.New("I/O access outside of region!")

// Configuration errors.
var DmaInvalidCapability = errors.New("Invalid DMA address capability!")

// Driver errors.
func DriverUnknown(name string) error {
	return fmt.Errorf("Unknown driver: %s", name)
}
