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
	"bytes"
	"encoding/json"
	"log"
)

type DeviceInfo struct {
	// Friendly name.
	Name string `json:"name"`

	// Driver name.
	Driver string `json:"driver"`

	// Device-specific info.
	Data interface{} `json:"data"`

	// Debugging?
	Debug bool `json:"debug"`
}

func (info DeviceInfo) Load() (Device, error) {

	// Find the appropriate driver.
	driver, ok := drivers[info.Driver]
	if !ok {
		return nil, DriverUnknown(info.Driver)
	}

	// Load the driver.
	device, err := driver(&info)
	if err != nil {
		return nil, err
	}

	if info.Data != nil {
		// Scratch data.
		buffer := bytes.NewBuffer(nil)

		// Encode the original object.
		err = json.NewEncoder(buffer).Encode(info.Data)
		if err != nil {
			return nil, err
		}

		// Decode over the defaults.
		log.Printf("Loading %s...", device.Name())
		err = json.NewDecoder(buffer).Decode(device)
		if err != nil {
			return nil, err
		}
	}

	return device, nil
}
