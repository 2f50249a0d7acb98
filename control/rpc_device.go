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
package control

//
// Low-level device controls.
//

type DebugSettings struct {
	// Trace accesses?
	Enabled bool `json:"enabled"`
}

func (rpc *Rpc) Reset(nopin *Nop, nopout *Nop) error {
	return rpc.handler.Control(rpc.device.Reset)
}

// ConfigRead reads the standard header. The offset is
// within configuration space; sizes are 1, 2, 4 or 8.
func (rpc *Rpc) ConfigRead(settings *MmioSettings, res *MmioResult) error {
	res.Value = rpc.device.ConfigRead(settings.Offset, accessSize(settings))
	return nil
}

func (rpc *Rpc) Debug(settings *DebugSettings, nop *Nop) error {
	rpc.device.SetDebugging(settings.Enabled)
	return nil
}
