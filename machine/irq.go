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

//
// InterruptController --
//
// Interrupts leave the device either as MSI messages (one
// per vector, preferred) or on the legacy INTx pin. Which
// one is decided once, when the device is attached, and
// the state below is whichever variant was picked.
//

type IrqMode int

const (
	IrqModeNone IrqMode = iota
	IrqModePin
	IrqModeMsi
)

func (mode IrqMode) String() string {
	switch mode {
	case IrqModePin:
		return "pin"
	case IrqModeMsi:
		return "msi"
	}
	return "none"
}

// PinState is the INTx variant.
type PinState struct {
	Raised bool `json:"raised"`
}

// MsiState is the MSI variant.
type MsiState struct {
	Raised [IrqMaxVectors]bool `json:"raised"`
}

type InterruptController struct {
	*Pciemu `json:"-"`

	// Either *PinState or *MsiState.
	// Nil until attached.
	state interface{}

	// Where interrupts are delivered.
	lines InterruptLines
}

func (irq *InterruptController) init(lines InterruptLines) {
	irq.lines = lines

	// Prefer MSI if the host negotiated it,
	// otherwise fall back on the pin.
	if lines.MsiEnabled() {
		irq.state = &MsiState{}
	} else {
		irq.state = &PinState{}
	}

	irq.Debug("irq: using %s mode", irq.Mode())
}

func (irq *InterruptController) Mode() IrqMode {
	switch irq.state.(type) {
	case *PinState:
		return IrqModePin
	case *MsiState:
		return IrqModeMsi
	}
	return IrqModeNone
}

// IsRaised reports the flag for the given vector.
// In pin mode the vector is ignored.
func (irq *InterruptController) IsRaised(vector uint) bool {
	switch state := irq.state.(type) {
	case *PinState:
		return state.Raised
	case *MsiState:
		if vector >= IrqMaxVectors {
			return false
		}
		return state.Raised[vector]
	}
	return false
}

// Raise raises the given vector.
func (irq *InterruptController) Raise(vector uint) {
	switch state := irq.state.(type) {
	case *PinState:
		state.Raised = true
		if err := irq.lines.SetLevel(true); err != nil {
			irq.GuestError("irq: raise intx err=%v", err)
		}

	case *MsiState:
		if vector >= IrqMaxVectors {
			irq.GuestError("irq: raise vector %d out of range", vector)
			return
		}
		state.Raised[vector] = true
		if err := irq.lines.SignalMsi(vector); err != nil {
			irq.GuestError("irq: msi notify vector %d err=%v", vector, err)
		}
	}
}

// Lower acknowledges the given vector.
//
// Nothing is sent for MSI; the driver only ever learns
// about an interrupt through the message itself.
func (irq *InterruptController) Lower(vector uint) {
	switch state := irq.state.(type) {
	case *PinState:
		state.Raised = false
		if err := irq.lines.SetLevel(false); err != nil {
			irq.GuestError("irq: lower intx err=%v", err)
		}

	case *MsiState:
		if vector >= IrqMaxVectors {
			irq.GuestError("irq: lower vector %d out of range", vector)
			return
		}
		if !state.Raised[vector] {
			return
		}
		state.Raised[vector] = false
	}
}

// Reset lowers every vector the device uses.
func (irq *InterruptController) Reset() {
	for i := uint(IrqVectorStart); i <= IrqVectorEnd; i += 1 {
		irq.Lower(i)
	}
}

func (irq *InterruptController) Finalize() {
	irq.Reset()

	if irq.lines == nil {
		return
	}
	if err := irq.lines.ReleaseMsi(); err != nil {
		irq.GuestError("irq: msi release err=%v", err)
	}
}
