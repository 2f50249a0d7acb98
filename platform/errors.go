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
	"errors"
)

// Memory errors.
var MemoryUnaligned = errors.New("Memory size not page aligned!")
var MemoryOutOfRange = errors.New("Access outside of bus memory!")
var MemoryReleased = errors.New("Bus memory already released!")

// Interrupt errors.
var MsiNotNegotiated = errors.New("MSI was not negotiated!")
var MsiInvalidVector = errors.New("Invalid MSI vector!")
var MsiReleased = errors.New("MSI vectors already released!")
