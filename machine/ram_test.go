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
	"math"
	"testing"
)

func TestRam(t *testing.T) {
	ram := NewRam(16)

	ram.Write(8, 8, 0x0102030405060708)
	if value, _ := ram.Read(8, 4); value != 0x05060708 {
		t.Errorf("read got %x", value)
	}
	if value, _ := ram.Read(12, 8); value != math.MaxUint64 {
		t.Errorf("out of range read got %x", value)
	}
	if value, _ := ram.Read(math.MaxUint64-3, 8); value != math.MaxUint64 {
		t.Errorf("wrapping read got %x", value)
	}
	ram.Write(math.MaxUint64-3, 8, 0)
	if ram.Get64(8) != 0x0102030405060708 {
		t.Errorf("wrapping write landed")
	}
	if ram.Get8(8) != 0x08 {
		t.Errorf("not little endian")
	}

	if ram.Slice(8, 8) == nil || ram.Slice(9, 8) != nil || ram.Slice(17, 0) != nil {
		t.Errorf("bad slicing")
	}

	ram.Zero()
	if ram.Get64(8) != 0 {
		t.Errorf("zero failed")
	}
}
