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
package main

import (
	lua "github.com/yuin/gopher-lua"

	"pciemu/control"
	"pciemu/platform"
)

//
// Scripting --
//
// Scripts see the device through a handful of globals:
//
//   read(offset)                -> value
//   write(offset, value)
//   dma_to_device(addr, len)
//   dma_from_device(addr, len)
//   mem_read(addr, len)         -> string
//   mem_write(addr, string)
//
// Lua numbers are doubles, so register values above
// 2^53 lose their low bits.
//

func scriptFunctions(client *control.Client) map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"read": func(L *lua.LState) int {
			value, err := client.Read(uint64(L.CheckInt64(1)))
			if err != nil {
				L.RaiseError("read: %s", err.Error())
			}
			L.Push(lua.LNumber(value))
			return 1
		},
		"config_read": func(L *lua.LState) int {
			value, err := client.ConfigRead(
				uint64(L.CheckInt64(1)),
				uint(L.CheckInt(2)))
			if err != nil {
				L.RaiseError("config_read: %s", err.Error())
			}
			L.Push(lua.LNumber(value))
			return 1
		},
		"write": func(L *lua.LState) int {
			err := client.Write(
				uint64(L.CheckInt64(1)),
				uint64(L.CheckNumber(2)))
			if err != nil {
				L.RaiseError("write: %s", err.Error())
			}
			return 0
		},
		"dma_to_device": func(L *lua.LState) int {
			err := client.DmaToDevice(
				platform.Paddr(L.CheckInt64(1)),
				uint64(L.CheckInt64(2)))
			if err != nil {
				L.RaiseError("dma_to_device: %s", err.Error())
			}
			return 0
		},
		"dma_from_device": func(L *lua.LState) int {
			err := client.DmaFromDevice(
				platform.Paddr(L.CheckInt64(1)),
				uint64(L.CheckInt64(2)))
			if err != nil {
				L.RaiseError("dma_from_device: %s", err.Error())
			}
			return 0
		},
		"mem_read": func(L *lua.LState) int {
			data, err := client.MemoryRead(
				platform.Paddr(L.CheckInt64(1)),
				uint64(L.CheckInt64(2)))
			if err != nil {
				L.RaiseError("mem_read: %s", err.Error())
			}
			L.Push(lua.LString(data))
			return 1
		},
		"mem_write": func(L *lua.LState) int {
			err := client.MemoryWrite(
				platform.Paddr(L.CheckInt64(1)),
				[]byte(L.CheckString(2)))
			if err != nil {
				L.RaiseError("mem_write: %s", err.Error())
			}
			return 0
		},
	}
}

func runScript(client *control.Client, path string) error {
	L := lua.NewState()
	defer L.Close()

	for name, fn := range scriptFunctions(client) {
		L.SetGlobal(name, L.NewFunction(fn))
	}

	return L.DoFile(path)
}
