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

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"

	"pciemu/machine"
	"pciemu/platform"
)

//
// Client --
//
// The driver's view of the device. Transfers are
// programmed exactly as a host driver would: descriptor,
// command, doorbell, then wait for the completion and
// acknowledge it.
//

type Client struct {
	conn   net.Conn
	client *rpc.Client
}

func Dial(path string) (*Client, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, err
	}

	_, err = conn.Write([]byte(RpcHeader))
	if err != nil {
		conn.Close()
		return nil, err
	}

	codec := jsonrpc.NewClientCodec(conn)
	return &Client{
		conn:   conn,
		client: rpc.NewClientWithCodec(codec),
	}, nil
}

func (client *Client) Close() error {
	return client.client.Close()
}

func (client *Client) Read(offset uint64) (uint64, error) {
	var res MmioResult
	err := client.client.Call(
		"Rpc.Read",
		&MmioSettings{Offset: offset, Size: 8},
		&res)
	return res.Value, err
}

func (client *Client) Write(offset uint64, value uint64) error {
	var nop Nop
	return client.client.Call(
		"Rpc.Write",
		&MmioSettings{Offset: offset, Size: 8, Value: value},
		&nop)
}

func (client *Client) ConfigRead(offset uint64, size uint) (uint64, error) {
	var res MmioResult
	err := client.client.Call(
		"Rpc.ConfigRead",
		&MmioSettings{Offset: offset, Size: size},
		&res)
	return res.Value, err
}

func (client *Client) Reset() error {
	var nop Nop
	return client.client.Call("Rpc.Reset", &Nop{}, &nop)
}

func (client *Client) SetDebug(enabled bool) error {
	var nop Nop
	return client.client.Call("Rpc.Debug", &DebugSettings{Enabled: enabled}, &nop)
}

func (client *Client) State() (*machine.PciemuState, error) {
	state := new(machine.PciemuState)
	err := client.client.Call("Rpc.State", &Nop{}, state)
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (client *Client) MemoryRead(addr platform.Paddr, length uint64) ([]byte, error) {
	var res MemoryResult
	err := client.client.Call(
		"Rpc.MemoryRead",
		&MemoryReadSettings{Addr: addr, Len: length},
		&res)
	return res.Data, err
}

func (client *Client) MemoryWrite(addr platform.Paddr, data []byte) error {
	var nop Nop
	return client.client.Call(
		"Rpc.MemoryWrite",
		&MemoryWriteSettings{Addr: addr, Data: data},
		&nop)
}

func (client *Client) WaitInterrupt(vector uint) (uint64, error) {
	var res InterruptResult
	err := client.client.Call(
		"Rpc.WaitInterrupt",
		&InterruptSettings{Vector: vector},
		&res)
	return res.Count, err
}

func (client *Client) transfer(src, dst platform.Paddr, length uint64, cmd uint64) error {

	// The device would drop it, and we'd never
	// see a completion to wait for.
	if length > machine.DmaAreaSize {
		return TransferTooLarge
	}

	writes := []struct {
		offset uint64
		value  uint64
	}{
		{machine.Bar0DmaCfgTxDescSrc, uint64(src)},
		{machine.Bar0DmaCfgTxDescDst, uint64(dst)},
		{machine.Bar0DmaCfgTxDescLen, length},
		{machine.Bar0DmaCfgCmd, cmd},
		{machine.Bar0DmaDoorbellRing, 1},
	}
	for _, w := range writes {
		if err := client.Write(w.offset, w.value); err != nil {
			return err
		}
	}

	_, err := client.WaitInterrupt(machine.IrqDmaEndedVector)
	return err
}

// DmaToDevice copies length bytes at addr into the
// start of the device buffer.
func (client *Client) DmaToDevice(addr platform.Paddr, length uint64) error {
	return client.transfer(
		addr,
		machine.DmaAreaStart,
		length,
		machine.DmaDirectionToDevice)
}

// DmaFromDevice copies length bytes from the start of
// the device buffer to addr.
func (client *Client) DmaFromDevice(addr platform.Paddr, length uint64) error {
	return client.transfer(
		machine.DmaAreaStart,
		addr,
		length,
		machine.DmaDirectionFromDevice)
}
