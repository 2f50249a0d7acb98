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
	"io"
	"log"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"

	"gopkg.in/tomb.v2"
)

// Every connection starts with this header.
// It's a simple plaintext protocol, exactly
// eleven characters with a trailing newline.
const RpcHeader = "PCIEMU RPC\n"

type Control struct {

	// The bound control socket.
	listener net.Listener

	// Our rpc server.
	rpc *Rpc

	// Open connections.
	conns     map[net.Conn]bool
	conns_mut sync.Mutex

	tomb tomb.Tomb
}

func (control *Control) track(conn net.Conn, open bool) bool {
	control.conns_mut.Lock()
	defer control.conns_mut.Unlock()

	if !open {
		delete(control.conns, conn)
		return true
	}
	if !control.tomb.Alive() {
		return false
	}
	control.conns[conn] = true
	return true
}

func (control *Control) handle(
	conn net.Conn,
	server *rpc.Server) {

	defer conn.Close()
	if !control.track(conn, true) {
		return
	}
	defer control.track(conn, false)

	// Read single header.
	header_buf := make([]byte, len(RpcHeader), len(RpcHeader))
	_, err := io.ReadFull(conn, header_buf)
	if err != nil {
		conn.Write([]byte(err.Error()))
		return
	}
	if string(header_buf) != RpcHeader {
		conn.Write([]byte(InvalidHeader.Error()))
		return
	}

	// Run as JSON RPC connection.
	codec := jsonrpc.NewServerCodec(conn)
	server.ServeCodec(codec)
}

func (control *Control) serve() error {

	// Bind our rpc server.
	server := rpc.NewServer()
	err := server.Register(control.rpc)
	if err != nil {
		return err
	}

	for {
		// Accept clients.
		conn, err := control.listener.Accept()
		if err != nil {
			select {
			case <-control.tomb.Dying():
				return nil
			default:
				return err
			}
		}
		go control.handle(conn, server)
	}
}

func (control *Control) shutdown() error {
	<-control.tomb.Dying()

	err := control.listener.Close()

	// Hang up on everyone.
	control.conns_mut.Lock()
	for conn := range control.conns {
		conn.Close()
	}
	control.conns_mut.Unlock()

	return err
}

// Serve runs the accept loop until Stop is called.
func (control *Control) Serve() {
	control.tomb.Go(func() error {
		control.tomb.Go(control.shutdown)
		return control.serve()
	})
}

func (control *Control) Addr() net.Addr {
	return control.listener.Addr()
}

// Dead is closed once the server has fully stopped.
func (control *Control) Dead() <-chan struct{} {
	return control.tomb.Dead()
}

func (control *Control) Wait() error {
	return control.tomb.Wait()
}

func (control *Control) Stop() error {
	control.tomb.Kill(nil)
	err := control.tomb.Wait()
	if err != nil {
		log.Printf("control: %v", err)
	}
	return err
}

func NewControl(path string, rpc *Rpc) (*Control, error) {

	// Is it invalid, for sure?
	if path == "" {
		return nil, InvalidControlSocket
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}

	// Create our control object.
	control := new(Control)
	control.listener = listener
	control.rpc = rpc
	control.conns = make(map[net.Conn]bool)

	return control, nil
}
