// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package net

import (
	"net"

	"github.com/dbkit/mysqlstmt/pkg/util/errors"
	"github.com/go-mysql-org/go-mysql/packet"
)

// PacketConn frames commands and responses over an established MySQL
// connection. The handshake must already be complete; authentication and
// TLS are the dialer's business.
type PacketConn struct {
	conn *packet.Conn
}

func NewPacketConn(conn net.Conn) *PacketConn {
	return &PacketConn{conn: packet.NewConn(conn)}
}

// WriteCommand starts a fresh command cycle: the sequence number restarts
// and the opcode is prepended to the payload.
func (p *PacketConn) WriteCommand(cmd Command, payload []byte) error {
	p.conn.ResetSequence()
	data := make([]byte, 4, 5+len(payload))
	data = append(data, cmd.Byte())
	data = append(data, payload...)
	return errors.WithStack(p.conn.WritePacket(data))
}

func (p *PacketConn) ReadPacket() ([]byte, error) {
	data, err := p.conn.ReadPacket()
	return data, errors.WithStack(err)
}

func (p *PacketConn) ReadPackets(n int) ([][]byte, error) {
	packets := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		data, err := p.ReadPacket()
		if err != nil {
			return nil, err
		}
		packets = append(packets, data)
	}
	return packets, nil
}

func (p *PacketConn) Close() error {
	return errors.WithStack(p.conn.Close())
}
