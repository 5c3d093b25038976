// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"testing"

	pnet "github.com/dbkit/mysqlstmt/pkg/client/net"
	"github.com/dbkit/mysqlstmt/pkg/util/errors"
	"github.com/dbkit/mysqlstmt/pkg/util/logger"
	"github.com/pingcap/tidb/pkg/parser/mysql"
)

const testConnID = 42

type sentCommand struct {
	payload []byte
	cmd     pnet.Command
}

// mockPacketIO scripts the server side: written commands are recorded and
// reads are served from a response queue.
type mockPacketIO struct {
	written   []sentCommand
	responses [][]byte
	failCmd   pnet.Command
	failErr   error
}

func (m *mockPacketIO) WriteCommand(cmd pnet.Command, payload []byte) error {
	if m.failErr != nil && cmd == m.failCmd {
		return m.failErr
	}
	m.written = append(m.written, sentCommand{cmd: cmd, payload: append([]byte(nil), payload...)})
	return nil
}

func (m *mockPacketIO) ReadPacket() ([]byte, error) {
	if len(m.responses) == 0 {
		return nil, errors.New("mock: no queued response packet")
	}
	data := m.responses[0]
	m.responses = m.responses[1:]
	return data, nil
}

func (m *mockPacketIO) ReadPackets(n int) ([][]byte, error) {
	packets := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		data, err := m.ReadPacket()
		if err != nil {
			return nil, err
		}
		packets = append(packets, data)
	}
	return packets, nil
}

func (m *mockPacketIO) queue(packets ...[]byte) {
	m.responses = append(m.responses, packets...)
}

// queuePrepare scripts a full COM_STMT_PREPARE response.
func (m *mockPacketIO) queuePrepare(stmtID uint32, numParams, numColumns uint16, deprecateEOF bool) {
	m.queue(prepareRespPacket(stmtID, numColumns, numParams))
	for i := uint16(0); i < numParams; i++ {
		m.queue(columnDefPacket("?", mysql.TypeVarString))
	}
	if numParams > 0 && !deprecateEOF {
		m.queue(eofPacket())
	}
	for i := uint16(0); i < numColumns; i++ {
		m.queue(columnDefPacket("c", mysql.TypeLong))
	}
	if numColumns > 0 && !deprecateEOF {
		m.queue(eofPacket())
	}
}

func (m *mockPacketIO) commandsOf(cmd pnet.Command) []sentCommand {
	var cmds []sentCommand
	for _, c := range m.written {
		if c.cmd == cmd {
			cmds = append(cmds, c)
		}
	}
	return cmds
}

func prepareRespPacket(stmtID uint32, numColumns, numParams uint16) []byte {
	data := make([]byte, 0, 12)
	data = append(data, mysql.OKHeader)
	data = pnet.DumpUint32(data, stmtID)
	data = pnet.DumpUint16(data, numColumns)
	data = pnet.DumpUint16(data, numParams)
	data = append(data, 0) // filler
	data = pnet.DumpUint16(data, 0)
	return data
}

func columnDefPacket(name string, typ byte) []byte {
	data := make([]byte, 0, 64)
	for _, s := range []string{"def", "test", "t", "t", name, name} {
		data = pnet.DumpLengthEncodedBytes(data, []byte(s))
	}
	data = append(data, 0x0c)
	data = pnet.DumpUint16(data, 63) // binary charset
	data = pnet.DumpUint32(data, 0)  // column length
	data = append(data, typ)
	data = pnet.DumpUint16(data, 0) // flags
	data = append(data, 0)          // decimals
	data = append(data, 0, 0)       // filler
	return data
}

func eofPacket() []byte {
	return []byte{mysql.EOFHeader, 0, 0, 0, 0}
}

func errPacket(code uint16, state, message string) []byte {
	data := make([]byte, 0, 16+len(message))
	data = append(data, mysql.ErrHeader)
	data = pnet.DumpUint16(data, code)
	data = append(data, '#')
	data = append(data, state...)
	data = append(data, message...)
	return data
}

func newTestConn(t *testing.T, cfg Config, capability pnet.Capability) (*Conn, *mockPacketIO) {
	m := &mockPacketIO{}
	return NewConn(logger.CreateLoggerForTest(t), m, testConnID, capability, cfg), m
}
