// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package net

import (
	"testing"

	gomysql "github.com/go-mysql-org/go-mysql/mysql"
	"github.com/pingcap/tidb/pkg/parser/mysql"
	"github.com/stretchr/testify/require"
)

func TestPacketClassification(t *testing.T) {
	okPacket := []byte{mysql.OKHeader, 0, 0, 0, 0}
	eofPacket := []byte{mysql.EOFHeader, 0, 0, 0, 0}
	errPacket := []byte{mysql.ErrHeader, 0, 0}
	rowPacket := append([]byte{mysql.EOFHeader}, make([]byte, 10)...)

	require.True(t, IsOKPacket(okPacket))
	require.False(t, IsOKPacket(eofPacket))

	require.True(t, IsEOFPacket(eofPacket))
	require.False(t, IsEOFPacket(okPacket))
	// a long packet starting with 0xfe is a row, not an EOF
	require.False(t, IsEOFPacket(rowPacket))

	require.True(t, IsErrorPacket(errPacket))
	require.False(t, IsErrorPacket(okPacket))
}

func TestParseErrorPacket(t *testing.T) {
	data := make([]byte, 0, 32)
	data = append(data, mysql.ErrHeader)
	data = DumpUint16(data, 1146)
	data = append(data, '#')
	data = append(data, "42S02"...)
	data = append(data, "table doesn't exist"...)

	err := ParseErrorPacket(data)
	var myErr *gomysql.MyError
	require.ErrorAs(t, err, &myErr)
	require.Equal(t, uint16(1146), myErr.Code)
	require.Equal(t, "42S02", myErr.State)
	require.Equal(t, "table doesn't exist", myErr.Message)
}

func TestParseOKPacket(t *testing.T) {
	data := make([]byte, 0, 16)
	data = append(data, mysql.OKHeader)
	data = DumpLengthEncodedInt(data, 3) // affected rows
	data = DumpLengthEncodedInt(data, 9) // last insert id
	data = DumpUint16(data, mysql.ServerStatusAutocommit)

	res := ParseOKPacket(data)
	require.Equal(t, uint64(3), res.AffectedRows)
	require.Equal(t, uint64(9), res.InsertId)
	require.Equal(t, mysql.ServerStatusAutocommit, res.Status)
}
