// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package net

import (
	"encoding/binary"

	gomysql "github.com/go-mysql-org/go-mysql/mysql"
	"github.com/pingcap/tidb/pkg/parser/mysql"
	"github.com/siddontang/go/hack"
)

// ParseOKPacket transforms an OK packet into a Result object.
func ParseOKPacket(data []byte) *gomysql.Result {
	var n int
	var pos = 1
	r := new(gomysql.Result)
	r.AffectedRows, _, n = ParseLengthEncodedInt(data[pos:])
	pos += n
	r.InsertId, _, n = ParseLengthEncodedInt(data[pos:])
	pos += n
	r.Status = binary.LittleEndian.Uint16(data[pos:])
	return r
}

// ParseErrorPacket transforms an error packet into a MyError object.
func ParseErrorPacket(data []byte) error {
	e := new(gomysql.MyError)
	pos := 1
	e.Code = binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	pos++
	e.State = hack.String(data[pos : pos+5])
	pos += 5
	e.Message = hack.String(data[pos:])
	return e
}

// IsOKPacket returns true if it's an OK packet (but not ResultSet OK).
func IsOKPacket(data []byte) bool {
	return data[0] == mysql.OKHeader
}

// IsEOFPacket returns true if it's an EOF packet.
func IsEOFPacket(data []byte) bool {
	return data[0] == mysql.EOFHeader && len(data) <= 5
}

// IsErrorPacket returns true if it's an error packet.
func IsErrorPacket(data []byte) bool {
	return data[0] == mysql.ErrHeader
}
