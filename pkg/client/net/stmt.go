// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package net

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/dbkit/mysqlstmt/pkg/util/errors"
	gomysql "github.com/go-mysql-org/go-mysql/mysql"
	"github.com/pingcap/tidb/pkg/parser/mysql"
	"github.com/siddontang/go/hack"
)

// MaxLongDataChunk is the largest chunk COM_STMT_SEND_LONG_DATA can carry:
// the frame ceiling minus the command byte, statement id and parameter id.
const MaxLongDataChunk = gomysql.MaxPayloadLen - 6

// In the type block of COM_STMT_EXECUTE, the second byte of each type code
// marks the value as unsigned.
const unsignedFlag byte = 0x80

// StmtPrepareResp is the first packet of a COM_STMT_PREPARE response.
type StmtPrepareResp struct {
	StmtID     uint32
	NumColumns uint16
	NumParams  uint16
	Warnings   uint16
}

// ParseStmtPrepareResponse parses the first response packet of COM_STMT_PREPARE.
// A server error packet is returned as a MyError.
func ParseStmtPrepareResponse(data []byte) (*StmtPrepareResp, error) {
	if len(data) == 0 {
		return nil, errors.New("empty prepare response")
	}
	switch data[0] {
	case mysql.OKHeader:
	case mysql.ErrHeader:
		return nil, ParseErrorPacket(data)
	default:
		return nil, errors.Errorf("unexpected prepare response header %#x", data[0])
	}
	if len(data) < 12 {
		return nil, errors.Errorf("prepare response too short: %d bytes", len(data))
	}
	return &StmtPrepareResp{
		StmtID:     binary.LittleEndian.Uint32(data[1:]),
		NumColumns: binary.LittleEndian.Uint16(data[5:]),
		NumParams:  binary.LittleEndian.Uint16(data[7:]),
		// data[9] is a filler
		Warnings: binary.LittleEndian.Uint16(data[10:]),
	}, nil
}

// MakeStmtExecuteRequest builds the payload of COM_STMT_EXECUTE after the
// command byte: statement id, flags, iteration count, null bitmap,
// new-params-bound flag, type block and value block. Values whose indexes
// appear in longData have already been transmitted via
// COM_STMT_SEND_LONG_DATA and are encoded with their type only, so the
// server associates the accumulated chunks with the right position.
func MakeStmtExecuteRequest(stmtID uint32, values []any, longData map[int]struct{}) ([]byte, error) {
	data := make([]byte, 0, 32+16*len(values))
	data = DumpUint32(data, stmtID)
	// flags: CURSOR_TYPE_NO_CURSOR
	data = append(data, 0)
	// iteration count, always 1
	data = DumpUint32(data, 1)
	if len(values) == 0 {
		return data, nil
	}

	nullBitmap := make([]byte, (len(values)+7)/8)
	types := make([]byte, 0, 2*len(values))
	vals := make([]byte, 0, 16*len(values))
	for i, value := range values {
		_, asLongData := longData[i]
		switch v := value.(type) {
		case nil:
			nullBitmap[i/8] |= 1 << (uint(i) % 8)
			types = append(types, mysql.TypeNull, 0)
		case int:
			types = append(types, mysql.TypeLonglong, 0)
			vals = DumpUint64(vals, uint64(v))
		case int8:
			types = append(types, mysql.TypeLonglong, 0)
			vals = DumpUint64(vals, uint64(v))
		case int16:
			types = append(types, mysql.TypeLonglong, 0)
			vals = DumpUint64(vals, uint64(v))
		case int32:
			types = append(types, mysql.TypeLonglong, 0)
			vals = DumpUint64(vals, uint64(v))
		case int64:
			types = append(types, mysql.TypeLonglong, 0)
			vals = DumpUint64(vals, uint64(v))
		case uint:
			types = append(types, mysql.TypeLonglong, unsignedFlag)
			vals = DumpUint64(vals, uint64(v))
		case uint8:
			types = append(types, mysql.TypeLonglong, unsignedFlag)
			vals = DumpUint64(vals, uint64(v))
		case uint16:
			types = append(types, mysql.TypeLonglong, unsignedFlag)
			vals = DumpUint64(vals, uint64(v))
		case uint32:
			types = append(types, mysql.TypeLonglong, unsignedFlag)
			vals = DumpUint64(vals, uint64(v))
		case uint64:
			types = append(types, mysql.TypeLonglong, unsignedFlag)
			vals = DumpUint64(vals, v)
		case bool:
			types = append(types, mysql.TypeTiny, 0)
			if v {
				vals = append(vals, 1)
			} else {
				vals = append(vals, 0)
			}
		case float32:
			types = append(types, mysql.TypeFloat, 0)
			vals = DumpUint32(vals, math.Float32bits(v))
		case float64:
			types = append(types, mysql.TypeDouble, 0)
			vals = DumpUint64(vals, math.Float64bits(v))
		case string:
			types = append(types, mysql.TypeVarString, 0)
			if !asLongData {
				vals = DumpLengthEncodedBytes(vals, hack.Slice(v))
			}
		case []byte:
			types = append(types, mysql.TypeBlob, 0)
			if !asLongData {
				vals = DumpLengthEncodedBytes(vals, v)
			}
		case time.Time:
			types = append(types, mysql.TypeDatetime, 0)
			vals = dumpBinaryDatetime(vals, v)
		default:
			return nil, errors.Errorf("unsupported parameter type %T at position %d", value, i)
		}
	}
	data = append(data, nullBitmap...)
	// new-params-bound flag
	data = append(data, 1)
	data = append(data, types...)
	data = append(data, vals...)
	return data, nil
}

// MakeStmtSendLongDataRequest builds the payload of COM_STMT_SEND_LONG_DATA
// after the command byte. paramID is the zero-based parameter position.
func MakeStmtSendLongDataRequest(stmtID uint32, paramID uint16, chunk []byte) []byte {
	data := make([]byte, 0, 6+len(chunk))
	data = DumpUint32(data, stmtID)
	data = DumpUint16(data, paramID)
	return append(data, chunk...)
}

// MakeStmtCloseRequest builds the payload of COM_STMT_CLOSE after the command byte.
func MakeStmtCloseRequest(stmtID uint32) []byte {
	return DumpUint32(make([]byte, 0, 4), stmtID)
}

// dumpBinaryDatetime encodes a timestamp in the 0/4/7/11-byte binary forms.
func dumpBinaryDatetime(b []byte, t time.Time) []byte {
	if t.IsZero() {
		return append(b, 0)
	}
	micro := t.Nanosecond() / int(time.Microsecond)
	hour, minute, sec := t.Clock()
	length := byte(4)
	switch {
	case micro > 0:
		length = 11
	case hour > 0 || minute > 0 || sec > 0:
		length = 7
	}
	b = append(b, length)
	year, month, day := t.Date()
	b = DumpUint16(b, uint16(year))
	b = append(b, byte(month), byte(day))
	if length >= 7 {
		b = append(b, byte(hour), byte(minute), byte(sec))
	}
	if length == 11 {
		b = DumpUint32(b, uint32(micro))
	}
	return b
}
