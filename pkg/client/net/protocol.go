// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package net

func ParseLengthEncodedInt(b []byte) (num uint64, isNull bool, n int) {
	switch b[0] {
	// 251: NULL
	case 0xfb:
		n = 1
		isNull = true
		return

	// 252: value of following 2
	case 0xfc:
		num = uint64(b[1]) | uint64(b[2])<<8
		n = 3
		return

	// 253: value of following 3
	case 0xfd:
		num = uint64(b[1]) | uint64(b[2])<<8 | uint64(b[3])<<16
		n = 4
		return

	// 254: value of following 8
	case 0xfe:
		num = uint64(b[1]) | uint64(b[2])<<8 | uint64(b[3])<<16 |
			uint64(b[4])<<24 | uint64(b[5])<<32 | uint64(b[6])<<40 |
			uint64(b[7])<<48 | uint64(b[8])<<56
		n = 9
		return
	}

	// 0-250: value of first byte
	num = uint64(b[0])
	n = 1
	return
}

func DumpLengthEncodedInt(buffer []byte, n uint64) []byte {
	switch {
	case n <= 250:
		return append(buffer, byte(n))

	case n <= 0xffff:
		return append(buffer, 0xfc, byte(n), byte(n>>8))

	case n <= 0xffffff:
		return append(buffer, 0xfd, byte(n), byte(n>>8), byte(n>>16))

	default:
		return append(buffer, 0xfe, byte(n), byte(n>>8), byte(n>>16), byte(n>>24),
			byte(n>>32), byte(n>>40), byte(n>>48), byte(n>>56))
	}
}

func ParseLengthEncodedBytes(b []byte) (bytes []byte, isNull bool, n int) {
	num, isNull, n := ParseLengthEncodedInt(b)
	if isNull {
		return nil, true, n
	}
	return b[n : n+int(num)], false, n + int(num)
}

func DumpLengthEncodedBytes(buffer []byte, bytes []byte) []byte {
	buffer = DumpLengthEncodedInt(buffer, uint64(len(bytes)))
	return append(buffer, bytes...)
}

func DumpUint16(buffer []byte, n uint16) []byte {
	return append(buffer, byte(n), byte(n>>8))
}

func DumpUint32(buffer []byte, n uint32) []byte {
	return append(buffer, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
}

func DumpUint64(buffer []byte, n uint64) []byte {
	return append(buffer, byte(n), byte(n>>8), byte(n>>16), byte(n>>24),
		byte(n>>32), byte(n>>40), byte(n>>48), byte(n>>56))
}
