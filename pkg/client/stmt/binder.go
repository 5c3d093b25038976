// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	pnet "github.com/dbkit/mysqlstmt/pkg/client/net"
	"github.com/siddontang/go/hack"
)

// bind validates the parameter set against the statement and produces the
// execute payload, the bound positional values, and the positions to
// transmit as long data first. All failures happen here, before any bytes
// hit the wire.
func bind(st *Statement, params Params, longDataThreshold int) (body []byte, values []any, longData map[int]struct{}, err error) {
	if params.kind == paramsNamed {
		if st.namedParams == nil {
			return nil, nil, nil, ErrNamedParamsForPositionalQuery
		}
		if params, err = params.intoPositional(st.namedParams); err != nil {
			return nil, nil, nil, err
		}
	}
	// paramsEmpty binds like a zero-length positional set
	required, supplied := st.NumParams(), uint16(len(params.values))
	if required != supplied {
		return nil, nil, nil, &ParamsMismatchError{Required: required, Supplied: supplied}
	}
	longData = classifyLongData(params.values, longDataThreshold)
	body, err = pnet.MakeStmtExecuteRequest(st.ID(), params.values, longData)
	if err != nil {
		return nil, nil, nil, err
	}
	return body, params.values, longData, nil
}

// classifyLongData picks the positions to send via COM_STMT_SEND_LONG_DATA.
// Bytes-like values travel inline unless their combined size exceeds the
// threshold; past it, every bytes-like value of the execute goes long-data.
func classifyLongData(values []any, threshold int) map[int]struct{} {
	total := 0
	var positions map[int]struct{}
	for i, value := range values {
		switch v := value.(type) {
		case []byte:
			total += len(v)
		case string:
			total += len(v)
		default:
			continue
		}
		if positions == nil {
			positions = make(map[int]struct{})
		}
		positions[i] = struct{}{}
	}
	if total <= threshold {
		return nil
	}
	return positions
}

// longDataBytes returns the raw byte content of a long-data value.
func longDataBytes(value any) []byte {
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		return hack.Slice(v)
	}
	return nil
}

// longDataChunks splits data into consecutive chunks of at most max bytes.
// An empty value yields exactly one empty chunk, so the server still learns
// the parameter is present and empty.
func longDataChunks(data []byte, max int) [][]byte {
	if len(data) == 0 {
		return [][]byte{data}
	}
	chunks := make([][]byte, 0, (len(data)+max-1)/max)
	for len(data) > max {
		chunks = append(chunks, data[:max])
		data = data[max:]
	}
	return append(chunks, data)
}
