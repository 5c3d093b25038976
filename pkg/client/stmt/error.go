// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"fmt"

	"github.com/dbkit/mysqlstmt/pkg/util/errors"
)

var (
	// ErrNamedParamsForPositionalQuery is returned when named parameters
	// are supplied for a statement prepared from positional placeholders.
	ErrNamedParamsForPositionalQuery = errors.New("statement has no named placeholders, named parameters are not supported")

	// ErrConnClosed is returned when a statement operation is attempted on
	// a closed connection.
	ErrConnClosed = errors.New("connection is closed for statement operations")
)

// ParamsMismatchError reports an execute attempt whose supplied parameter
// count differs from the statement's declared count.
type ParamsMismatchError struct {
	Required uint16
	Supplied uint16
}

func (e *ParamsMismatchError) Error() string {
	return fmt.Sprintf("statement parameter count mismatch: required %d, supplied %d", e.Required, e.Supplied)
}

// MissingNamedParamError reports a declared placeholder name absent from the
// supplied named values.
type MissingNamedParamError struct {
	Name string
}

func (e *MissingNamedParamError) Error() string {
	return fmt.Sprintf("no value supplied for named parameter %q", e.Name)
}

// WrongConnError reports a statement handle used on a connection other than
// the one that prepared it.
type WrongConnError struct {
	StmtConnID uint64
	ConnID     uint64
}

func (e *WrongConnError) Error() string {
	return fmt.Sprintf("statement belongs to connection %d, not connection %d", e.StmtConnID, e.ConnID)
}
