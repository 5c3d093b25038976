// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package stmt implements the client side of the prepared-statement
// protocol: preparing, caching, binding and closing server-side statements.
// Result-set decoding after an execute is the caller's business.
package stmt

import (
	"github.com/dbkit/mysqlstmt/pkg/client/namedparams"
	pnet "github.com/dbkit/mysqlstmt/pkg/client/net"
	gomysql "github.com/go-mysql-org/go-mysql/mysql"
)

// stmtInner describes one server-side prepared statement. It is shared by
// the cache and any number of handles and must not change after the two
// one-time descriptor fills below.
type stmtInner struct {
	rawQuery   string
	params     []*gomysql.Field
	columns    []*gomysql.Field
	stmtID     uint32
	connID     uint64
	numParams  uint16
	numColumns uint16
}

func newStmtInner(resp *pnet.StmtPrepareResp, connID uint64, rawQuery string) *stmtInner {
	return &stmtInner{
		rawQuery:   rawQuery,
		stmtID:     resp.StmtID,
		connID:     connID,
		numParams:  resp.NumParams,
		numColumns: resp.NumColumns,
	}
}

// withParams attaches the parameter descriptors read after the prepare
// response. An empty list normalizes to nil.
func (s *stmtInner) withParams(params []*gomysql.Field) {
	if len(params) == 0 {
		params = nil
	}
	s.params = params
}

func (s *stmtInner) withColumns(columns []*gomysql.Field) {
	if len(columns) == 0 {
		columns = nil
	}
	s.columns = columns
}

// Statement is a shareable handle for one prepared statement. Multiple
// handles may point at the same server-side statement; the named-parameter
// list belongs to the handle, not to the server-side identity.
type Statement struct {
	inner       *stmtInner
	namedParams []string
}

// ID returns the server-assigned statement id, unique within the owning
// connection's lifetime.
func (s *Statement) ID() uint32 {
	return s.inner.stmtID
}

// ConnID returns the id of the connection this statement was prepared on.
// The handle is only valid on that connection.
func (s *Statement) ConnID() uint64 {
	return s.inner.connID
}

func (s *Statement) NumParams() uint16 {
	return s.inner.numParams
}

func (s *Statement) NumColumns() uint16 {
	return s.inner.numColumns
}

// Params returns the parameter descriptors, nil when the statement takes no
// parameters.
func (s *Statement) Params() []*gomysql.Field {
	return s.inner.params
}

// Columns returns the result column descriptors, nil when the statement
// returns no rows.
func (s *Statement) Columns() []*gomysql.Field {
	return s.inner.columns
}

// RawQuery returns the query text with positional placeholders, as sent to
// the server at prepare time.
func (s *Statement) RawQuery() string {
	return s.inner.rawQuery
}

func (s *Statement) stmtInfo() (names []string, rawQuery string, err error) {
	return s.namedParams, s.inner.rawQuery, nil
}

// StatementLike is either raw query text (Query) or an already prepared
// *Statement.
type StatementLike interface {
	// stmtInfo returns the named-parameter list (nil for positional
	// queries) and the canonical query text with positional placeholders.
	stmtInfo() (names []string, rawQuery string, err error)
}

// Query is raw query text, possibly with `:name` placeholders.
type Query string

func (q Query) stmtInfo() (names []string, rawQuery string, err error) {
	return namedparams.Parse(string(q))
}

var (
	_ StatementLike = Query("")
	_ StatementLike = (*Statement)(nil)
)
