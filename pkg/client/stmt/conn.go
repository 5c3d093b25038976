// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"sort"

	pnet "github.com/dbkit/mysqlstmt/pkg/client/net"
	"github.com/dbkit/mysqlstmt/pkg/metrics"
	"github.com/dbkit/mysqlstmt/pkg/util/errors"
	gomysql "github.com/go-mysql-org/go-mysql/mysql"
	"github.com/siddontang/go/hack"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// PacketIO is the transport this driver runs on: framed command writes and
// framed packet reads over one established connection. pnet.PacketConn
// implements it; tests substitute their own.
type PacketIO interface {
	WriteCommand(cmd pnet.Command, payload []byte) error
	ReadPacket() ([]byte, error)
	ReadPackets(n int) ([][]byte, error)
}

var _ PacketIO = (*pnet.PacketConn)(nil)

const (
	// DefCacheCapacity bounds the statement cache when the config leaves it 0.
	DefCacheCapacity = 16
	// CacheDisabled turns the statement cache off.
	CacheDisabled = -1
)

// Config carries per-connection statement settings.
type Config struct {
	// CacheCapacity is the maximum number of cached prepared statements.
	// 0 means DefCacheCapacity; CacheDisabled (or any negative value)
	// disables caching, leaving every statement's close to the caller.
	CacheCapacity int
	// LongDataThreshold is the combined bytes-like value size above which
	// parameters are sent via COM_STMT_SEND_LONG_DATA instead of inline.
	// 0 means the protocol payload ceiling.
	LongDataThreshold int
}

// Conn drives the prepared-statement protocol on one connection. All
// operations are strictly sequential: the caller must not issue a new
// command while a previous response is unread, which is also why the cache
// needs no lock.
type Conn struct {
	lg                *zap.Logger
	packetIO          PacketIO
	cache             *stmtCache
	connID            uint64
	capability        pnet.Capability
	longDataThreshold int
	closed            atomic.Bool
}

// NewConn wraps an established, authenticated connection. connID is the
// server-assigned connection id and capability the negotiated flag set from
// the handshake.
func NewConn(lg *zap.Logger, packetIO PacketIO, connID uint64, capability pnet.Capability, cfg Config) *Conn {
	capacity := cfg.CacheCapacity
	if capacity == 0 {
		capacity = DefCacheCapacity
	}
	threshold := cfg.LongDataThreshold
	if threshold <= 0 {
		threshold = gomysql.MaxPayloadLen
	}
	return &Conn{
		lg:                lg.With(zap.Uint64("connID", connID)),
		packetIO:          packetIO,
		cache:             newStmtCache(capacity),
		connID:            connID,
		capability:        capability,
		longDataThreshold: threshold,
	}
}

// ConnID returns the server-assigned connection id.
func (c *Conn) ConnID() uint64 {
	return c.connID
}

// GetStatement resolves stmtLike into a statement handle: an existing handle
// is reused as is, raw text goes through the cache and is prepared on a miss.
func (c *Conn) GetStatement(stmtLike StatementLike) (*Statement, error) {
	if c.closed.Load() {
		return nil, errors.WithStack(ErrConnClosed)
	}
	namedParams, rawQuery, err := stmtLike.stmtInfo()
	if err != nil {
		return nil, err
	}
	inner := c.cache.get(rawQuery)
	if inner == nil {
		metrics.StmtCacheCounter.WithLabelValues(metrics.LblMiss).Inc()
		if inner, err = c.prepareStmt(rawQuery); err != nil {
			return nil, err
		}
	} else {
		metrics.StmtCacheCounter.WithLabelValues(metrics.LblHit).Inc()
	}
	return &Statement{inner: inner, namedParams: namedParams}, nil
}

// Prepare resolves raw query text into a statement handle.
func (c *Conn) Prepare(query string) (*Statement, error) {
	return c.GetStatement(Query(query))
}

// prepareStmt runs the prepare round trips: command, response descriptor,
// parameter and column definitions, then cache insertion. Nothing is cached
// on failure. If caching displaces an older entry, its server-side handle is
// closed before returning; a close failure surfaces from the prepare even
// though the new statement is already usable and cached.
func (c *Conn) prepareStmt(rawQuery string) (*stmtInner, error) {
	if err := c.packetIO.WriteCommand(pnet.ComStmtPrepare, hack.Slice(rawQuery)); err != nil {
		return nil, err
	}
	data, err := c.packetIO.ReadPacket()
	if err != nil {
		return nil, err
	}
	resp, err := pnet.ParseStmtPrepareResponse(data)
	if err != nil {
		return nil, err
	}
	inner := newStmtInner(resp, c.connID, rawQuery)
	// a declared count of 0 reads nothing
	if resp.NumParams > 0 {
		defs, err := c.readColumnDefs(int(resp.NumParams))
		if err != nil {
			return nil, err
		}
		inner.withParams(defs)
	}
	if resp.NumColumns > 0 {
		defs, err := c.readColumnDefs(int(resp.NumColumns))
		if err != nil {
			return nil, err
		}
		inner.withColumns(defs)
	}
	metrics.StmtPrepareCounter.Inc()
	c.lg.Debug("prepared statement", zap.Uint32("stmtID", inner.stmtID),
		zap.Uint16("numParams", inner.numParams), zap.Uint16("numColumns", inner.numColumns))

	if displaced := c.cache.put(inner); displaced != nil {
		metrics.StmtEvictionCounter.Inc()
		c.lg.Debug("closing evicted statement", zap.Uint32("stmtID", displaced.stmtID))
		if err := c.closeStmtID(displaced.stmtID); err != nil {
			// the new statement stays cached; surfacing the leaked
			// handle beats swallowing it
			return nil, err
		}
	}
	return inner, nil
}

// readColumnDefs reads num column-definition packets, plus the trailing EOF
// marker when the server still sends one. Requires num > 0.
func (c *Conn) readColumnDefs(num int) ([]*gomysql.Field, error) {
	packets, err := c.packetIO.ReadPackets(num)
	if err != nil {
		return nil, err
	}
	defs := make([]*gomysql.Field, 0, num)
	for _, packet := range packets {
		field := new(gomysql.Field)
		if err := field.Parse(packet); err != nil {
			return nil, errors.Wrapf(err, "parsing column definition")
		}
		defs = append(defs, field)
	}
	if c.capability&pnet.ClientDeprecateEOF == 0 {
		if _, err := c.packetIO.ReadPacket(); err != nil {
			return nil, err
		}
	}
	return defs, nil
}

// Execute binds params against the statement and transmits the execute
// request, preceded by any long-data commands. On success the connection is
// positioned at the start of the result stream, which the caller's
// result-set reader consumes; this driver's job ends here.
func (c *Conn) Execute(st *Statement, params Params) error {
	if c.closed.Load() {
		return errors.WithStack(ErrConnClosed)
	}
	if st.ConnID() != c.connID {
		return &WrongConnError{StmtConnID: st.ConnID(), ConnID: c.connID}
	}
	body, values, longData, err := bind(st, params, c.longDataThreshold)
	if err != nil {
		return err
	}
	if len(longData) > 0 {
		if err := c.sendLongData(st.ID(), values, longData); err != nil {
			return err
		}
	}
	if err := c.packetIO.WriteCommand(pnet.ComStmtExecute, body); err != nil {
		return err
	}
	metrics.StmtExecuteCounter.Inc()
	return nil
}

// sendLongData transmits the classified values chunk by chunk, in position
// order. All long-data commands precede the execute payload; the server
// never replies to them.
func (c *Conn) sendLongData(stmtID uint32, values []any, longData map[int]struct{}) error {
	positions := make([]int, 0, len(longData))
	for pos := range longData {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	for _, pos := range positions {
		data := longDataBytes(values[pos])
		for _, chunk := range longDataChunks(data, pnet.MaxLongDataChunk) {
			payload := pnet.MakeStmtSendLongDataRequest(stmtID, uint16(pos), chunk)
			if err := c.packetIO.WriteCommand(pnet.ComStmtSendLongData, payload); err != nil {
				return err
			}
			metrics.LongDataChunkCounter.Inc()
		}
	}
	return nil
}

// CloseStmt disposes a statement handle: the cache entry is dropped and a
// fire-and-forget close is sent. The server never replies to COM_STMT_CLOSE.
func (c *Conn) CloseStmt(st *Statement) error {
	if c.closed.Load() {
		return errors.WithStack(ErrConnClosed)
	}
	if st.ConnID() != c.connID {
		return &WrongConnError{StmtConnID: st.ConnID(), ConnID: c.connID}
	}
	c.cache.remove(st.RawQuery())
	return c.closeStmtID(st.ID())
}

func (c *Conn) closeStmtID(stmtID uint32) error {
	return c.packetIO.WriteCommand(pnet.ComStmtClose, pnet.MakeStmtCloseRequest(stmtID))
}

// Close drains the statement cache, closing every cached statement, and
// rejects further statement operations. The first close failure is reported
// after the drain completes.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	var firstErr error
	for _, inner := range c.cache.takeAll() {
		if err := c.closeStmtID(inner.stmtID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
