// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package namedparams rewrites `:name` placeholders in query text into the
// positional `?` placeholders the binary protocol understands, capturing the
// names in placeholder order for later value lookup.
package namedparams

import (
	"strings"

	"github.com/dbkit/mysqlstmt/pkg/util/errors"
)

// ErrMixedPlaceholders is returned when a query mixes `?` and `:name`
// placeholders. A query is either all-positional or all-named.
var ErrMixedPlaceholders = errors.New("mixing positional and named placeholders in one query")

// Parse scans query for `:name` placeholders outside of string literals and
// comments. It returns the names in placeholder order (repeated placeholders
// repeat their name) and the query with every placeholder rewritten to `?`.
// names is nil iff the query has no named placeholders; the rewritten text
// then equals the input.
func Parse(query string) (names []string, rewritten string, err error) {
	var sb strings.Builder
	positional := false
	i, n := 0, len(query)
	for i < n {
		c := query[i]
		switch c {
		case '\'', '"', '`':
			start := i
			i = skipQuoted(query, i)
			sb.WriteString(query[start:i])
		case '#':
			start := i
			i = skipToLineEnd(query, i)
			sb.WriteString(query[start:i])
		case '-':
			if i+1 < n && query[i+1] == '-' {
				start := i
				i = skipToLineEnd(query, i)
				sb.WriteString(query[start:i])
			} else {
				sb.WriteByte(c)
				i++
			}
		case '/':
			if i+1 < n && query[i+1] == '*' {
				start := i
				i = skipBlockComment(query, i)
				sb.WriteString(query[start:i])
			} else {
				sb.WriteByte(c)
				i++
			}
		case '?':
			positional = true
			sb.WriteByte(c)
			i++
		case ':':
			if i+1 < n && query[i+1] == ':' {
				// `::` is cast syntax, not a placeholder
				sb.WriteString("::")
				i += 2
			} else if i+1 < n && isIdentChar(query[i+1]) {
				end := i + 1
				for end < n && isIdentChar(query[end]) {
					end++
				}
				names = append(names, query[i+1:end])
				sb.WriteByte('?')
				i = end
			} else {
				sb.WriteByte(c)
				i++
			}
		default:
			sb.WriteByte(c)
			i++
		}
	}
	if names == nil {
		return nil, query, nil
	}
	if positional {
		return nil, "", errors.WithStack(ErrMixedPlaceholders)
	}
	return names, sb.String(), nil
}

// skipQuoted returns the offset just past a quoted run starting at i.
// Backslash escapes and doubled quotes stay inside the run.
func skipQuoted(query string, i int) int {
	quote := query[i]
	n := len(query)
	for i++; i < n; i++ {
		switch query[i] {
		case '\\':
			if quote != '`' && i+1 < n {
				i++
			}
		case quote:
			if i+1 < n && query[i+1] == quote {
				i++
				continue
			}
			return i + 1
		}
	}
	return n
}

func skipToLineEnd(query string, i int) int {
	if off := strings.IndexByte(query[i:], '\n'); off >= 0 {
		return i + off
	}
	return len(query)
}

func skipBlockComment(query string, i int) int {
	if off := strings.Index(query[i+2:], "*/"); off >= 0 {
		return i + 2 + off + 2
	}
	return len(query)
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
