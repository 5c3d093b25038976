// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package errors_test

import (
	"fmt"
	"testing"

	serr "github.com/dbkit/mysqlstmt/pkg/util/errors"
	"github.com/stretchr/testify/require"
)

func TestWithStack(t *testing.T) {
	require.NoError(t, serr.WithStack(nil))

	base := serr.New("tt")
	err := serr.WithStack(base)
	require.ErrorIs(t, err, base)
	require.Equal(t, "tt", fmt.Sprintf("%s", err))
	require.Contains(t, fmt.Sprintf("%v", err), "TestWithStack")
}

func TestWrapf(t *testing.T) {
	require.NoError(t, serr.Wrapf(nil, "no cause"))

	base := serr.New("inner")
	err := serr.Wrapf(base, "reading packet %d", 3)
	require.ErrorIs(t, err, base)
	require.Equal(t, "reading packet 3: inner", err.Error())
	require.Equal(t, base, serr.Unwrap(err))
}
