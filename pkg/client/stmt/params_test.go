// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNamedIntoPositional(t *testing.T) {
	params := NamedParams(map[string]any{
		"id":   int64(7),
		"name": "a",
	})
	// declared order wins, repeated names rebind the same value
	positional, err := params.intoPositional([]string{"name", "id", "name"})
	require.NoError(t, err)
	require.Equal(t, paramsPositional, positional.kind)
	require.Equal(t, []any{"a", int64(7), "a"}, positional.values)
}

func TestNamedIntoPositionalMissing(t *testing.T) {
	params := NamedParams(map[string]any{"id": int64(7)})
	_, err := params.intoPositional([]string{"id", "name"})
	var missing *MissingNamedParamError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "name", missing.Name)
}

func TestBinderLongDataClassification(t *testing.T) {
	// below or at the threshold everything stays inline
	require.Nil(t, classifyLongData([]any{[]byte("abcd"), "ef", int64(1)}, 6))
	// past it, every bytes-like position is classified, including empty ones
	positions := classifyLongData([]any{[]byte("abcd"), int64(1), "", "efg"}, 6)
	require.Equal(t, map[int]struct{}{0: {}, 2: {}, 3: {}}, positions)
	// no bytes-like values, nothing to classify
	require.Nil(t, classifyLongData([]any{int64(1), nil}, 0))
}

func TestBinderLongDataChunks(t *testing.T) {
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}
	chunks := longDataChunks(data, 8)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 8)
	require.Len(t, chunks[1], 8)
	require.Len(t, chunks[2], 4)
	var joined []byte
	for _, chunk := range chunks {
		joined = append(joined, chunk...)
	}
	require.Equal(t, data, joined)

	// an exact multiple produces no trailing empty chunk
	require.Len(t, longDataChunks(data[:16], 8), 2)
	// an empty value still produces one chunk
	require.Equal(t, [][]byte{{}}, longDataChunks([]byte{}, 8))
}
