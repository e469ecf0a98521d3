package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestJSONLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf)

	log.Info(context.Background(), "hello", "user_id", 42)

	m := decodeLine(t, &buf)
	require.Equal(t, "hello", m["message"])
	require.EqualValues(t, 42, m["user_id"])
	require.Equal(t, "info", m["level"])
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf).With("module", "rest")

	log.Error(context.Background(), "boom")

	m := decodeLine(t, &buf)
	require.Equal(t, "rest", m["module"])
	require.Equal(t, "error", m["level"])
}

func TestJSONLogger_OddArgs(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf)

	log.Warn(context.Background(), "odd", "dangling")

	m := decodeLine(t, &buf)
	require.Equal(t, "dangling", m["extra"])
}
