package query_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INLOpen/scapegoat"
	"github.com/INLOpen/scapegoat/internal/query"
)

func sampleTree() *scapegoat.Tree {
	tree := scapegoat.New()
	tree.Insert("alice", 1, 100)
	tree.Insert("bob", 2, 200)
	tree.Insert("alice", 3, 150)

	return tree
}

func TestRun_TextFormat(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	stats, err := query.Run(context.Background(), strings.NewReader("alice\n  carol  \n\nbob\n"), &out, sampleTree(), query.TextFormatter{})
	require.NoError(t, err)

	want := "alice was banned from 2 servers. most recently on 150\n" +
		"carol is not currently banned from any servers.\n" +
		"bob was banned from 1 servers. most recently on 200\n"
	assert.Equal(t, want, out.String())
	assert.Equal(t, query.Stats{Queries: 3, Hits: 2, Misses: 1}, stats)
}

func TestRun_TableFormat(t *testing.T) {
	t.Parallel()

	formatter, err := query.NewFormatter(query.FormatTable)
	require.NoError(t, err)

	var out bytes.Buffer

	stats, err := query.Run(context.Background(), strings.NewReader("bob\nmallory\n"), &out, sampleTree(), formatter)
	require.NoError(t, err)

	rendered := out.String()
	assert.Contains(t, rendered, "USER")
	assert.Contains(t, rendered, "bob")
	assert.Contains(t, rendered, "mallory")
	assert.Contains(t, rendered, "200")
	assert.Equal(t, 1, stats.Misses)
}

func TestNewFormatter(t *testing.T) {
	t.Parallel()

	f, err := query.NewFormatter("")
	require.NoError(t, err)
	assert.True(t, f.Streaming())

	_, err = query.NewFormatter("xml")
	require.ErrorIs(t, err, query.ErrUnknownFormat)
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer

	_, err := query.Run(ctx, strings.NewReader("alice\n"), &out, sampleTree(), query.TextFormatter{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}
