package memory

import (
	"context"
	"errors"
	"testing"

	"go-kintai/internal/tablestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	b := New("")
	assert.Equal(t, "memory", b.ID())

	b.Seed(tablestore.Events, [][]string{{"a"}, {"1"}, {"2"}, {"3"}})
	require.NoError(t, b.AppendRows(ctx, tablestore.Events, [][]string{{"4"}}))
	require.NoError(t, b.UpdateRow(ctx, tablestore.Events, 1, []string{"one"}))
	require.NoError(t, b.DeleteRows(ctx, tablestore.Events, []int{3, 2}))

	rows, err := b.Values(ctx, tablestore.Events)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"one"}, {"4"}}, rows)

	rows[0][0] = "mutated"
	assert.Equal(t, "a", b.Rows(tablestore.Events)[0][0])
}

func TestBackend_UpdateOutOfRange(t *testing.T) {
	b := New("m")
	err := b.UpdateRow(context.Background(), tablestore.Events, 5, []string{"x"})
	assert.ErrorIs(t, err, tablestore.ErrNoMatch)
}

func TestBackend_FailWith(t *testing.T) {
	ctx := context.Background()
	b := New("m")
	boom := errors.New("boom")
	b.FailWith(func(op string, table tablestore.Table) error {
		if op == "append" {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, b.AppendRows(ctx, tablestore.Events, [][]string{{"x"}}), boom)
	_, err := b.Values(ctx, tablestore.Events)
	assert.NoError(t, err)
	assert.Equal(t, 1, b.Calls("append"))

	b.FailWith(nil)
	assert.NoError(t, b.AppendRows(ctx, tablestore.Events, [][]string{{"x"}}))
}
