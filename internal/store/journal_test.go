package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendEvent_AssignsIncreasingSeq(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	var last int64
	for i := 0; i < 5; i++ {
		seq, err := s.AppendEvent(ctx, Event{Action: "write", Args: map[string]string{"name": "a"}, Outcome: "ok"})
		require.NoError(t, err)
		assert.Greater(t, seq, last)
		last = seq
	}
}

func TestAppendEvent_RequiresAction(t *testing.T) {
	_, err := createTestStore(t).AppendEvent(context.Background(), Event{})
	assert.Error(t, err)
}

func TestAppendEvent_ArgsAreCanonical(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.AppendEvent(ctx, Event{
		Action: "cause",
		Args:   map[string]string{"value": "<fall> & drown", "name": "L"},
	})
	require.NoError(t, err)

	var raw string
	require.NoError(t, s.db.QueryRow(`SELECT args FROM events`).Scan(&raw))
	assert.Equal(t, `{"name":"L","value":"<fall> & drown"}`, raw)
}

func TestReadEvents(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	input := []Event{
		{Action: "write", Args: map[string]string{"name": "a"}, Outcome: "ok", AtMillis: 1},
		{Action: "cause", Args: map[string]string{"value": "x"}, Outcome: "accepted", AtMillis: 2},
		{Action: "write", Args: map[string]string{"name": "b"}, Outcome: "ok", AtMillis: 3},
		{Action: "details", Outcome: "invalid_state", AtMillis: 4},
	}
	for _, ev := range input {
		_, err := s.AppendEvent(ctx, ev)
		require.NoError(t, err)
	}

	all, err := s.ReadEvents(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, ev := range all {
		assert.Equal(t, int64(i+1), ev.Seq)
		assert.Equal(t, input[i].Action, ev.Action)
		assert.Equal(t, input[i].Outcome, ev.Outcome)
		assert.Equal(t, input[i].AtMillis, ev.AtMillis)
	}
	assert.Equal(t, map[string]string{}, all[3].Args)

	writes, err := s.ReadEvents(ctx, "write")
	require.NoError(t, err)
	require.Len(t, writes, 2)
	assert.Equal(t, "a", writes[0].Args["name"])
	assert.Equal(t, "b", writes[1].Args["name"])

	n, err := s.CountEvents(ctx, "write")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.CountEvents(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestReadEvents_Empty(t *testing.T) {
	events, err := createTestStore(t).ReadEvents(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}
