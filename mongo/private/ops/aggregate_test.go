// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ops_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/mgo.v2/bson"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/internal/msgtest"
	. "github.com/rjsvaljean/mongo-csharp-driver/mongo/private/ops"
)

// wireShape marshals a command so assertions see the document the
// server would, not the Go values that produced it.
func wireShape(t *testing.T, cmd bson.D) bson.M {
	t.Helper()

	bytes, err := bson.Marshal(cmd)
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(bytes, &m))
	return m
}

func TestAggregate_with_cursor_response(t *testing.T) {
	t.Parallel()

	s, server, connection := newTestServer(
		cursorReply("testdb.things", 15, bson.D{{Name: "_id", Value: 1}}),
	)

	ns := NewNamespace("testdb", "things")
	pipeline := []interface{}{
		bson.D{{Name: "$match", Value: bson.D{{Name: "x", Value: 1}}}},
	}

	cursor, err := Aggregate(context.Background(), s, ns, pipeline, AggregationOptions{
		UseCursor: true,
	})
	require.NoError(t, err)

	cmd := sentCommand(t, connection, 0)
	require.Equal(t, "aggregate", cmd[0].Name)
	require.Equal(t, "things", cmd[0].Value)

	shape := wireShape(t, cmd)
	cursorArg, ok := shape["cursor"].(bson.M)
	require.True(t, ok)
	require.Empty(t, cursorArg)

	var doc bson.D
	require.True(t, cursor.Next(context.Background(), &doc))
	require.Equal(t, bson.D{{Name: "_id", Value: 1}}, doc)
	require.False(t, cursor.Next(context.Background(), &doc))
	require.Equal(t, int64(15), cursor.ID())

	requireLeaseBalanced(t, server, 1)
}

func TestAggregate_cursor_batch_size(t *testing.T) {
	t.Parallel()

	s, _, connection := newTestServer(
		cursorReply("testdb.things", 0),
	)

	ns := NewNamespace("testdb", "things")
	_, err := Aggregate(context.Background(), s, ns, []interface{}{}, AggregationOptions{
		UseCursor: true,
		BatchSize: 2,
	})
	require.NoError(t, err)

	shape := wireShape(t, sentCommand(t, connection, 0))
	cursorArg, ok := shape["cursor"].(bson.M)
	require.True(t, ok)
	require.Equal(t, bson.M{"batchSize": 2}, cursorArg)
}

func TestAggregate_allow_disk_use_and_max_time(t *testing.T) {
	t.Parallel()

	s, _, connection := newTestServer(
		cursorReply("testdb.things", 0),
	)

	ns := NewNamespace("testdb", "things")
	_, err := Aggregate(context.Background(), s, ns, []interface{}{}, AggregationOptions{
		UseCursor:    true,
		AllowDiskUse: true,
	})
	require.NoError(t, err)

	cmd := sentCommand(t, connection, 0)
	require.Equal(t, true, commandElem(t, cmd, "allowDiskUsage"))
	require.False(t, commandHasElem(cmd, "maxTimeMS"))
}

func TestAggregate_with_inline_response(t *testing.T) {
	t.Parallel()

	s, server, connection := newTestServer(
		msgtest.CreateCommandReply(bson.D{
			{Name: "ok", Value: 1},
			{Name: "result", Value: []interface{}{bson.D{{Name: "_id", Value: 1}}, bson.D{{Name: "_id", Value: 2}}}},
		}),
	)

	ns := NewNamespace("testdb", "things")
	cursor, err := Aggregate(context.Background(), s, ns, []interface{}{}, AggregationOptions{})
	require.NoError(t, err)

	cmd := sentCommand(t, connection, 0)
	require.False(t, commandHasElem(cmd, "cursor"))

	var doc bson.D
	require.True(t, cursor.Next(context.Background(), &doc))
	require.Equal(t, bson.D{{Name: "_id", Value: 1}}, doc)
	require.True(t, cursor.Next(context.Background(), &doc))
	require.Equal(t, bson.D{{Name: "_id", Value: 2}}, doc)
	require.False(t, cursor.Next(context.Background(), &doc))
	require.Equal(t, int64(0), cursor.ID())

	requireLeaseBalanced(t, server, 1)
}

func TestAggregate_with_empty_inline_response(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(
		msgtest.CreateCommandReply(bson.D{
			{Name: "ok", Value: 1},
			{Name: "result", Value: []interface{}{}},
		}),
	)

	ns := NewNamespace("testdb", "things")
	cursor, err := Aggregate(context.Background(), s, ns, []interface{}{}, AggregationOptions{})
	require.NoError(t, err)

	var doc bson.D
	require.False(t, cursor.Next(context.Background(), &doc))
	require.NoError(t, cursor.Err())
}

func TestAggregate_with_output_collection(t *testing.T) {
	t.Parallel()

	s, server, connection := newTestServer(
		// the aggregate response carries neither cursor nor result
		msgtest.CreateCommandReply(bson.D{{Name: "ok", Value: 1}}),
		cursorReply("testdb.otherthings", 0, bson.D{{Name: "_id", Value: 1}}),
	)

	ns := NewNamespace("testdb", "things")
	pipeline := []interface{}{
		bson.D{{Name: "$match", Value: bson.D{{Name: "x", Value: 1}}}},
		bson.D{{Name: "$out", Value: "otherthings"}},
	}

	cursor, err := Aggregate(context.Background(), s, ns, pipeline, AggregationOptions{})
	require.NoError(t, err)

	findCmd := sentCommand(t, connection, 1)
	require.Equal(t, "find", findCmd[0].Name)
	require.Equal(t, "otherthings", findCmd[0].Value)

	var doc bson.D
	require.True(t, cursor.Next(context.Background(), &doc))
	require.Equal(t, bson.D{{Name: "_id", Value: 1}}, doc)

	requireLeaseBalanced(t, server, 2)
}

func TestAggregate_with_unrecognized_response(t *testing.T) {
	t.Parallel()

	s, server, _ := newTestServer(
		msgtest.CreateCommandReply(bson.D{{Name: "ok", Value: 1}}),
	)

	ns := NewNamespace("testdb", "things")
	_, err := Aggregate(context.Background(), s, ns, []interface{}{}, AggregationOptions{})
	require.Equal(t, ErrUnsupportedResponse, err)

	requireLeaseBalanced(t, server, 1)
}
