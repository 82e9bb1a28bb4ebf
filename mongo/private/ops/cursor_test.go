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

	. "github.com/rjsvaljean/mongo-csharp-driver/mongo/private/ops"
)

func marshalRaw(t *testing.T, docs ...bson.D) []bson.Raw {
	t.Helper()

	raws := make([]bson.Raw, 0, len(docs))
	for _, doc := range docs {
		bytes, err := bson.Marshal(doc)
		require.NoError(t, err)
		raws = append(raws, bson.Raw{Kind: 0x03, Data: bytes})
	}
	return raws
}

func TestBatchCursor(t *testing.T) {
	t.Parallel()

	ns := NewNamespace("testdb", "things")
	cursor := NewBatchCursor(ns, marshalRaw(t, bson.D{{Name: "_id", Value: 1}}, bson.D{{Name: "_id", Value: 2}}))

	var doc bson.D
	require.True(t, cursor.Next(context.Background(), &doc))
	require.Equal(t, bson.D{{Name: "_id", Value: 1}}, doc)
	require.True(t, cursor.Next(context.Background(), &doc))
	require.Equal(t, bson.D{{Name: "_id", Value: 2}}, doc)
	require.False(t, cursor.Next(context.Background(), &doc))

	require.NoError(t, cursor.Err())
	require.NoError(t, cursor.Close(context.Background()))
	require.Equal(t, int64(0), cursor.ID())
	require.Equal(t, ns, cursor.Namespace())
}

func TestBatchCursor_decode_failure(t *testing.T) {
	t.Parallel()

	ns := NewNamespace("testdb", "things")
	cursor := NewBatchCursor(ns, []bson.Raw{{Kind: 0x03, Data: []byte{1, 2, 3}}})

	var doc bson.D
	require.False(t, cursor.Next(context.Background(), &doc))
	require.Error(t, cursor.Err())
}

func TestExhaustedCursor(t *testing.T) {
	t.Parallel()

	cursor := NewExhaustedCursor()

	var doc bson.D
	require.False(t, cursor.Next(context.Background(), &doc))
	require.NoError(t, cursor.Err())
	require.NoError(t, cursor.Close(context.Background()))
}
