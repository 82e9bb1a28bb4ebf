// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ops_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/mgo.v2/bson"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/internal/msgtest"
	. "github.com/rjsvaljean/mongo-csharp-driver/mongo/private/ops"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/writeconcern"
)

func TestInsert_command_shape(t *testing.T) {
	t.Parallel()

	s, server, connection := newTestServer(
		msgtest.CreateCommandReply(bson.D{{Name: "ok", Value: 1}, {Name: "n", Value: 2}}),
	)

	ns := NewNamespace("testdb", "things")
	docs := []interface{}{
		bson.D{{Name: "_id", Value: 1}},
		bson.D{{Name: "_id", Value: 2}},
	}

	var result bson.D
	err := Insert(context.Background(), s, ns, writeconcern.Default(), docs, &result)
	require.NoError(t, err)

	cmd := sentCommand(t, connection, 0)
	require.Equal(t, "insert", cmd[0].Name)
	require.Equal(t, "things", cmd[0].Value)
	if diff := cmp.Diff(docs, commandElem(t, cmd, "documents")); diff != "" {
		t.Fatalf("unexpected documents (-want +got):\n%s", diff)
	}
	require.True(t, commandHasElem(cmd, "writeConcern"))

	requireLeaseBalanced(t, server, 1)
}

func TestInsert_omits_write_concern_when_nil(t *testing.T) {
	t.Parallel()

	s, _, connection := newTestServer(
		msgtest.CreateCommandReply(bson.D{{Name: "ok", Value: 1}, {Name: "n", Value: 1}}),
	)

	ns := NewNamespace("testdb", "things")

	var result bson.D
	err := Insert(context.Background(), s, ns, nil, []interface{}{bson.D{{Name: "x", Value: 1}}}, &result)
	require.NoError(t, err)

	cmd := sentCommand(t, connection, 0)
	require.False(t, commandHasElem(cmd, "writeConcern"))
}

func TestInsert_invalid_namespace(t *testing.T) {
	t.Parallel()

	s, server, _ := newTestServer()

	err := Insert(context.Background(), s, NewNamespace("", "things"), nil, nil, nil)
	require.Error(t, err)
	requireLeaseBalanced(t, server, 0)
}

func TestInsert_releases_the_lease_on_failure(t *testing.T) {
	t.Parallel()

	s, server, connection := newTestServer()
	connection.WriteErr = fmt.Errorf("write failed")

	ns := NewNamespace("testdb", "things")

	var result bson.D
	err := Insert(context.Background(), s, ns, nil, []interface{}{bson.D{{Name: "x", Value: 1}}}, &result)
	require.Error(t, err)

	requireLeaseBalanced(t, server, 1)
}
