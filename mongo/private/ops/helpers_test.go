// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ops_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/mgo.v2/bson"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/internal/conntest"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/model"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/conn"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/msg"
	. "github.com/rjsvaljean/mongo-csharp-driver/mongo/private/ops"
)

// newTestServer binds a mock server to a replica set primary. Every
// lease hands out the same mock connection so tests can queue replies
// and inspect what was sent.
func newTestServer(replies ...*msg.Reply) (*SelectedServer, *conntest.MockServer, *conntest.MockConnection) {
	connection := &conntest.MockConnection{ResponseQ: replies}
	server := &conntest.MockServer{
		Kind: model.RSPrimary,
		Factory: func() conn.Connection {
			return connection
		},
	}

	s := &SelectedServer{
		Server:      server,
		ClusterKind: model.ReplicaSetWithPrimary,
	}

	return s, server, connection
}

// sentCommand returns the i-th command document written to the
// connection, unwrapping any $query envelope.
func sentCommand(t *testing.T, c *conntest.MockConnection, i int) bson.D {
	t.Helper()

	require.True(t, len(c.Sent) > i, "expected at least %d sent requests, have %d", i+1, len(c.Sent))
	query, ok := c.Sent[i].(*msg.Query)
	require.True(t, ok, "expected a *msg.Query but got %T", c.Sent[i])

	cmd, ok := query.Query.(bson.D)
	require.True(t, ok, "expected a bson.D command but got %T", query.Query)

	if len(cmd) > 0 && cmd[0].Name == "$query" {
		inner, ok := cmd[0].Value.(bson.D)
		require.True(t, ok)
		return inner
	}

	return cmd
}

// sentQuery returns the i-th request written to the connection.
func sentQuery(t *testing.T, c *conntest.MockConnection, i int) *msg.Query {
	t.Helper()

	require.True(t, len(c.Sent) > i)
	query, ok := c.Sent[i].(*msg.Query)
	require.True(t, ok)
	return query
}

// commandElem returns the value of the named element, failing the test
// when absent.
func commandElem(t *testing.T, cmd bson.D, name string) interface{} {
	t.Helper()

	for _, elem := range cmd {
		if elem.Name == name {
			return elem.Value
		}
	}

	t.Fatalf("expected command to contain %q: %v", name, cmd)
	return nil
}

func commandHasElem(cmd bson.D, name string) bool {
	for _, elem := range cmd {
		if elem.Name == name {
			return true
		}
	}
	return false
}

// requireLeaseBalanced asserts every acquired connection was released.
func requireLeaseBalanced(t *testing.T, server *conntest.MockServer, acquired int) {
	t.Helper()

	require.Equal(t, acquired, server.Acquired)
	require.Equal(t, acquired, server.Released)
}
