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

func TestDropIndexes(t *testing.T) {
	t.Parallel()

	s, server, connection := newTestServer(
		msgtest.CreateCommandReply(bson.D{{Name: "ok", Value: 1}, {Name: "nIndexesWas", Value: 3}}),
	)

	ns := NewNamespace("testdb", "things")
	response, err := DropIndexes(context.Background(), s, ns, "x_1")
	require.NoError(t, err)
	require.Equal(t, 3, response["nIndexesWas"])

	cmd := sentCommand(t, connection, 0)
	require.Equal(t, "deleteIndexes", cmd[0].Name)
	require.Equal(t, "things", cmd[0].Value)
	require.Equal(t, "x_1", commandElem(t, cmd, "index"))

	requireLeaseBalanced(t, server, 1)
}

func TestDropIndexes_missing_namespace_is_tolerated(t *testing.T) {
	t.Parallel()

	s, server, _ := newTestServer(
		msgtest.CreateCommandErrorReply(26, "ns not found", "NamespaceNotFound"),
	)

	ns := NewNamespace("testdb", "things")
	response, err := DropIndexes(context.Background(), s, ns, "*")
	require.NoError(t, err)
	require.Equal(t, "ns not found", response["errmsg"])

	requireLeaseBalanced(t, server, 1)
}

func TestDropIndexes_other_failures_are_errors(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(
		msgtest.CreateCommandErrorReply(27, "index not found with name [y_1]", "IndexNotFound"),
	)

	ns := NewNamespace("testdb", "things")
	_, err := DropIndexes(context.Background(), s, ns, "y_1")
	require.Error(t, err)
}
