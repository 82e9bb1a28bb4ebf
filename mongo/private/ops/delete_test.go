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

func TestDelete_command_shape(t *testing.T) {
	t.Parallel()

	s, server, connection := newTestServer(
		msgtest.CreateCommandReply(bson.D{{Name: "ok", Value: 1}, {Name: "n", Value: 1}}),
	)

	ns := NewNamespace("testdb", "things")
	deleteDocs := []bson.D{{
		{Name: "q", Value: bson.D{{Name: "x", Value: 1}}},
		{Name: "limit", Value: 1},
	}}

	var result bson.D
	err := Delete(context.Background(), s, ns, nil, deleteDocs, &result)
	require.NoError(t, err)

	cmd := sentCommand(t, connection, 0)
	require.Equal(t, "delete", cmd[0].Name)
	require.Equal(t, "things", cmd[0].Value)
	require.Equal(t, deleteDocs, commandElem(t, cmd, "deletes"))

	requireLeaseBalanced(t, server, 1)
}
