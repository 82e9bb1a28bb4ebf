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

	"github.com/stretchr/testify/require"
	"gopkg.in/mgo.v2/bson"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/event"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/internal/conntest"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/internal/msgtest"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/model"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/conn"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/msg"
	. "github.com/rjsvaljean/mongo-csharp-driver/mongo/private/ops"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/readpref"
)

func TestRun(t *testing.T) {
	t.Parallel()

	s, server, connection := newTestServer(
		msgtest.CreateCommandReply(bson.D{{Name: "ok", Value: 1}, {Name: "ismaster", Value: true}}),
	)

	var result bson.M
	err := Run(context.Background(), s, "admin", bson.D{{Name: "ismaster", Value: 1}}, &result)
	require.NoError(t, err)
	require.Equal(t, true, result["ismaster"])

	query := sentQuery(t, connection, 0)
	require.Equal(t, "admin.$cmd", query.FullCollectionName)

	requireLeaseBalanced(t, server, 1)
}

func TestRun_sets_secondary_ok_for_eligible_commands(t *testing.T) {
	t.Parallel()

	s, _, connection := newTestServer(
		msgtest.CreateCommandReply(bson.D{{Name: "ok", Value: 1}, {Name: "n", Value: 0}}),
	)
	s.ReadPref = readpref.Secondary()

	var result bson.D
	err := Run(context.Background(), s, "testdb", bson.D{{Name: "count", Value: "things"}}, &result)
	require.NoError(t, err)

	query := sentQuery(t, connection, 0)
	require.Equal(t, msg.SlaveOK, query.Flags&msg.SlaveOK)
}

func TestRun_downgrades_primary_only_commands(t *testing.T) {
	t.Parallel()

	s, _, connection := newTestServer(
		msgtest.CreateCommandReply(bson.D{{Name: "ok", Value: 1}}),
	)
	s.ReadPref = readpref.Secondary()

	var result bson.D
	err := Run(context.Background(), s, "testdb", bson.D{{Name: "findAndModify", Value: "things"}}, &result)
	require.NoError(t, err)

	query := sentQuery(t, connection, 0)
	require.Equal(t, msg.QueryFlags(0), query.Flags&msg.SlaveOK)
}

func TestRun_direct_connection_to_a_lone_server(t *testing.T) {
	t.Parallel()

	// a lone member may be a secondary, so the flag is always set
	s, _, connection := newTestServer(
		msgtest.CreateCommandReply(bson.D{{Name: "ok", Value: 1}}),
	)
	s.ClusterKind = model.Single

	var result bson.D
	err := Run(context.Background(), s, "testdb", bson.D{{Name: "insert", Value: "things"}}, &result)
	require.NoError(t, err)

	query := sentQuery(t, connection, 0)
	require.Equal(t, msg.SlaveOK, query.Flags&msg.SlaveOK)
}

func TestRun_adds_read_preference_meta_for_mongos(t *testing.T) {
	t.Parallel()

	connection := &conntest.MockConnection{
		ResponseQ: []*msg.Reply{msgtest.CreateCommandReply(bson.D{{Name: "ok", Value: 1}})},
	}
	server := &conntest.MockServer{
		Kind:    model.Mongos,
		Factory: func() conn.Connection { return connection },
	}
	s := &SelectedServer{
		Server:      server,
		ClusterKind: model.Sharded,
		ReadPref:    readpref.Secondary(),
	}

	var result bson.D
	err := Run(context.Background(), s, "testdb", bson.D{{Name: "count", Value: "things"}}, &result)
	require.NoError(t, err)

	query := sentQuery(t, connection, 0)
	wrapped, ok := query.Query.(bson.D)
	require.True(t, ok)
	require.Equal(t, "$query", wrapped[0].Name)

	foundMeta := false
	for _, elem := range wrapped[1:] {
		if elem.Name == "$readPreference" {
			foundMeta = true
		}
	}
	require.True(t, foundMeta)
}

func TestRun_notifies_the_monitor(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(
		msgtest.CreateCommandReply(bson.D{{Name: "ok", Value: 1}, {Name: "n", Value: 5}}),
	)

	var started *event.CommandStartedEvent
	var succeeded *event.CommandSucceededEvent
	var failed *event.CommandFailedEvent
	s.Monitor = &event.CommandMonitor{
		Started:   func(_ context.Context, e *event.CommandStartedEvent) { started = e },
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) { succeeded = e },
		Failed:    func(_ context.Context, e *event.CommandFailedEvent) { failed = e },
	}

	var result bson.D
	err := Run(context.Background(), s, "testdb", bson.D{{Name: "count", Value: "things"}}, &result)
	require.NoError(t, err)

	require.NotNil(t, started)
	require.Equal(t, "count", started.CommandName)
	require.Equal(t, "testdb", started.DatabaseName)

	require.NotNil(t, succeeded)
	require.Equal(t, "count", succeeded.CommandName)
	require.Equal(t, started.RequestID, succeeded.RequestID)

	require.Nil(t, failed)
}

func TestRun_notifies_the_monitor_of_failures(t *testing.T) {
	t.Parallel()

	s, server, connection := newTestServer()
	connection.WriteErr = fmt.Errorf("broken pipe")

	var succeeded *event.CommandSucceededEvent
	var failed *event.CommandFailedEvent
	s.Monitor = &event.CommandMonitor{
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) { succeeded = e },
		Failed:    func(_ context.Context, e *event.CommandFailedEvent) { failed = e },
	}

	var result bson.D
	err := Run(context.Background(), s, "testdb", bson.D{{Name: "count", Value: "things"}}, &result)
	require.Error(t, err)

	require.Nil(t, succeeded)
	require.NotNil(t, failed)
	require.Contains(t, failed.Failure, "broken pipe")

	requireLeaseBalanced(t, server, 1)
}

func TestRun_connection_failure_releases_nothing(t *testing.T) {
	t.Parallel()

	server := &conntest.MockServer{ConnErr: fmt.Errorf("no connections available")}
	s := &SelectedServer{
		Server:      server,
		ClusterKind: model.ReplicaSetWithPrimary,
	}

	var result bson.D
	err := Run(context.Background(), s, "testdb", bson.D{{Name: "count", Value: "things"}}, &result)
	require.Error(t, err)

	requireLeaseBalanced(t, server, 0)
}
