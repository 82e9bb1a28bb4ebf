// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ops

import (
	"context"
	"time"

	"gopkg.in/mgo.v2/bson"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/event"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/conn"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/msg"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/readpref"
)

// Run executes an arbitrary command against the given database. The
// command may be routed to a secondary when the selected server's read
// preference allows it and the command is classified as safe there.
func Run(ctx context.Context, s *SelectedServer, db string, command bson.D, result interface{}) error {
	return runMayUseSecondary(ctx, s, db, command, result)
}

func runMustUsePrimary(ctx context.Context, s *SelectedServer, db string, command bson.D, result interface{}) error {
	request := msg.NewCommand(
		msg.NextRequestID(),
		db,
		directConnectionToSecondary(s),
		command,
	)

	return withConnection(ctx, s, func(c conn.Connection) error {
		return execute(ctx, s, c, request, db, command, result)
	})
}

func runMayUseSecondary(ctx context.Context, s *SelectedServer, db string, command bson.D, result interface{}) error {
	rp := readpref.Resolve(s.ReadPref, commandName(command), command, s.ClusterKind, s.Classifier)

	request := msg.NewCommand(
		msg.NextRequestID(),
		db,
		secondaryOK(s, rp),
		command,
	)

	return withConnection(ctx, s, func(c conn.Connection) error {
		if rpMeta := readPrefMeta(rp, c.Model().Kind); rpMeta != nil {
			err := msg.AddMeta(request, map[string]interface{}{
				"$readPreference": rpMeta,
			})
			if err != nil {
				return err
			}
		}

		return execute(ctx, s, c, request, db, command, result)
	})
}

// execute transmits a single request on a leased connection and
// decodes the response. Exactly one dispatch is attempted; retry
// policy belongs to the connection provider, not here.
func execute(ctx context.Context, s *SelectedServer, c conn.Connection, request msg.Request, db string, command bson.D, result interface{}) error {
	name := commandName(command)
	started := time.Now()

	if s.Monitor != nil && s.Monitor.Started != nil {
		s.Monitor.Started(ctx, &event.CommandStartedEvent{
			Command:      command,
			DatabaseName: db,
			CommandName:  name,
			RequestID:    request.RequestID(),
			ConnectionID: c.Model().ID,
		})
	}

	err := conn.ExecuteCommand(ctx, c, request, result)

	if s.Monitor != nil {
		finished := event.CommandFinishedEvent{
			Duration:     time.Since(started),
			CommandName:  name,
			RequestID:    request.RequestID(),
			ConnectionID: c.Model().ID,
		}
		if err != nil {
			if s.Monitor.Failed != nil {
				s.Monitor.Failed(ctx, &event.CommandFailedEvent{
					CommandFinishedEvent: finished,
					Failure:              err.Error(),
				})
			}
		} else if s.Monitor.Succeeded != nil {
			s.Monitor.Succeeded(ctx, &event.CommandSucceededEvent{
				CommandFinishedEvent: finished,
			})
		}
	}

	return err
}
