// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ops

import (
	"context"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/event"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/model"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/conn"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/readpref"
)

// Server represents a server.
type Server interface {
	// Connection gets a connection lease for one operation.
	Connection(context.Context) (conn.Connection, error)
	// Model gets the description of the server.
	Model() *model.Server
}

// SelectedServer represents a binding of a server to the dispatch
// context of one operation: the deployment topology it was selected
// from, the read preference the caller asked for, and the optional
// classifier and monitor collaborators.
type SelectedServer struct {
	Server

	// ClusterKind is the kind of the cluster the server was selected from.
	ClusterKind model.ClusterKind

	// ReadPref is the read preference the server was selected with.
	// This can be nil, which is interpreted as primary.
	ReadPref *readpref.ReadPref

	// Classifier decides whether a command may run on a secondary.
	// When nil, readpref.DefaultClassifier is used.
	Classifier readpref.Classifier

	// Monitor receives an event per command round trip. Optional.
	Monitor *event.CommandMonitor
}
