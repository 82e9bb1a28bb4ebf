// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package conn

import (
	"context"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/model"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/msg"
)

// Connection is an exclusive lease on one server connection. It is
// owned by a single operation from acquisition until Close returns it
// to its Provider, and must never be retained past the operation.
type Connection interface {
	// Alive indicates whether the connection is still usable.
	Alive() bool
	// Close returns the lease. It must be called exactly once per
	// acquisition, on every exit path.
	Close() error
	// Model gets a description of the connection.
	Model() *model.Conn
	// Read reads a message from the connection.
	Read(context.Context) (msg.Response, error)
	// Write writes a number of messages to the connection.
	Write(context.Context, ...msg.Request) error
}

// Provider hands out connection leases. Implementations are expected
// to be safe for concurrent use; pooling, health checks, and failover
// are the provider's concern, not the caller's.
type Provider interface {
	// Connection acquires a lease, blocking until one is available or
	// the context is done.
	Connection(context.Context) (Connection, error)
}
