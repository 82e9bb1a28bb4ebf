// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package mongo

import "context"

// Cursor instances iterate a stream of documents. Each document is
// decoded into the result according to the rules of the bson package.
type Cursor interface {
	// Next gets the next result from the cursor.
	// Returns true if there were no errors and there is a next result.
	Next(context.Context, interface{}) bool

	// Err returns the error status of the cursor.
	Err() error

	// Close the cursor. Returns the error status of this cursor so
	// that clients do not have to call Err() separately.
	Close(context.Context) error

	// ID returns the server-side cursor id, zero when the result was
	// fully materialized in the initial batch.
	ID() int64
}
