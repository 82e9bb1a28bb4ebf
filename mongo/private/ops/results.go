// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ops

import (
	"gopkg.in/mgo.v2/bson"
)

// CursorResult describes the initial results of a cursor.
type CursorResult interface {
	// Namespace the cursor is in.
	Namespace() Namespace
	// InitialBatch is the initial batch of results, which may be empty.
	InitialBatch() []bson.Raw
	// CursorID is the cursor id, which may be zero if no cursor was established.
	CursorID() int64
}

type cursorRequest struct {
	BatchSize int32 `bson:"batchSize,omitempty"`
}

// The result of a command that returns a cursor.
type cursorReturningResult struct {
	Cursor firstBatchCursorResult `bson:"cursor"`
}

// The first batch of a cursor.
type firstBatchCursorResult struct {
	FirstBatch []bson.Raw `bson:"firstBatch"`
	NS         string     `bson:"ns"`
	ID         int64      `bson:"id"`
}

func (r *firstBatchCursorResult) Namespace() Namespace {
	return ParseNamespace(r.NS)
}

func (r *firstBatchCursorResult) InitialBatch() []bson.Raw {
	return r.FirstBatch
}

func (r *firstBatchCursorResult) CursorID() int64 {
	return r.ID
}
