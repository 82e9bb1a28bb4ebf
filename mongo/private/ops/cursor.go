// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ops

import (
	"context"

	"gopkg.in/mgo.v2/bson"
)

// Cursor instances iterate the documents of one command's initial
// result batch. Each document is decoded into the result according to
// the rules of the bson package. Continuing the cursor past its
// initial batch (getMore) is the iteration collaborator's concern; ID
// and Namespace expose what it needs to take over.
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

	// Namespace returns the namespace the cursor iterates.
	Namespace() Namespace
}

// NewExhaustedCursor creates a new exhausted cursor.
func NewExhaustedCursor() Cursor {
	return &batchCursor{}
}

// NewCursor creates a new cursor from the given cursor result.
func NewCursor(result CursorResult) (Cursor, error) {
	return &batchCursor{
		namespace: result.Namespace(),
		batch:     result.InitialBatch(),
		cursorID:  result.CursorID(),
	}, nil
}

// NewBatchCursor creates a cursor over an already materialized set of
// documents.
func NewBatchCursor(ns Namespace, batch []bson.Raw) Cursor {
	return &batchCursor{
		namespace: ns,
		batch:     batch,
	}
}

type batchCursor struct {
	namespace Namespace
	batch     []bson.Raw
	current   int
	cursorID  int64
	err       error
}

func (c *batchCursor) Next(_ context.Context, result interface{}) bool {
	if c.current >= len(c.batch) {
		return false
	}

	if err := c.batch[c.current].Unmarshal(result); err != nil {
		c.err = err
		return false
	}

	c.current++
	return true
}

func (c *batchCursor) Err() error {
	return c.err
}

func (c *batchCursor) Close(_ context.Context) error {
	c.batch = nil
	c.current = 0
	return c.err
}

func (c *batchCursor) ID() int64 {
	return c.cursorID
}

func (c *batchCursor) Namespace() Namespace {
	return c.namespace
}
