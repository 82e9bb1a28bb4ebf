// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package mongo

import (
	"fmt"
	"strings"
)

// InsertOneResult is a result of an InsertOne operation.
type InsertOneResult struct {
	// The identifier that was inserted.
	InsertedID interface{}
}

// InsertManyResult is a result of an InsertMany operation.
type InsertManyResult struct {
	// The identifiers that were inserted, in input order. An entry is
	// nil when no accessor is registered for the document's type.
	InsertedIDs []interface{}
	// The number of documents the server acknowledged.
	InsertedCount int64
}

// UpdateResult is a result of an update operation.
type UpdateResult struct {
	// The number of documents that matched the filter.
	MatchedCount int64
	// The number of documents that were modified.
	ModifiedCount int64
	// The identifier of the inserted document if an upsert took place.
	UpsertedID interface{}
}

// DeleteResult is a result of a delete operation.
type DeleteResult struct {
	// The number of documents that were deleted.
	DeletedCount int64
}

// SaveResult is a result of a Save operation.
type SaveResult struct {
	// The identifier of the saved document.
	ID interface{}
	// Whether the save inserted a new document rather than replacing a
	// stored one.
	Inserted bool
	// The number of stored documents the replacement matched. Zero for
	// an insert or an upsert of an unseen id.
	MatchedCount int64
}

// WriteError is one document-level failure reported inside an
// otherwise successful write command response.
type WriteError struct {
	Index int    `bson:"index"`
	Code  int    `bson:"code"`
	Msg   string `bson:"errmsg"`
}

func (e WriteError) Error() string {
	return fmt.Sprintf("write error at index %d (code %d): %s", e.Index, e.Code, e.Msg)
}

// WriteErrors is the collection of document-level failures from one
// write command.
type WriteErrors []WriteError

func (e WriteErrors) Error() string {
	messages := make([]string, len(e))
	for i, we := range e {
		messages[i] = we.Error()
	}
	return strings.Join(messages, "; ")
}

// WriteConcernError is a failure to satisfy the requested write
// concern. The write itself may have been applied.
type WriteConcernError struct {
	Code int    `bson:"code"`
	Msg  string `bson:"errmsg"`
}

func (e *WriteConcernError) Error() string {
	return fmt.Sprintf("write concern error (code %d): %s", e.Code, e.Msg)
}

type upsertedID struct {
	Index int64       `bson:"index"`
	ID    interface{} `bson:"_id"`
}

// writeCommandResponse is the response body shared by the insert,
// update, and delete commands.
type writeCommandResponse struct {
	N                 int64              `bson:"n"`
	NModified         int64              `bson:"nModified"`
	Upserted          []upsertedID       `bson:"upserted"`
	WriteErrors       WriteErrors        `bson:"writeErrors"`
	WriteConcernError *WriteConcernError `bson:"writeConcernError"`
}

// writeError surfaces document-level or write concern failures the
// server reported alongside ok: 1.
func (r *writeCommandResponse) writeError() error {
	if len(r.WriteErrors) > 0 {
		return r.WriteErrors
	}
	if r.WriteConcernError != nil {
		return r.WriteConcernError
	}
	return nil
}
