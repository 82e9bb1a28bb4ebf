// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package mongo

import (
	"time"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/writeconcern"
)

// WriteOptions configure a single write dispatch. The zero value uses
// the collection's defaults.
type WriteOptions struct {
	// WriteConcern overrides the collection's write concern for this
	// call only.
	WriteConcern *writeconcern.WriteConcern
}

// UpdateOptions configure a single update or replace dispatch.
type UpdateOptions struct {
	// Upsert inserts the document when the filter matches nothing.
	Upsert bool
	// WriteConcern overrides the collection's write concern for this
	// call only.
	WriteConcern *writeconcern.WriteConcern
}

// CountOptions configure a count dispatch.
type CountOptions struct {
	Skip    int64
	Limit   int64
	MaxTime time.Duration
}

// FindOptions configure a find dispatch.
type FindOptions struct {
	Sort       interface{}
	Projection interface{}
	Skip       int64
	Limit      int64
	BatchSize  int32
	MaxTime    time.Duration
}

// FindOneAndUpdateOptions configure a findAndModify dispatch that
// updates or replaces a document.
type FindOneAndUpdateOptions struct {
	Sort       interface{}
	Projection interface{}
	// ReturnNew returns the post-change document instead of the
	// original.
	ReturnNew bool
	Upsert    bool
	MaxTime   time.Duration
	// WriteConcern overrides the collection's write concern for this
	// call only.
	WriteConcern *writeconcern.WriteConcern
}

// FindOneAndDeleteOptions configure a findAndModify dispatch that
// removes a document.
type FindOneAndDeleteOptions struct {
	Sort       interface{}
	Projection interface{}
	MaxTime    time.Duration
	// WriteConcern overrides the collection's write concern for this
	// call only.
	WriteConcern *writeconcern.WriteConcern
}

// AggregateOutputMode selects how aggregation results are requested
// from the server.
type AggregateOutputMode int

const (
	// AggregateInline requests the materialized inline result array.
	AggregateInline AggregateOutputMode = iota
	// AggregateCursor requests results through a server-side cursor.
	AggregateCursor
)

// AggregateOptions configure an aggregate dispatch.
type AggregateOptions struct {
	OutputMode   AggregateOutputMode
	BatchSize    int32
	AllowDiskUse bool
	MaxTime      time.Duration
}
