// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ops

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/mgo.v2/bson"
)

// ErrUnsupportedResponse indicates a successful server response whose
// shape the result resolver does not recognize. It is a defect, not a
// retryable condition.
var ErrUnsupportedResponse = errors.New("server response contains no recognized result shape")

// AggregationOptions are the options for the aggregate command.
type AggregationOptions struct {
	// Whether the server can use stable storage for sorting results.
	AllowDiskUse bool
	// Whether to request results through a server-side cursor.
	UseCursor bool
	// The batch size for fetching results. A zero value indicates the
	// server's default batch size.
	BatchSize int32
	// The maximum execution time. A zero value indicates no maximum.
	MaxTime time.Duration
}

// Aggregate executes the aggregate command with the given pipeline and
// normalizes the response into a cursor over the result documents,
// whichever of the three successful response shapes the server used:
// a cursor with its first batch, a pipeline writing to an output
// collection, or a materialized inline result array.
//
// The pipeline must encode as a BSON array of pipeline stages.
func Aggregate(ctx context.Context, s *SelectedServer, ns Namespace, pipeline []interface{}, opts AggregationOptions) (Cursor, error) {
	if err := ns.validate(); err != nil {
		return nil, err
	}

	command := bson.D{
		{Name: "aggregate", Value: ns.Collection},
		{Name: "pipeline", Value: pipeline},
	}
	if opts.UseCursor {
		command = append(command, bson.DocElem{Name: "cursor", Value: cursorRequest{BatchSize: opts.BatchSize}})
	}
	if opts.AllowDiskUse {
		command = append(command, bson.DocElem{Name: "allowDiskUsage", Value: true})
	}
	if opts.MaxTime != 0 {
		command = append(command, bson.DocElem{Name: "maxTimeMS", Value: int64(opts.MaxTime / time.Millisecond)})
	}

	var result struct {
		Cursor *firstBatchCursorResult `bson:"cursor"`
		Result *[]bson.Raw             `bson:"result"`
	}

	err := runMayUseSecondary(ctx, s, ns.DB, command, &result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute aggregate")
	}

	switch {
	case result.Cursor != nil:
		return NewCursor(result.Cursor)
	case outputCollection(pipeline) != "":
		outNs := NewNamespace(ns.DB, outputCollection(pipeline))
		cursor, err := Find(ctx, s, outNs, nil, FindOptions{BatchSize: opts.BatchSize})
		if err != nil {
			return nil, errors.Wrap(err, "failed to read aggregation output collection")
		}
		return cursor, nil
	case result.Result != nil:
		return NewBatchCursor(ns, *result.Result), nil
	}

	return nil, ErrUnsupportedResponse
}

// outputCollection returns the collection named by a trailing $out
// stage, or "" when the pipeline produces its results directly.
func outputCollection(pipeline []interface{}) string {
	if len(pipeline) == 0 {
		return ""
	}

	switch stage := pipeline[len(pipeline)-1].(type) {
	case bson.D:
		if len(stage) > 0 && stage[0].Name == "$out" {
			if name, ok := stage[0].Value.(string); ok {
				return name
			}
		}
	case bson.M:
		if name, ok := stage["$out"].(string); ok {
			return name
		}
	}

	return ""
}
