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

// FindOptions are the options for the find command.
type FindOptions struct {
	Sort       interface{}
	Projection interface{}
	Skip       int64
	Limit      int64
	BatchSize  int32
	MaxTime    time.Duration
}

// Find issues a single find dispatch and returns a cursor over the
// initial batch of matching documents.
func Find(ctx context.Context, s *SelectedServer, ns Namespace, filter interface{}, opts FindOptions) (Cursor, error) {
	if err := ns.validate(); err != nil {
		return nil, err
	}

	command := bson.D{
		{Name: "find", Value: ns.Collection},
	}
	if filter != nil {
		command = append(command, bson.DocElem{Name: "filter", Value: filter})
	}
	if opts.Sort != nil {
		command = append(command, bson.DocElem{Name: "sort", Value: opts.Sort})
	}
	if opts.Projection != nil {
		command = append(command, bson.DocElem{Name: "projection", Value: opts.Projection})
	}
	if opts.Skip != 0 {
		command = append(command, bson.DocElem{Name: "skip", Value: opts.Skip})
	}
	if opts.Limit != 0 {
		command = append(command, bson.DocElem{Name: "limit", Value: opts.Limit})
	}
	if opts.BatchSize != 0 {
		command = append(command, bson.DocElem{Name: "batchSize", Value: opts.BatchSize})
	}
	if opts.MaxTime != 0 {
		command = append(command, bson.DocElem{Name: "maxTimeMS", Value: int64(opts.MaxTime / time.Millisecond)})
	}

	var result cursorReturningResult

	err := runMayUseSecondary(ctx, s, ns.DB, command, &result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute find")
	}

	return NewCursor(&result.Cursor)
}
