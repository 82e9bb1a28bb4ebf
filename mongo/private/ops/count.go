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

// CountOptions are the options for the count command.
type CountOptions struct {
	// Skip is the number of matching documents to skip before counting.
	Skip int64
	// Limit caps the count. A zero value indicates no limit.
	Limit int64
	// MaxTime is the maximum execution time. A zero value indicates no maximum.
	MaxTime time.Duration
}

// Count counts how many documents in a collection match a given query.
func Count(ctx context.Context, s *SelectedServer, ns Namespace, query interface{}, opts CountOptions) (int64, error) {
	if err := ns.validate(); err != nil {
		return 0, err
	}

	command := bson.D{
		{Name: "count", Value: ns.Collection},
	}
	if query != nil {
		command = append(command, bson.DocElem{Name: "query", Value: query})
	}
	if opts.Skip != 0 {
		command = append(command, bson.DocElem{Name: "skip", Value: opts.Skip})
	}
	if opts.Limit != 0 {
		command = append(command, bson.DocElem{Name: "limit", Value: opts.Limit})
	}
	if opts.MaxTime != 0 {
		command = append(command, bson.DocElem{Name: "maxTimeMS", Value: int64(opts.MaxTime / time.Millisecond)})
	}

	result := struct{ N int64 }{}

	err := runMayUseSecondary(ctx, s, ns.DB, command, &result)
	if err != nil {
		return 0, errors.Wrap(err, "failed to execute count")
	}

	return result.N, nil
}
