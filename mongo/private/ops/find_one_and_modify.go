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

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/conn"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/writeconcern"
)

// FindAndModifyOptions are the options for the findAndModify command.
type FindAndModifyOptions struct {
	Sort      interface{}
	Fields    interface{}
	ReturnNew bool
	Upsert    bool
	MaxTime   time.Duration
}

// FindOneAndUpdate atomically modifies a single document and returns
// either the original or the modified document. The returned flag is
// false when no document matched; that is an empty result, not a
// failure.
func FindOneAndUpdate(ctx context.Context, s *SelectedServer, ns Namespace,
	writeConcern *writeconcern.WriteConcern, query interface{}, update interface{},
	opts FindAndModifyOptions) (bson.Raw, bool, error) {

	return findAndModify(ctx, s, ns, writeConcern, query, update, false, opts)
}

// FindOneAndDelete atomically removes a single document and returns it.
func FindOneAndDelete(ctx context.Context, s *SelectedServer, ns Namespace,
	writeConcern *writeconcern.WriteConcern, query interface{},
	opts FindAndModifyOptions) (bson.Raw, bool, error) {

	return findAndModify(ctx, s, ns, writeConcern, query, nil, true, opts)
}

func findAndModify(ctx context.Context, s *SelectedServer, ns Namespace,
	writeConcern *writeconcern.WriteConcern, query interface{}, update interface{},
	remove bool, opts FindAndModifyOptions) (bson.Raw, bool, error) {

	if err := ns.validate(); err != nil {
		return bson.Raw{}, false, err
	}

	command := bson.D{
		{Name: "findAndModify", Value: ns.Collection},
	}
	if query != nil {
		command = append(command, bson.DocElem{Name: "query", Value: query})
	}
	if opts.Sort != nil {
		command = append(command, bson.DocElem{Name: "sort", Value: opts.Sort})
	}
	if remove {
		command = append(command, bson.DocElem{Name: "remove", Value: true})
	} else {
		command = append(command, bson.DocElem{Name: "update", Value: update})
	}
	if opts.Fields != nil {
		command = append(command, bson.DocElem{Name: "fields", Value: opts.Fields})
	}
	if opts.ReturnNew {
		command = append(command, bson.DocElem{Name: "new", Value: true})
	}
	if opts.Upsert {
		command = append(command, bson.DocElem{Name: "upsert", Value: true})
	}
	if opts.MaxTime != 0 {
		command = append(command, bson.DocElem{Name: "maxTimeMS", Value: int64(opts.MaxTime / time.Millisecond)})
	}
	if writeConcern != nil {
		command = append(command, bson.DocElem{Name: "writeConcern", Value: writeConcern})
	}

	var result struct {
		Value bson.Raw `bson:"value"`
	}

	err := runMustUsePrimary(ctx, s, ns.DB, command, &result)
	if conn.IsNoMatchingObject(err) {
		// the server reports an unmatched filter as a command failure;
		// surface it as a successful, empty outcome instead.
		return bson.Raw{}, false, nil
	}
	if err != nil {
		return bson.Raw{}, false, errors.Wrap(err, "failed to execute findAndModify")
	}

	if result.Value.Kind == 0x0A || len(result.Value.Data) == 0 {
		return bson.Raw{}, false, nil
	}

	return result.Value, true, nil
}
