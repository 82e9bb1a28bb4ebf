// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package mongo

import (
	"context"

	"gopkg.in/mgo.v2/bson"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/ops"
)

// Save stores the document in the collection. A document without an
// identifier gets one generated and is inserted; a document that
// already carries an identifier replaces the stored document with that
// identifier, inserting it when none exists. Either way the collection
// ends up containing exactly one document with the identifier.
//
// A type with a registered accessor gets its identifier read and, on
// the insert path, assigned through the accessor. Any other type is
// serialized and saved by the _id field of its serialized form; a
// document that serializes without _id cannot be saved, since there is
// no way to decide whether it is new or existing.
func (coll *Collection) Save(ctx context.Context, document interface{}, opts WriteOptions) (*SaveResult, error) {
	if document == nil {
		return nil, newArgumentError("document cannot be nil")
	}

	accessor, ok := coll.registry.accessorFor(document)
	if !ok {
		return coll.saveSerialized(ctx, document, opts)
	}

	id, hasID := accessor.Get(document)
	generator := coll.registry.generator

	if !hasID || generator.IsEmpty(id) {
		return coll.saveInsert(ctx, document, accessor, opts)
	}

	return coll.saveReplace(ctx, document, id, opts)
}

// saveSerialized upserts a document whose type has no accessor, keyed
// on the _id field of its serialized form.
func (coll *Collection) saveSerialized(ctx context.Context, document interface{},
	opts WriteOptions) (*SaveResult, error) {

	doc, err := toDocument(document)
	if err != nil {
		return nil, err
	}

	for _, elem := range doc {
		if elem.Name == "_id" {
			return coll.saveReplace(ctx, doc, elem.Value, opts)
		}
	}

	return nil, newOperationError(
		"cannot save a document of type %T: it has no _id field and no identifier accessor is registered", document)
}

func (coll *Collection) saveInsert(ctx context.Context, document interface{},
	accessor IDAccessor, opts WriteOptions) (*SaveResult, error) {

	id := coll.registry.generator.Generate()
	document, err := accessor.Set(document, id)
	if err != nil {
		return nil, err
	}

	s, err := coll.writeServer(ctx)
	if err != nil {
		return nil, err
	}

	wc := coll.resolveWriteConcern(opts.WriteConcern)

	var response writeCommandResponse
	err = ops.Insert(ctx, s, coll.namespace, wc, []interface{}{document}, &response)
	if err != nil {
		return nil, err
	}

	if !wc.Acknowledged() {
		return nil, nil
	}
	if err := response.writeError(); err != nil {
		return nil, err
	}

	return &SaveResult{ID: id, Inserted: true}, nil
}

func (coll *Collection) saveReplace(ctx context.Context, document interface{},
	id interface{}, opts WriteOptions) (*SaveResult, error) {

	updateDocs := []bson.D{{
		{Name: "q", Value: bson.D{{Name: "_id", Value: id}}},
		{Name: "u", Value: document},
		{Name: "multi", Value: false},
		{Name: "upsert", Value: true},
	}}

	s, err := coll.writeServer(ctx)
	if err != nil {
		return nil, err
	}

	wc := coll.resolveWriteConcern(opts.WriteConcern)

	var response writeCommandResponse
	err = ops.Update(ctx, s, coll.namespace, wc, updateDocs, &response)
	if err != nil {
		return nil, err
	}

	if !wc.Acknowledged() {
		return nil, nil
	}
	if err := response.writeError(); err != nil {
		return nil, err
	}

	result := &SaveResult{ID: id, MatchedCount: response.N}
	if len(response.Upserted) > 0 {
		result.Inserted = true
		result.MatchedCount = 0
	}

	return result, nil
}
