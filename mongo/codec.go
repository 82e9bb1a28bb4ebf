// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package mongo

import (
	"reflect"

	"github.com/google/uuid"
	"gopkg.in/mgo.v2/bson"
)

// IDGenerator produces document identifiers and recognizes identifiers
// that have not been assigned yet.
type IDGenerator interface {
	// Generate returns a new identifier.
	Generate() interface{}

	// IsEmpty indicates whether id represents an unassigned identifier
	// for this generator's identifier type.
	IsEmpty(id interface{}) bool
}

// ObjectIDGenerator generates BSON object ids.
type ObjectIDGenerator struct{}

// Generate returns a new object id.
func (ObjectIDGenerator) Generate() interface{} {
	return bson.NewObjectId()
}

// IsEmpty indicates whether id is nil or a zero object id.
func (ObjectIDGenerator) IsEmpty(id interface{}) bool {
	if id == nil {
		return true
	}
	oid, ok := id.(bson.ObjectId)
	return ok && len(oid) == 0
}

// UUIDGenerator generates string-encoded random UUIDs.
type UUIDGenerator struct{}

// Generate returns a new UUID string.
func (UUIDGenerator) Generate() interface{} {
	return uuid.New().String()
}

// IsEmpty indicates whether id is nil, an empty string, or the nil UUID.
func (UUIDGenerator) IsEmpty(id interface{}) bool {
	if id == nil {
		return true
	}
	s, ok := id.(string)
	return ok && (s == "" || s == uuid.Nil.String())
}

// IDAccessor reads and writes the _id field of one document
// representation. Set returns the document to use afterwards, which
// may differ from the input for value-typed representations.
type IDAccessor interface {
	Get(document interface{}) (id interface{}, ok bool)
	Set(document interface{}, id interface{}) (interface{}, error)
}

// Registry maps document types to their identifier accessors and holds
// the generator used when a document has no identifier yet. The zero
// Registry is not usable; construct one with NewRegistry.
type Registry struct {
	accessors map[reflect.Type]IDAccessor
	generator IDGenerator
}

// NewRegistry returns a registry with accessors for bson.M,
// map[string]interface{}, and bson.D already registered and the given
// generator. A nil generator means ObjectIDGenerator.
func NewRegistry(generator IDGenerator) *Registry {
	if generator == nil {
		generator = ObjectIDGenerator{}
	}

	r := &Registry{
		accessors: make(map[reflect.Type]IDAccessor),
		generator: generator,
	}

	r.Register(bson.M{}, bsonMAccessor{})
	r.Register(map[string]interface{}{}, mapAccessor{})
	r.Register(bson.D{}, bsonDAccessor{})

	return r
}

// Register associates the accessor with the dynamic type of sample.
// A later registration for the same type wins.
func (r *Registry) Register(sample interface{}, accessor IDAccessor) {
	r.accessors[reflect.TypeOf(sample)] = accessor
}

// accessorFor looks up the accessor for document's dynamic type.
func (r *Registry) accessorFor(document interface{}) (IDAccessor, bool) {
	accessor, ok := r.accessors[reflect.TypeOf(document)]
	return accessor, ok
}

// ensureID makes sure document carries an identifier, generating one
// when the accessor reports none. Documents of unregistered types pass
// through untouched with a nil id.
func (r *Registry) ensureID(document interface{}) (interface{}, interface{}, error) {
	accessor, ok := r.accessorFor(document)
	if !ok {
		return document, nil, nil
	}

	id, ok := accessor.Get(document)
	if ok && !r.generator.IsEmpty(id) {
		return document, id, nil
	}

	id = r.generator.Generate()
	document, err := accessor.Set(document, id)
	if err != nil {
		return nil, nil, err
	}

	return document, id, nil
}

type bsonMAccessor struct{}

func (bsonMAccessor) Get(document interface{}) (interface{}, bool) {
	id, ok := document.(bson.M)["_id"]
	return id, ok
}

func (bsonMAccessor) Set(document interface{}, id interface{}) (interface{}, error) {
	m := document.(bson.M)
	m["_id"] = id
	return m, nil
}

type mapAccessor struct{}

func (mapAccessor) Get(document interface{}) (interface{}, bool) {
	id, ok := document.(map[string]interface{})["_id"]
	return id, ok
}

func (mapAccessor) Set(document interface{}, id interface{}) (interface{}, error) {
	m := document.(map[string]interface{})
	m["_id"] = id
	return m, nil
}

type bsonDAccessor struct{}

func (bsonDAccessor) Get(document interface{}) (interface{}, bool) {
	for _, elem := range document.(bson.D) {
		if elem.Name == "_id" {
			return elem.Value, true
		}
	}
	return nil, false
}

func (bsonDAccessor) Set(document interface{}, id interface{}) (interface{}, error) {
	doc := document.(bson.D)
	for i, elem := range doc {
		if elem.Name == "_id" {
			doc[i].Value = id
			return doc, nil
		}
	}

	// _id leads the document so the server stores it first.
	out := make(bson.D, 0, len(doc)+1)
	out = append(out, bson.DocElem{Name: "_id", Value: id})
	out = append(out, doc...)
	return out, nil
}
