// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package mongo

import (
	"context"
	"strings"

	"gopkg.in/mgo.v2/bson"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/event"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/model"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/ops"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/readpref"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/writeconcern"
)

// Cluster is the deployment a collection dispatches against. It lends
// out servers; the collection never holds a connection between calls.
type Cluster interface {
	// SelectServer chooses a server suitable for the given read
	// preference. A nil read preference means primary.
	SelectServer(ctx context.Context, rp *readpref.ReadPref) (ops.Server, error)

	// Kind returns the kind of the deployment.
	Kind() model.ClusterKind
}

// Collection performs operations on a given collection. Its settings
// are frozen at construction; per-call options override them for one
// dispatch only.
type Collection struct {
	cluster      Cluster
	namespace    ops.Namespace
	readPref     *readpref.ReadPref
	writeConcern *writeconcern.WriteConcern
	registry     *Registry
	classifier   readpref.Classifier
	monitor      *event.CommandMonitor
}

// CollectionOption configures a Collection at construction.
type CollectionOption func(*Collection)

// ReadPreference sets the default read preference for read commands.
func ReadPreference(rp *readpref.ReadPref) CollectionOption {
	return func(coll *Collection) { coll.readPref = rp }
}

// DefaultWriteConcern sets the write concern used when a call does not
// supply its own.
func DefaultWriteConcern(wc *writeconcern.WriteConcern) CollectionOption {
	return func(coll *Collection) { coll.writeConcern = wc }
}

// WithRegistry sets the identifier accessor registry used by insert
// and save operations.
func WithRegistry(r *Registry) CollectionOption {
	return func(coll *Collection) { coll.registry = r }
}

// WithClassifier sets the classifier deciding which commands may run
// on a secondary.
func WithClassifier(c readpref.Classifier) CollectionOption {
	return func(coll *Collection) { coll.classifier = c }
}

// WithMonitor sets the command monitor notified on every dispatch.
func WithMonitor(m *event.CommandMonitor) CollectionOption {
	return func(coll *Collection) { coll.monitor = m }
}

// NewCollection returns a collection bound to the given cluster,
// database, and collection name.
func NewCollection(cluster Cluster, db, name string, opts ...CollectionOption) (*Collection, error) {
	if cluster == nil {
		return nil, newArgumentError("cluster cannot be nil")
	}

	ns := ops.NewNamespace(db, name)
	if err := ns.Validate(); err != nil {
		return nil, newArgumentError("invalid namespace: %v", err)
	}

	coll := &Collection{
		cluster:   cluster,
		namespace: ns,
	}
	for _, opt := range opts {
		opt(coll)
	}

	if coll.registry == nil {
		coll.registry = NewRegistry(nil)
	}

	return coll, nil
}

// Name returns the fully qualified namespace of the collection.
func (coll *Collection) Name() string {
	return coll.namespace.FullName()
}

func (coll *Collection) selectServer(ctx context.Context, rp *readpref.ReadPref) (*ops.SelectedServer, error) {
	server, err := coll.cluster.SelectServer(ctx, rp)
	if err != nil {
		return nil, err
	}

	return &ops.SelectedServer{
		Server:      server,
		ClusterKind: coll.cluster.Kind(),
		ReadPref:    rp,
		Classifier:  coll.classifier,
		Monitor:     coll.monitor,
	}, nil
}

func (coll *Collection) writeServer(ctx context.Context) (*ops.SelectedServer, error) {
	return coll.selectServer(ctx, readpref.Primary())
}

func (coll *Collection) readServer(ctx context.Context) (*ops.SelectedServer, error) {
	return coll.selectServer(ctx, coll.readPref)
}

// resolveWriteConcern applies the override order: per-call, then
// collection default, then the global default.
func (coll *Collection) resolveWriteConcern(override *writeconcern.WriteConcern) *writeconcern.WriteConcern {
	if override != nil {
		return override
	}
	if coll.writeConcern != nil {
		return coll.writeConcern
	}
	return writeconcern.Default()
}

// InsertOne inserts a single document into the collection. When an
// accessor is registered for the document's type and the document has
// no identifier, one is generated before dispatch.
func (coll *Collection) InsertOne(ctx context.Context, document interface{},
	opts WriteOptions) (*InsertOneResult, error) {

	if document == nil {
		return nil, newArgumentError("document cannot be nil")
	}

	document, id, err := coll.registry.ensureID(document)
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

	return &InsertOneResult{InsertedID: id}, nil
}

// InsertMany inserts the given slice of documents. An empty slice is a
// no-op: no dispatch takes place and an empty result is returned.
func (coll *Collection) InsertMany(ctx context.Context, documents []interface{},
	opts WriteOptions) (*InsertManyResult, error) {

	if len(documents) == 0 {
		return &InsertManyResult{}, nil
	}

	ids := make([]interface{}, len(documents))
	for i, document := range documents {
		if document == nil {
			return nil, newArgumentError("document at index %d cannot be nil", i)
		}
		doc, id, err := coll.registry.ensureID(document)
		if err != nil {
			return nil, err
		}
		documents[i] = doc
		ids[i] = id
	}

	s, err := coll.writeServer(ctx)
	if err != nil {
		return nil, err
	}

	wc := coll.resolveWriteConcern(opts.WriteConcern)

	var response writeCommandResponse
	err = ops.Insert(ctx, s, coll.namespace, wc, documents, &response)
	if err != nil {
		return nil, err
	}

	if !wc.Acknowledged() {
		return nil, nil
	}
	if err := response.writeError(); err != nil {
		return nil, err
	}

	return &InsertManyResult{InsertedIDs: ids, InsertedCount: response.N}, nil
}

// UpdateOne updates a single document matching the filter. The update
// document must consist solely of $-operators.
func (coll *Collection) UpdateOne(ctx context.Context, filter interface{}, update interface{},
	opts UpdateOptions) (*UpdateResult, error) {

	updateDoc, err := ensureUpdateDocument(update)
	if err != nil {
		return nil, err
	}

	return coll.updateOrReplace(ctx, filter, updateDoc, false, opts)
}

// UpdateMany updates all documents matching the filter.
func (coll *Collection) UpdateMany(ctx context.Context, filter interface{}, update interface{},
	opts UpdateOptions) (*UpdateResult, error) {

	updateDoc, err := ensureUpdateDocument(update)
	if err != nil {
		return nil, err
	}

	return coll.updateOrReplace(ctx, filter, updateDoc, true, opts)
}

// ReplaceOne replaces a single document matching the filter with the
// replacement document. The replacement cannot contain $-operators.
func (coll *Collection) ReplaceOne(ctx context.Context, filter interface{}, replacement interface{},
	opts UpdateOptions) (*UpdateResult, error) {

	replacementDoc, err := ensureReplacementDocument(replacement)
	if err != nil {
		return nil, err
	}

	return coll.updateOrReplace(ctx, filter, replacementDoc, false, opts)
}

func (coll *Collection) updateOrReplace(ctx context.Context, filter interface{}, update bson.D,
	multi bool, opts UpdateOptions) (*UpdateResult, error) {

	updateDocs := []bson.D{{
		{Name: "q", Value: filter},
		{Name: "u", Value: update},
		{Name: "multi", Value: multi},
		{Name: "upsert", Value: opts.Upsert},
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

	result := &UpdateResult{
		MatchedCount:  response.N,
		ModifiedCount: response.NModified,
	}
	if len(response.Upserted) > 0 {
		result.UpsertedID = response.Upserted[0].ID
		// an upsert inserts rather than matches
		result.MatchedCount--
	}

	return result, nil
}

// DeleteOne deletes a single document from the collection.
func (coll *Collection) DeleteOne(ctx context.Context, filter interface{},
	opts WriteOptions) (*DeleteResult, error) {

	return coll.delete(ctx, filter, 1, opts)
}

// DeleteMany deletes all documents matching the filter.
func (coll *Collection) DeleteMany(ctx context.Context, filter interface{},
	opts WriteOptions) (*DeleteResult, error) {

	return coll.delete(ctx, filter, 0, opts)
}

func (coll *Collection) delete(ctx context.Context, filter interface{}, limit int,
	opts WriteOptions) (*DeleteResult, error) {

	deleteDocs := []bson.D{{
		{Name: "q", Value: filter},
		{Name: "limit", Value: limit},
	}}

	s, err := coll.writeServer(ctx)
	if err != nil {
		return nil, err
	}

	wc := coll.resolveWriteConcern(opts.WriteConcern)

	var response writeCommandResponse
	err = ops.Delete(ctx, s, coll.namespace, wc, deleteDocs, &response)
	if err != nil {
		return nil, err
	}

	if !wc.Acknowledged() {
		return nil, nil
	}
	if err := response.writeError(); err != nil {
		return nil, err
	}

	return &DeleteResult{DeletedCount: response.N}, nil
}

// Count gets the number of documents matching the filter.
func (coll *Collection) Count(ctx context.Context, filter interface{}, opts CountOptions) (int64, error) {
	s, err := coll.readServer(ctx)
	if err != nil {
		return 0, err
	}

	return ops.Count(ctx, s, coll.namespace, filter, ops.CountOptions{
		Skip:    opts.Skip,
		Limit:   opts.Limit,
		MaxTime: opts.MaxTime,
	})
}

// Distinct finds the distinct values for a specified field across the
// collection.
func (coll *Collection) Distinct(ctx context.Context, fieldName string, filter interface{}) ([]interface{}, error) {
	if fieldName == "" {
		return nil, newArgumentError("field name cannot be empty")
	}

	s, err := coll.readServer(ctx)
	if err != nil {
		return nil, err
	}

	return ops.Distinct(ctx, s, coll.namespace, fieldName, filter)
}

// Find returns a cursor over the documents matching the filter.
func (coll *Collection) Find(ctx context.Context, filter interface{}, opts FindOptions) (Cursor, error) {
	s, err := coll.readServer(ctx)
	if err != nil {
		return nil, err
	}

	return ops.Find(ctx, s, coll.namespace, filter, ops.FindOptions{
		Sort:       opts.Sort,
		Projection: opts.Projection,
		Skip:       opts.Skip,
		Limit:      opts.Limit,
		BatchSize:  opts.BatchSize,
		MaxTime:    opts.MaxTime,
	})
}

// FindOne returns up to one document matching the filter, reporting
// whether one was found.
func (coll *Collection) FindOne(ctx context.Context, filter interface{}, result interface{},
	opts FindOptions) (bool, error) {

	opts.Limit = 1

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return false, err
	}

	found := cursor.Next(ctx, result)
	if err := cursor.Err(); err != nil {
		return false, err
	}

	return found, nil
}

// Aggregate runs an aggregation framework pipeline and returns a
// cursor over the result documents regardless of which shape the
// server responded with.
func (coll *Collection) Aggregate(ctx context.Context, pipeline []interface{},
	opts AggregateOptions) (Cursor, error) {

	var s *ops.SelectedServer
	var err error
	if aggregateWritesOutput(pipeline) {
		s, err = coll.writeServer(ctx)
	} else {
		s, err = coll.readServer(ctx)
	}
	if err != nil {
		return nil, err
	}

	return ops.Aggregate(ctx, s, coll.namespace, pipeline, ops.AggregationOptions{
		AllowDiskUse: opts.AllowDiskUse,
		UseCursor:    opts.OutputMode == AggregateCursor,
		BatchSize:    opts.BatchSize,
		MaxTime:      opts.MaxTime,
	})
}

// FindOneAndUpdate finds a single document and updates it, returning
// either the original or, with ReturnNew, the updated document. A
// false return with a nil error means no document matched.
func (coll *Collection) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{},
	result interface{}, opts FindOneAndUpdateOptions) (bool, error) {

	updateDoc, err := ensureUpdateDocument(update)
	if err != nil {
		return false, err
	}

	return coll.findOneAndApply(ctx, filter, updateDoc, result, opts)
}

// FindOneAndReplace finds a single document and replaces it, returning
// either the original or, with ReturnNew, the replacement.
func (coll *Collection) FindOneAndReplace(ctx context.Context, filter interface{}, replacement interface{},
	result interface{}, opts FindOneAndUpdateOptions) (bool, error) {

	replacementDoc, err := ensureReplacementDocument(replacement)
	if err != nil {
		return false, err
	}

	return coll.findOneAndApply(ctx, filter, replacementDoc, result, opts)
}

func (coll *Collection) findOneAndApply(ctx context.Context, filter interface{}, update bson.D,
	result interface{}, opts FindOneAndUpdateOptions) (bool, error) {

	s, err := coll.writeServer(ctx)
	if err != nil {
		return false, err
	}

	wc := coll.resolveWriteConcern(opts.WriteConcern)

	value, found, err := ops.FindOneAndUpdate(ctx, s, coll.namespace, wc, filter, update,
		ops.FindAndModifyOptions{
			Sort:      opts.Sort,
			Fields:    opts.Projection,
			ReturnNew: opts.ReturnNew,
			Upsert:    opts.Upsert,
			MaxTime:   opts.MaxTime,
		})
	if err != nil || !found {
		return false, err
	}

	if result != nil {
		if err := value.Unmarshal(result); err != nil {
			return false, err
		}
	}

	return true, nil
}

// FindOneAndDelete finds a single document and deletes it, returning
// the original. A false return with a nil error means no document
// matched.
func (coll *Collection) FindOneAndDelete(ctx context.Context, filter interface{},
	result interface{}, opts FindOneAndDeleteOptions) (bool, error) {

	s, err := coll.writeServer(ctx)
	if err != nil {
		return false, err
	}

	wc := coll.resolveWriteConcern(opts.WriteConcern)

	value, found, err := ops.FindOneAndDelete(ctx, s, coll.namespace, wc, filter,
		ops.FindAndModifyOptions{
			Sort:    opts.Sort,
			Fields:  opts.Projection,
			MaxTime: opts.MaxTime,
		})
	if err != nil || !found {
		return false, err
	}

	if result != nil {
		if err := value.Unmarshal(result); err != nil {
			return false, err
		}
	}

	return true, nil
}

// DropIndex drops the named index. Dropping an index of a collection
// that does not exist is not an error.
func (coll *Collection) DropIndex(ctx context.Context, name string) (bson.M, error) {
	if name == "" {
		return nil, newArgumentError("index name cannot be empty")
	}

	s, err := coll.writeServer(ctx)
	if err != nil {
		return nil, err
	}

	return ops.DropIndexes(ctx, s, coll.namespace, name)
}

// DropIndexes drops all indexes of the collection except the one on _id.
func (coll *Collection) DropIndexes(ctx context.Context) (bson.M, error) {
	s, err := coll.writeServer(ctx)
	if err != nil {
		return nil, err
	}

	return ops.DropIndexes(ctx, s, coll.namespace, "*")
}

// RunCommand runs an arbitrary command against the collection's
// database, routed by the collection's read preference.
func (coll *Collection) RunCommand(ctx context.Context, command bson.D, result interface{}) error {
	if len(command) == 0 {
		return newArgumentError("command cannot be empty")
	}

	s, err := coll.readServer(ctx)
	if err != nil {
		return err
	}

	return ops.Run(ctx, s, coll.namespace.DB, command, result)
}

// toDocument normalizes an arbitrary document representation into an
// ordered document by a marshal round trip.
func toDocument(v interface{}) (bson.D, error) {
	bytes, err := bson.Marshal(v)
	if err != nil {
		return nil, newArgumentError("cannot marshal document: %v", err)
	}

	var doc bson.D
	if err := bson.Unmarshal(bytes, &doc); err != nil {
		return nil, newArgumentError("cannot marshal document: %v", err)
	}

	return doc, nil
}

func ensureUpdateDocument(update interface{}) (bson.D, error) {
	if update == nil {
		return nil, newArgumentError("update document cannot be nil")
	}

	doc, err := toDocument(update)
	if err != nil {
		return nil, err
	}

	if len(doc) == 0 {
		return nil, newOperationError("update document cannot be empty")
	}
	for _, elem := range doc {
		if !strings.HasPrefix(elem.Name, "$") {
			return nil, newArgumentError("update document must only contain keys beginning with '$', got %q", elem.Name)
		}
	}

	return doc, nil
}

func ensureReplacementDocument(replacement interface{}) (bson.D, error) {
	if replacement == nil {
		return nil, newArgumentError("replacement document cannot be nil")
	}

	doc, err := toDocument(replacement)
	if err != nil {
		return nil, err
	}

	for _, elem := range doc {
		if strings.HasPrefix(elem.Name, "$") {
			return nil, newArgumentError("replacement document cannot contain keys beginning with '$', got %q", elem.Name)
		}
	}

	return doc, nil
}

// aggregateWritesOutput reports whether the pipeline ends in a stage
// that persists results, which must run on the primary.
func aggregateWritesOutput(pipeline []interface{}) bool {
	if len(pipeline) == 0 {
		return false
	}

	switch stage := pipeline[len(pipeline)-1].(type) {
	case bson.D:
		return len(stage) > 0 && stage[0].Name == "$out"
	case bson.M:
		_, ok := stage["$out"]
		return ok
	}

	return false
}
