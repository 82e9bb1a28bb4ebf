// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ops

import (
	"context"

	"github.com/pkg/errors"
	"gopkg.in/mgo.v2/bson"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/writeconcern"
)

// Update executes an update command with a given set of update
// documents. Each update document carries its own q, u, multi, and
// upsert fields. Updates always target the primary.
func Update(ctx context.Context, s *SelectedServer, ns Namespace, writeConcern *writeconcern.WriteConcern,
	updateDocs []bson.D, result interface{}) error {

	if err := ns.validate(); err != nil {
		return err
	}

	command := bson.D{
		{Name: "update", Value: ns.Collection},
		{Name: "updates", Value: updateDocs},
	}

	if writeConcern != nil {
		command = append(command, bson.DocElem{Name: "writeConcern", Value: writeConcern})
	}

	err := runMustUsePrimary(ctx, s, ns.DB, command, result)
	if err != nil {
		return errors.Wrap(err, "failed to execute update")
	}

	return nil
}
