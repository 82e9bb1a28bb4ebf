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

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/conn"
)

// DropIndexes drops one index in a collection, or all of them when
// index is "*". Dropping against a namespace that does not exist is
// reported by the server as a failure; it is returned here as a
// successful outcome carrying the server's response.
func DropIndexes(ctx context.Context, s *SelectedServer, ns Namespace, index string) (bson.M, error) {
	if err := ns.validate(); err != nil {
		return nil, err
	}

	command := bson.D{
		{Name: "deleteIndexes", Value: ns.Collection},
		{Name: "index", Value: index},
	}

	result := bson.M{}

	err := runMustUsePrimary(ctx, s, ns.DB, command, result)
	if err != nil {
		var cmdErr *conn.CommandError
		if conn.IsNsNotFound(err) && errors.As(err, &cmdErr) {
			response := bson.M{}
			if uerr := cmdErr.Response.Unmarshal(response); uerr == nil {
				return response, nil
			}
			return bson.M{"errmsg": cmdErr.Message, "ok": 0}, nil
		}
		return nil, errors.Wrap(err, "failed to execute dropIndexes")
	}

	return result, nil
}
