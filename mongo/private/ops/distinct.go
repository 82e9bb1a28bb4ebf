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
)

// Distinct finds the distinct values for a specified field across a
// single collection.
func Distinct(ctx context.Context, s *SelectedServer, ns Namespace, field string, query interface{}) ([]interface{}, error) {
	if err := ns.validate(); err != nil {
		return nil, err
	}

	command := bson.D{
		{Name: "distinct", Value: ns.Collection},
		{Name: "key", Value: field},
	}
	if query != nil {
		command = append(command, bson.DocElem{Name: "query", Value: query})
	}

	result := struct {
		Values []interface{} `bson:"values"`
	}{}

	err := runMayUseSecondary(ctx, s, ns.DB, command, &result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute distinct")
	}

	return result.Values, nil
}
