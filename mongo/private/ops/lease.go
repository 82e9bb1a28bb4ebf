// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ops

import (
	"context"

	"github.com/pkg/errors"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/conn"
)

// withConnection scopes a connection lease to fn: exactly one
// connection is acquired before fn runs and released on every exit
// path, whether fn returns normally, returns an error, or panics. No
// operation may retain the lease past its own return.
func withConnection(ctx context.Context, s *SelectedServer, fn func(c conn.Connection) error) error {
	c, err := s.Connection(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to get a connection")
	}
	defer func() {
		_ = c.Close()
	}()

	return fn(c)
}
