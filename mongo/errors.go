// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package mongo

import (
	"errors"
	"fmt"
)

// ArgumentError indicates a caller-supplied value was rejected before
// any dispatch was attempted.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return e.Msg
}

func newArgumentError(format string, args ...interface{}) *ArgumentError {
	return &ArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// OperationError indicates the requested operation is not valid for
// the collection or document state it was invoked against. Like
// ArgumentError it is raised before any dispatch is attempted.
type OperationError struct {
	Msg string
}

func (e *OperationError) Error() string {
	return e.Msg
}

func newOperationError(format string, args ...interface{}) *OperationError {
	return &OperationError{Msg: fmt.Sprintf(format, args...)}
}

// IsArgumentError indicates if the error is a rejected caller argument.
func IsArgumentError(err error) bool {
	var e *ArgumentError
	return errors.As(err, &e)
}

// IsOperationError indicates if the error is an invalid operation.
func IsOperationError(err error) bool {
	var e *OperationError
	return errors.As(err, &e)
}
