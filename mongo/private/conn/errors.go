// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package conn

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/mgo.v2/bson"
)

var (
	ErrUnknownCommandFailure   = errors.New("unknown command failure")
	ErrNoCommandResponse       = errors.New("no command response document")
	ErrMultiDocCommandResponse = errors.New("command returned multiple documents")
	ErrNoDocCommandResponse    = errors.New("command returned no documents")
)

// noMatchingObjectMessage is the exact text servers emit when a
// findAndModify matches no document. The match is deliberately exact:
// broadening it would turn genuine failures into empty results.
const noMatchingObjectMessage = "No matching object found"

// CommandFailureError is an error with a failure response as a document.
type CommandFailureError struct {
	Msg      string
	Response bson.D
}

func (e *CommandFailureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Msg, e.Response)
}

// Message retrieves the message of the error.
func (e *CommandFailureError) Message() string {
	return e.Msg
}

// CommandResponseError is an error in the response to a command.
type CommandResponseError struct {
	Message string
}

// NewCommandResponseError creates a new CommandResponseError.
func NewCommandResponseError(msg string) *CommandResponseError {
	return &CommandResponseError{msg}
}

func (e *CommandResponseError) Error() string {
	return e.Message
}

// CommandError is a server-reported failure in the execution of a
// command. Response holds the raw failure document for diagnostics.
type CommandError struct {
	Code     int32
	Message  string
	Name     string
	Response bson.Raw
}

func (e *CommandError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("(%v) %v", e.Name, e.Message)
	}
	return e.Message
}

// IsNsNotFound indicates if the error is about a namespace not being found.
func IsNsNotFound(err error) bool {
	var e *CommandError
	return errors.As(err, &e) && (e.Code == 26 || e.Message == "ns not found")
}

// IsNoMatchingObject indicates if the error is a findAndModify
// matching no document, which callers treat as an empty result rather
// than a failure.
func IsNoMatchingObject(err error) bool {
	var e *CommandError
	return errors.As(err, &e) && e.Message == noMatchingObjectMessage
}

// IsCommandNotFound indicates if the error is about a command not being found.
func IsCommandNotFound(err error) bool {
	var e *CommandError
	return errors.As(err, &e) && (e.Code == 59 || e.Code == 13390 || strings.HasPrefix(e.Message, "no such cmd:"))
}
