// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package conn

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/mgo.v2/bson"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/msg"
)

// ExecuteCommand executes the request on the connection and decodes
// the server's response into out. A response whose ok field is false
// is surfaced as a *CommandError carrying the raw response document.
func ExecuteCommand(ctx context.Context, c Connection, request msg.Request, out interface{}) error {
	return ExecuteCommands(ctx, c, []msg.Request{request}, []interface{}{out})
}

// ExecuteCommands executes the requests on the connection.
func ExecuteCommands(ctx context.Context, c Connection, requests []msg.Request, out []interface{}) error {
	if len(requests) != len(out) {
		panic("invalid arguments. 'out' length must equal 'requests' length")
	}

	err := c.Write(ctx, requests...)
	if err != nil {
		return fmt.Errorf("failed sending commands(%d): %w", len(requests), err)
	}

	var errs []error
	for i, req := range requests {
		resp, err := c.Read(ctx)
		if err != nil {
			return fmt.Errorf("failed receiving command response for %d: %w", req.RequestID(), err)
		}

		if resp.ResponseTo() != req.RequestID() {
			errs = append(errs, fmt.Errorf("received out of order response: expected %d but got %d", req.RequestID(), resp.ResponseTo()))
			continue
		}

		if err = readCommandResponse(resp, out[i]); err != nil {
			errs = append(errs, err)
			continue
		}
	}

	return errors.Join(errs...)
}

func readCommandResponse(resp msg.Response, out interface{}) error {
	typedResp, ok := resp.(*msg.Reply)
	if !ok {
		return fmt.Errorf("unsupported response message type: %T", resp)
	}

	if typedResp.NumberReturned == 0 {
		return ErrNoDocCommandResponse
	}
	if typedResp.NumberReturned > 1 {
		return ErrMultiDocCommandResponse
	}

	iter := typedResp.Iter()

	if typedResp.ResponseFlags&msg.QueryFailure != 0 {
		// read the first document as the failure
		var doc bson.D
		found, err := iter.One(&doc)
		if err != nil {
			return NewCommandResponseError(fmt.Sprintf("failed to read command failure document: %v", err))
		}
		if !found {
			return ErrUnknownCommandFailure
		}
		return &CommandFailureError{
			Msg:      "command failure",
			Response: doc,
		}
	}

	docBytes, err := iter.NextBytes()
	if err != nil {
		return NewCommandResponseError(fmt.Sprintf("failed to read command response document: %v", err))
	}
	if docBytes == nil {
		return ErrNoCommandResponse
	}

	if err = commandOK(docBytes); err != nil {
		return err
	}

	if out != nil {
		if err = bson.Unmarshal(docBytes, out); err != nil {
			return NewCommandResponseError(fmt.Sprintf("failed to decode command response document: %v", err))
		}
	}

	return nil
}

// commandOK checks the response document's ok field and converts a
// failed command into a *CommandError.
func commandOK(docBytes []byte) error {
	var raw bson.RawD
	if err := bson.Unmarshal(docBytes, &raw); err != nil {
		return NewCommandResponseError(fmt.Sprintf("failed to read command response document: %v", err))
	}

	ok := false
	var errmsg, codeName string
	var code int32
	for _, rawElem := range raw {
		switch rawElem.Name {
		case "ok":
			var v int
			if err := rawElem.Value.Unmarshal(&v); err == nil && v == 1 {
				ok = true
			}
		case "errmsg":
			_ = rawElem.Value.Unmarshal(&errmsg)
		case "codeName":
			_ = rawElem.Value.Unmarshal(&codeName)
		case "code":
			_ = rawElem.Value.Unmarshal(&code)
		}
	}

	if !ok {
		if errmsg == "" {
			errmsg = "command failed"
		}
		return &CommandError{
			Code:     code,
			Message:  errmsg,
			Name:     codeName,
			Response: bson.Raw{Kind: 0x03, Data: docBytes},
		}
	}

	return nil
}
