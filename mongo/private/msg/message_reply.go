// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package msg

import (
	"fmt"

	"gopkg.in/mgo.v2/bson"
)

// Reply is a message received from the server.
type Reply struct {
	ReqID          int32
	RespTo         int32
	ResponseFlags  ReplyFlags
	CursorID       int64
	StartingFrom   int32
	NumberReturned int32
	DocumentsBytes []byte
}

// ResponseTo gets the request id the message was in response to.
func (m *Reply) ResponseTo() int32 { return m.RespTo }

// ReplyFlags are the flags in a Reply.
type ReplyFlags int32

// ReplyFlags constants.
const (
	CursorNotFound ReplyFlags = 1 << iota
	QueryFailure
	_
	AwaitCapable
)

// Iter returns a ReplyIter to iterate over each document
// returned by the server.
func (m *Reply) Iter() *ReplyIter {
	return &ReplyIter{documentsBytes: m.DocumentsBytes}
}

// ReplyIter iterates over the documents returned
// in a Reply.
type ReplyIter struct {
	documentsBytes []byte
	pos            int

	err error
}

// One reads a single document from the iterator.
func (i *ReplyIter) One(result interface{}) (bool, error) {
	if !i.Next(result) {
		return false, i.err
	}

	return true, nil
}

// Next unmarshals the next document into the provided result and returns
// a value indicating whether or not it was successful.
func (i *ReplyIter) Next(result interface{}) bool {
	b, err := i.NextBytes()
	if err != nil || b == nil {
		return false
	}

	if err := bson.Unmarshal(b, result); err != nil {
		i.err = err
		return false
	}

	return true
}

// NextBytes returns the raw bytes of the next document without
// unmarshalling it. A nil slice with a nil error indicates the
// iterator is exhausted.
func (i *ReplyIter) NextBytes() ([]byte, error) {
	if i.pos >= len(i.documentsBytes) {
		return nil, nil
	}

	if len(i.documentsBytes)-i.pos < 4 {
		i.err = fmt.Errorf("malformed document: need at least 4 bytes, but only had %d", len(i.documentsBytes)-i.pos)
		return nil, i.err
	}

	n := int(int32(i.documentsBytes[i.pos]) |
		int32(i.documentsBytes[i.pos+1])<<8 |
		int32(i.documentsBytes[i.pos+2])<<16 |
		int32(i.documentsBytes[i.pos+3])<<24)

	if len(i.documentsBytes)-i.pos < n {
		i.err = fmt.Errorf("needed %d bytes to read document, but only had %d", n, len(i.documentsBytes)-i.pos)
		return nil, i.err
	}

	b := i.documentsBytes[i.pos : i.pos+n]
	i.pos += n
	return b, nil
}

// Err indicates if there was an error unmarshalling the last document
// attempted.
func (i *ReplyIter) Err() error {
	return i.err
}
