// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package writeconcern

import (
	"errors"
	"time"

	"gopkg.in/mgo.v2/bson"
)

// ErrInconsistent indicates that an inconsistent write concern was specified.
var ErrInconsistent = errors.New("a write concern cannot have both w=0 and j=true")

// ErrNegativeW indicates that a negative integer `w` field was specified.
var ErrNegativeW = errors.New("write concern `w` field cannot be a negative number")

// ErrNegativeWTimeout indicates that a negative WTimeout was specified.
var ErrNegativeWTimeout = errors.New("write concern `wtimeout` field cannot be negative")

// WriteConcern describes the level of acknowledgement requested for a
// write operation: unacknowledged (w=0), acknowledged by one member,
// or acknowledged after replication to several members.
type WriteConcern struct {
	w        interface{}
	j        bool
	wTimeout time.Duration
}

// Option is an option to provide when creating a WriteConcern.
type Option func(concern *WriteConcern)

// New constructs a new WriteConcern.
func New(options ...Option) *WriteConcern {
	concern := &WriteConcern{}

	for _, option := range options {
		option(concern)
	}

	return concern
}

// Default returns the process-wide default: an acknowledged write
// concern with no replication requirement.
func Default() *WriteConcern {
	return New(W(1))
}

// Unacknowledged returns a write concern that requests no
// acknowledgement of the write.
func Unacknowledged() *WriteConcern {
	return New(W(0))
}

// Majority returns a write concern acknowledged after the write
// propagates to the majority of members.
func Majority() *WriteConcern {
	return New(WMajority())
}

// W requests acknowledgement that write operations propagate to the specified number of
// instances.
func W(w int) Option {
	return func(concern *WriteConcern) {
		concern.w = w
	}
}

// WMajority requests acknowledgement that write operations propagate to the majority of
// instances.
func WMajority() Option {
	return func(concern *WriteConcern) {
		concern.w = "majority"
	}
}

// WTagSet requests acknowledgement that write operations propagate to the tagged
// instances.
func WTagSet(tag string) Option {
	return func(concern *WriteConcern) {
		concern.w = tag
	}
}

// J requests acknowledgement that write operations are written to the journal.
func J(j bool) Option {
	return func(concern *WriteConcern) {
		concern.j = j
	}
}

// WTimeout specifies a time limit for satisfying the write concern.
func WTimeout(d time.Duration) Option {
	return func(concern *WriteConcern) {
		concern.wTimeout = d
	}
}

// Acknowledged indicates whether a write result is expected back from
// the server for writes using this concern.
func (wc *WriteConcern) Acknowledged() bool {
	if wc == nil {
		return true
	}
	if w, ok := wc.w.(int); ok && w == 0 && !wc.j {
		return false
	}

	return true
}

// IsValid checks whether the write concern is invalid.
func (wc *WriteConcern) IsValid() bool {
	if !wc.j {
		return true
	}

	if w, ok := wc.w.(int); ok && w == 0 {
		return false
	}

	return true
}

// GetBSON marshals the write concern into the command document form,
// satisfying the bson.Getter interface.
func (wc *WriteConcern) GetBSON() (interface{}, error) {
	if !wc.IsValid() {
		return nil, ErrInconsistent
	}

	doc := bson.D{}

	if wc.w != nil {
		switch t := wc.w.(type) {
		case int:
			if t < 0 {
				return nil, ErrNegativeW
			}
			doc = append(doc, bson.DocElem{Name: "w", Value: t})
		case string:
			doc = append(doc, bson.DocElem{Name: "w", Value: t})
		}
	}

	if wc.j {
		doc = append(doc, bson.DocElem{Name: "j", Value: wc.j})
	}

	if wc.wTimeout < 0 {
		return nil, ErrNegativeWTimeout
	}

	if wc.wTimeout != 0 {
		doc = append(doc, bson.DocElem{Name: "wtimeout", Value: int64(wc.wTimeout / time.Millisecond)})
	}

	return doc, nil
}
