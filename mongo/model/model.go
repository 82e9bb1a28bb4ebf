// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package model

// Addr is the canonical address of a server.
type Addr string

// String returns the address as a string.
func (a Addr) String() string {
	return string(a)
}

// Server is a description of a server.
type Server struct {
	Addr Addr
	Kind ServerKind
}

// Conn is a description of a connection.
type Conn struct {
	// ID is the identifier of the connection, unique within the
	// process that dialed it.
	ID   string
	Addr Addr
	Kind ServerKind
}

// Tag is a name/value pair.
type Tag struct {
	Name  string
	Value string
}

// TagSet is an ordered list of Tags.
type TagSet []Tag

// Contains indicates whether the name/value pair exists in the tagset.
func (ts TagSet) Contains(name, value string) bool {
	for _, t := range ts {
		if t.Name == name && t.Value == value {
			return true
		}
	}

	return false
}
