// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package msg

// NewCommand creates a new RequestMessage to be sent as a command. The
// secondaryOK flag is the protocol-level routing marker allowing the
// command to run on a non-primary member; it is carried on the request,
// not inside the command document.
func NewCommand(requestID int32, dbName string, secondaryOK bool, cmd interface{}) Request {
	flags := QueryFlags(0)
	if secondaryOK {
		flags |= SlaveOK
	}

	return &Query{
		ReqID:              requestID,
		Flags:              flags,
		FullCollectionName: dbName + ".$cmd",
		NumberToReturn:     -1,
		Query:              cmd,
	}
}
