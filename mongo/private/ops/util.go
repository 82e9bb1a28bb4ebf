// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package ops

import (
	"gopkg.in/mgo.v2/bson"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/model"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/readpref"
)

func commandName(command bson.D) string {
	if len(command) == 0 {
		return ""
	}
	return command[0].Name
}

// directConnectionToSecondary indicates the protocol flag needed when
// directly connected to a single server: a lone member may be a
// secondary, so the flag is always set unless talking to a mongos.
func directConnectionToSecondary(s *SelectedServer) bool {
	return s.ClusterKind == model.Single && s.Model().Kind != model.Mongos
}

func secondaryOK(s *SelectedServer, rp *readpref.ReadPref) bool {
	if directConnectionToSecondary(s) {
		return true
	}

	if rp == nil {
		// assume primary
		return false
	}

	return rp.Mode() != readpref.PrimaryMode
}

func readPrefMeta(rp *readpref.ReadPref, kind model.ServerKind) interface{} {
	if kind != model.Mongos || rp == nil {
		return nil
	}

	// simple Primary or SecondaryPreferred is communicated via the
	// secondary-ok flag to mongos.
	if rp.Mode() == readpref.PrimaryMode || rp.Mode() == readpref.SecondaryPreferredMode {
		if _, ok := rp.MaxStaleness(); !ok && len(rp.TagSets()) == 0 {
			return nil
		}
	}

	var doc struct {
		Mode                string   `bson:"mode,omitempty"`
		Tags                []bson.D `bson:"tags,omitempty"`
		MaxStalenessSeconds uint32   `bson:"maxStalenessSeconds,omitempty"`
	}

	switch rp.Mode() {
	case readpref.PrimaryMode:
		doc.Mode = "primary"
	case readpref.PrimaryPreferredMode:
		doc.Mode = "primaryPreferred"
	case readpref.SecondaryPreferredMode:
		doc.Mode = "secondaryPreferred"
	case readpref.SecondaryMode:
		doc.Mode = "secondary"
	case readpref.NearestMode:
		doc.Mode = "nearest"
	}

	for _, ts := range rp.TagSets() {
		set := bson.D{}
		for _, t := range ts {
			set = append(set, bson.DocElem{Name: t.Name, Value: t.Value})
		}
		if len(set) > 0 {
			doc.Tags = append(doc.Tags, set)
		}
	}

	if d, ok := rp.MaxStaleness(); ok {
		doc.MaxStalenessSeconds = uint32(d.Seconds())
	}

	return doc
}
