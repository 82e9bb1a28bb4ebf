package readpref

import (
	"strings"

	"gopkg.in/mgo.v2/bson"
)

// Classifier decides whether a single command is safe to execute
// against a non-primary member. Not every command that looks like a
// read is side-effect free on every server version, so the decision
// is pluggable rather than a fixed table.
type Classifier interface {
	// CanRunOnSecondary reports whether the command with the given
	// name and body may be routed to a secondary.
	CanRunOnSecondary(name string, cmd bson.D) bool
}

// ClassifierFunc adapts a function into a Classifier.
type ClassifierFunc func(name string, cmd bson.D) bool

// CanRunOnSecondary implements Classifier.
func (f ClassifierFunc) CanRunOnSecondary(name string, cmd bson.D) bool {
	return f(name, cmd)
}

// commands that may be routed to a secondary, provided their body
// does not redirect output elsewhere.
var secondaryOKCommands = map[string]bool{
	"aggregate":              true,
	"collstats":              true,
	"count":                  true,
	"dbstats":                true,
	"distinct":               true,
	"find":                   true,
	"geonear":                true,
	"geosearch":              true,
	"group":                  true,
	"mapreduce":              true,
	"parallelcollectionscan": true,
	"text":                   true,
}

// DefaultClassifier classifies the well-known read-only commands as
// safe for secondaries. An aggregate whose pipeline ends in $out and
// a mapReduce with a non-inline out clause both write to a collection
// and are classified as primary-only.
var DefaultClassifier Classifier = ClassifierFunc(defaultCanRunOnSecondary)

func defaultCanRunOnSecondary(name string, cmd bson.D) bool {
	name = strings.ToLower(name)
	if !secondaryOKCommands[name] {
		return false
	}

	switch name {
	case "aggregate":
		return !aggregateWritesOutput(cmd)
	case "mapreduce":
		return mapReduceIsInline(cmd)
	}

	return true
}

func aggregateWritesOutput(cmd bson.D) bool {
	for _, elem := range cmd {
		if elem.Name != "pipeline" {
			continue
		}

		stages, ok := elem.Value.([]interface{})
		if !ok {
			return false
		}
		for _, stage := range stages {
			if stageName(stage) == "$out" {
				return true
			}
		}
	}

	return false
}

func mapReduceIsInline(cmd bson.D) bool {
	for _, elem := range cmd {
		if elem.Name != "out" {
			continue
		}

		out, ok := elem.Value.(bson.D)
		if !ok {
			if m, ok := elem.Value.(bson.M); ok {
				_, inline := m["inline"]
				return inline
			}
			return false
		}
		for _, outElem := range out {
			if outElem.Name == "inline" {
				return true
			}
		}
		return false
	}

	return false
}

func stageName(stage interface{}) string {
	switch s := stage.(type) {
	case bson.D:
		if len(s) > 0 {
			return s[0].Name
		}
	case bson.M:
		for name := range s {
			return name
		}
	}

	return ""
}
