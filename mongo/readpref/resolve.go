package readpref

import (
	"gopkg.in/mgo.v2/bson"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/model"
)

// Resolve returns the read preference a command must be dispatched
// with. A preference that already requires the primary is returned
// unchanged. Otherwise, on replicated deployments, the classifier is
// consulted and commands it does not recognize as secondary-safe are
// downgraded to primary.
func Resolve(rp *ReadPref, name string, cmd bson.D, kind model.ClusterKind, classifier Classifier) *ReadPref {
	if rp == nil || rp.Mode() == PrimaryMode {
		return Primary()
	}

	if !kind.IsReplicaSet() {
		return rp
	}

	if classifier == nil {
		classifier = DefaultClassifier
	}

	if !classifier.CanRunOnSecondary(name, cmd) {
		return Primary()
	}

	return rp
}
