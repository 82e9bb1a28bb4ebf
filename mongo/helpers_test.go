package mongo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/mgo.v2/bson"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/internal/conntest"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/model"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/conn"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/msg"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/ops"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/readpref"
)

// testCluster lends a single mock server and records the read
// preference each selection asked for.
type testCluster struct {
	server   *conntest.MockServer
	kind     model.ClusterKind
	selected []*readpref.ReadPref
}

func (c *testCluster) SelectServer(_ context.Context, rp *readpref.ReadPref) (ops.Server, error) {
	c.selected = append(c.selected, rp)
	return c.server, nil
}

func (c *testCluster) Kind() model.ClusterKind {
	if c.kind == 0 {
		return model.ReplicaSetWithPrimary
	}
	return c.kind
}

func newTestCollection(t *testing.T, opts []mongo.CollectionOption, replies ...*msg.Reply) (*mongo.Collection, *testCluster, *conntest.MockConnection) {
	t.Helper()

	connection := &conntest.MockConnection{ResponseQ: replies}
	cluster := &testCluster{
		server: &conntest.MockServer{
			Kind:    model.RSPrimary,
			Factory: func() conn.Connection { return connection },
		},
	}

	coll, err := mongo.NewCollection(cluster, "testdb", "things", opts...)
	require.NoError(t, err)

	return coll, cluster, connection
}

// sentCommand returns the i-th command document written to the
// connection, unwrapping any $query envelope.
func sentCommand(t *testing.T, c *conntest.MockConnection, i int) bson.D {
	t.Helper()

	require.True(t, len(c.Sent) > i, "expected at least %d sent requests, have %d", i+1, len(c.Sent))
	query, ok := c.Sent[i].(*msg.Query)
	require.True(t, ok)

	cmd, ok := query.Query.(bson.D)
	require.True(t, ok)

	if len(cmd) > 0 && cmd[0].Name == "$query" {
		inner, ok := cmd[0].Value.(bson.D)
		require.True(t, ok)
		return inner
	}

	return cmd
}

func commandElem(t *testing.T, cmd bson.D, name string) interface{} {
	t.Helper()

	for _, elem := range cmd {
		if elem.Name == name {
			return elem.Value
		}
	}

	t.Fatalf("expected command to contain %q: %v", name, cmd)
	return nil
}

// requireNoDispatch asserts the operation never reached the cluster.
func requireNoDispatch(t *testing.T, cluster *testCluster) {
	t.Helper()

	require.Empty(t, cluster.selected)
	require.Equal(t, 0, cluster.server.Acquired)
}
