package conntest

import (
	"context"

	"github.com/rjsvaljean/mongo-csharp-driver/mongo/model"
	"github.com/rjsvaljean/mongo-csharp-driver/mongo/private/conn"
)

// MockServer lends out connections and counts lease churn so tests
// can assert every acquired connection was returned.
type MockServer struct {
	Kind    model.ServerKind
	ConnErr error

	// Factory builds the next leased connection. When nil a fresh
	// MockConnection is used.
	Factory func() conn.Connection

	Acquired int
	Released int
}

func (s *MockServer) Connection(_ context.Context) (conn.Connection, error) {
	if s.ConnErr != nil {
		return nil, s.ConnErr
	}

	var c conn.Connection
	if s.Factory != nil {
		c = s.Factory()
	} else {
		c = &MockConnection{}
	}

	s.Acquired++
	return &countingConn{Connection: c, server: s}, nil
}

func (s *MockServer) Model() *model.Server {
	return &model.Server{
		Addr: model.Addr("localhost:27017"),
		Kind: s.Kind,
	}
}

type countingConn struct {
	conn.Connection
	server *MockServer
}

func (c *countingConn) Close() error {
	c.server.Released++
	return c.Connection.Close()
}
