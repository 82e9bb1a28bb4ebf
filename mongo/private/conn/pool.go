// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package conn

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Dialer opens a new connection.
type Dialer func(context.Context) (Connection, error)

// NewCappedProvider returns a Provider that caps the number of
// simultaneously leased connections at max and recycles idle ones.
// Acquisition blocks until a lease is free or the context is done.
func NewCappedProvider(max int64, dial Dialer) Provider {
	return &cappedProvider{
		sem:  semaphore.NewWeighted(max),
		dial: dial,
	}
}

type cappedProvider struct {
	sem  *semaphore.Weighted
	dial Dialer

	mu   sync.Mutex
	idle []Connection
}

func (p *cappedProvider) Connection(ctx context.Context) (Connection, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	c := p.popIdle()
	if c == nil {
		var err error
		c, err = p.dial(ctx)
		if err != nil {
			p.sem.Release(1)
			return nil, err
		}
	}

	return &leasedConn{Connection: c, provider: p}, nil
}

func (p *cappedProvider) popIdle() Connection {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.idle) > 0 {
		c := p.idle[len(p.idle)-1]
		p.idle = p.idle[:len(p.idle)-1]
		if c.Alive() {
			return c
		}
		_ = c.Close()
	}

	return nil
}

func (p *cappedProvider) release(c Connection) {
	p.mu.Lock()
	if c.Alive() {
		p.idle = append(p.idle, c)
		c = nil
	}
	p.mu.Unlock()

	if c != nil {
		_ = c.Close()
	}
	p.sem.Release(1)
}

// leasedConn returns itself to the provider on first Close; later
// Closes are no-ops so a lease can never be released twice.
type leasedConn struct {
	Connection
	provider *cappedProvider

	mu     sync.Mutex
	closed bool
}

func (c *leasedConn) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	return c.Connection.Alive()
}

func (c *leasedConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.provider.release(c.Connection)
	return nil
}
