// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package event

import (
	"context"
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// NewMetricsMonitor returns a CommandMonitor that counts command round
// trips in the default metrics set, labeled by command name and status.
func NewMetricsMonitor() *CommandMonitor {
	counter := func(command, status string) *metrics.Counter {
		return metrics.GetOrCreateCounter(
			fmt.Sprintf(`mongo_commands_total{command=%q,status=%q}`, command, status))
	}

	return &CommandMonitor{
		Started: func(_ context.Context, e *CommandStartedEvent) {
			counter(e.CommandName, "started").Inc()
		},
		Succeeded: func(_ context.Context, e *CommandSucceededEvent) {
			counter(e.CommandName, "succeeded").Inc()
		},
		Failed: func(_ context.Context, e *CommandFailedEvent) {
			counter(e.CommandName, "failed").Inc()
		},
	}
}

// MergeMonitors fans events out to each non-nil monitor in order.
func MergeMonitors(monitors ...*CommandMonitor) *CommandMonitor {
	merged := &CommandMonitor{
		Started: func(ctx context.Context, e *CommandStartedEvent) {
			for _, m := range monitors {
				if m != nil && m.Started != nil {
					m.Started(ctx, e)
				}
			}
		},
		Succeeded: func(ctx context.Context, e *CommandSucceededEvent) {
			for _, m := range monitors {
				if m != nil && m.Succeeded != nil {
					m.Succeeded(ctx, e)
				}
			}
		},
		Failed: func(ctx context.Context, e *CommandFailedEvent) {
			for _, m := range monitors {
				if m != nil && m.Failed != nil {
					m.Failed(ctx, e)
				}
			}
		},
	}

	return merged
}
