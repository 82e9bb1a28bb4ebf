// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package event

import (
	"context"

	"go.uber.org/zap"
)

// NewLogMonitor returns a CommandMonitor that logs every command
// round trip to the given logger at debug level.
func NewLogMonitor(logger *zap.Logger) *CommandMonitor {
	return &CommandMonitor{
		Started: func(_ context.Context, e *CommandStartedEvent) {
			logger.Debug("command started",
				zap.String("command", e.CommandName),
				zap.String("database", e.DatabaseName),
				zap.Int32("requestID", e.RequestID),
				zap.String("connectionID", e.ConnectionID),
			)
		},
		Succeeded: func(_ context.Context, e *CommandSucceededEvent) {
			logger.Debug("command succeeded",
				zap.String("command", e.CommandName),
				zap.Int32("requestID", e.RequestID),
				zap.String("connectionID", e.ConnectionID),
				zap.Duration("duration", e.Duration),
			)
		},
		Failed: func(_ context.Context, e *CommandFailedEvent) {
			logger.Warn("command failed",
				zap.String("command", e.CommandName),
				zap.Int32("requestID", e.RequestID),
				zap.String("connectionID", e.ConnectionID),
				zap.Duration("duration", e.Duration),
				zap.String("failure", e.Failure),
			)
		},
	}
}
