/*
Package log provides structured logging for the engine using zerolog.

The log package wraps zerolog to provide JSON-structured logging with
chain/element/event context loggers, configurable log levels, and helper
functions for common logging patterns. All logs include timestamps and
support filtering by severity level for production debugging.

# Core Components

Global Logger:
  - Package-level zerolog.Logger instance
  - Initialized once via log.Init()
  - Accessible from all packages in this module
  - Thread-safe concurrent writes

Log Levels:
  - Debug: Detailed debugging information
  - Info: General informational messages
  - Warn: Warning messages (potential issues)
  - Error: Error messages (operation failed)
  - Fatal: Critical errors (process exits)

Configuration:
  - Level: Filter messages below threshold
  - JSONOutput: JSON vs human-readable console
  - Output: io.Writer for log destination (stdout, file)

Context Loggers:
  - WithComponent: Add component name to all logs
  - WithChain: Add chain name context
  - WithElement: Add element name context
  - WithEvent: Add event id context

# Usage

Initializing the Logger:

	import "github.com/cuemby/chainflow/pkg/log"

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Simple Logging:

	log.Info("engine started")
	log.Debug("dispatching timer event")
	log.Warn("queue approaching capacity")
	log.Error("chain element panicked")

Context Loggers:

	chainLog := log.WithChain("ignition-sequence")
	chainLog.Info().Msg("chain enabled")

	elLog := log.WithElement("watchdog-main")
	elLog.Debug().Str("state", "ON").Msg("watchdog armed")

# Best Practices

Do:
  - Use Info level for production
  - Use structured fields for queryable data
  - Create chain/element-specific loggers inside operator callbacks
  - Log errors with .Err() for stack traces

Don't:
  - Log sensitive data
  - Use Debug level in production
  - Log on every CF_TIMER_EVENT tick (use sampling or second/minute events)
*/
package log
