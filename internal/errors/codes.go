package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrUnavailable     ErrorCode = "service_unavailable"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidMode     ErrorCode = "invalid_mode"
	ErrInvalidFormat   ErrorCode = "invalid_format"
	ErrInvalidTimezone ErrorCode = "invalid_timezone"

	// Logging errors
	ErrInitLogger ErrorCode = "init_logger_failed"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Data source errors
	ErrConnect ErrorCode = "connect_failed"
	ErrQuery   ErrorCode = "query_failed"

	// Presenter errors
	ErrPresenter   ErrorCode = "presenter_failed"
	ErrNotTerminal ErrorCode = "not_a_terminal"
	ErrWriteOutput ErrorCode = "write_output_failed"
)

var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrUnavailable:     "Service unavailable",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrInvalidConfig:   "Invalid configuration",
	ErrReadConfig:      "Failed to read configuration",
	ErrInvalidInterval: "Invalid interval value",
	ErrInvalidMode:     "Invalid monitoring mode",
	ErrInvalidFormat:   "Invalid output format",
	ErrInvalidTimezone: "Invalid timezone",
	ErrInitLogger:      "Failed to initialize logger",
	ErrInitFailed:      "Initialization failed",
	ErrShutdownFailed:  "Shutdown failed",
	ErrConnect:         "Failed to connect to MySQL",
	ErrQuery:           "Query failed",
	ErrPresenter:       "Presenter failed",
	ErrNotTerminal:     "Interactive mode requires a terminal",
	ErrWriteOutput:     "Failed to write output",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
