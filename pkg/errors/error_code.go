package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110
	ErrCodeInvalidWalkForward   ErrorCode = 120

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound         ErrorCode = 200
	ErrCodeQueryFailed          ErrorCode = 202
	ErrCodeDataFileOpen         ErrorCode = 206
	ErrCodeSchemaUnrecognized   ErrorCode = 207
	ErrCodeTimestampUnparsable  ErrorCode = 208
	ErrCodeMalformedNumericData ErrorCode = 209

	// Trading errors (500-599)
	ErrCodeTradeAlreadyOpen ErrorCode = 503

	// Backtest errors (600-699)
	ErrCodeBacktestInitFailed  ErrorCode = 601
	ErrCodeBacktestConfigError ErrorCode = 602
	ErrCodeBacktestNoSymbols   ErrorCode = 609
	ErrCodeBacktestWriteFailed ErrorCode = 610

	// Callback errors (800-899)
	ErrCodeCallbackFailed ErrorCode = 800
)
