package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Config errors (100-199)
	ErrCodeInvalidConfiguration  ErrorCode = 100
	ErrCodeInvalidDateRange      ErrorCode = 101
	ErrCodeInvalidInitialCapital ErrorCode = 102
	ErrCodeInvalidSlippage       ErrorCode = 103
	ErrCodeInvalidCommission     ErrorCode = 104
	ErrCodeMissingSymbols        ErrorCode = 105
	ErrCodeSchemaVersionMismatch ErrorCode = 106
	ErrCodeMalformedConfig       ErrorCode = 107
	ErrCodeInvalidRiskFreeRate   ErrorCode = 108

	// Data errors (200-299)
	ErrCodeInvalidData        ErrorCode = 200
	ErrCodeEmptySeries        ErrorCode = 201
	ErrCodeNonMonotonicSeries ErrorCode = 202
	ErrCodeNonPositivePrice   ErrorCode = 203
	ErrCodeDataLoadFailed     ErrorCode = 204
	ErrCodeDataQueryFailed    ErrorCode = 205

	// Strategy errors (300-399)
	ErrCodeStrategyNotFound     ErrorCode = 300
	ErrCodeStrategyInitFailed   ErrorCode = 301
	ErrCodeStrategyDecideFailed ErrorCode = 302
	ErrCodeInvalidSignal        ErrorCode = 303

	// Engine errors (400-499)
	ErrCodeEngineNotReady    ErrorCode = 400
	ErrCodeInvariantViolated ErrorCode = 401

	// Report errors (500-599)
	ErrCodeReportWriteFailed ErrorCode = 500
	ErrCodeReportReadFailed  ErrorCode = 501
)
