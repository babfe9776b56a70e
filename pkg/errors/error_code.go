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
	ErrCodeInvalidMultiplier    ErrorCode = 111
	ErrCodeInvalidWindow        ErrorCode = 113
	ErrCodeInvalidCrossover     ErrorCode = 114
	ErrCodeInvalidTimezone      ErrorCode = 115
	ErrCodeInvalidInstrumentSet ErrorCode = 116

	// Input errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeEmptySeries           ErrorCode = 201
	ErrCodeInvalidBar            ErrorCode = 202
	ErrCodeNonMonotonicTime      ErrorCode = 203
	ErrCodeMisalignedSeries      ErrorCode = 204
	ErrCodeMissingInstrument     ErrorCode = 205
	ErrCodeQueryFailed           ErrorCode = 206
	ErrCodeDataSourceUnavailable ErrorCode = 207

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeUnknownIndicator       ErrorCode = 302

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidInterval       ErrorCode = 703
	ErrCodeInvalidProvider       ErrorCode = 704

	// Output errors (800-899)
	ErrCodeOutputWriteFailed ErrorCode = 800
)
