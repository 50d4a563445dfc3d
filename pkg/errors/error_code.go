package errors

// ErrorCode identifies a failure kind. The hundreds digit selects the category.
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = 1

	// validation: bad input or configuration
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110

	// data: stores and local market data files
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeStoreUnavailable      ErrorCode = 203

	// strategy: registry, params and persisted state
	ErrCodeStrategyConfigError       ErrorCode = 401
	ErrCodeUnknownStrategy           ErrorCode = 403
	ErrCodeVersionMismatch           ErrorCode = 404
	ErrCodeStrategyAlreadyRegistered ErrorCode = 405
	ErrCodeStateDecodeFailed         ErrorCode = 406
	ErrCodeDuplicateStrategyName     ErrorCode = 407

	// market data: collectors
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeCollectorFailed       ErrorCode = 705

	// callback: event bus handlers
	ErrCodeHandlerFailed ErrorCode = 800
)

// Category names the range a code belongs to.
func (c ErrorCode) Category() string {
	switch c / 100 {
	case 0:
		return "general"
	case 1:
		return "validation"
	case 2:
		return "data"
	case 4:
		return "strategy"
	case 7:
		return "market_data"
	case 8:
		return "callback"
	default:
		return "unknown"
	}
}
