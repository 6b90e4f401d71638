package types

// Code is a machine-readable outcome code carried by every Result. The handler
// layer maps codes to HTTP statuses; the core only produces them.
type Code string

// The closed set of result codes.
const (
	CodeSuccess               Code = "SUCCESS"
	CodeHallucinationDetected Code = "FVS_HALLUCINATION_DETECTED"
	CodeValidationFailed      Code = "FVS_VALIDATION_FAILED"
	CodeDateMismatch          Code = "FVS_DATE_MISMATCH"
	CodeRoleMismatch          Code = "FVS_ROLE_MISMATCH"
	CodeInternalError         Code = "INTERNAL_ERROR"
	CodeNotFound              Code = "NOT_FOUND"
	CodeValidationError       Code = "VALIDATION_ERROR"
)

// IsRejection reports whether the code is a fact-verification rejection
// (any FVS_* code), as opposed to success or an execution failure.
func (c Code) IsRejection() bool {
	switch c {
	case CodeHallucinationDetected, CodeValidationFailed, CodeDateMismatch, CodeRoleMismatch:
		return true
	default:
		return false
	}
}

// Result is the generic envelope returned by validation and generation entry
// points. Success reflects whether the operation executed, not whether the
// document passed: a result can be successful and still carry warning
// violations in its data.
type Result[T any] struct {
	Success bool   `json:"success"`
	Code    Code   `json:"code"`
	Error   string `json:"error,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// Ok builds a successful result with the given data.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Code: CodeSuccess, Data: data}
}

// Fail builds a failed result with a code and human-readable error message.
func Fail[T any](code Code, msg string) Result[T] {
	return Result[T]{Success: false, Code: code, Error: msg}
}

// FailWithData builds a failed result that still carries data, used when a
// rejection wants to expose the validation detail alongside the code.
func FailWithData[T any](code Code, msg string, data T) Result[T] {
	return Result[T]{Success: false, Code: code, Error: msg, Data: data}
}
