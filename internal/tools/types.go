package tools

// Status reports whether a tool call did what the model asked.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Error codes returned in ToolError.Code. The model uses these to decide
// whether to retry, correct its arguments, or tell the user.
const (
	ErrCodeValidation  = "InvalidArguments"
	ErrCodeNotFound    = "NotFound"
	ErrCodeUnavailable = "ServiceUnavailable"
	ErrCodeInternal    = "Internal"
)

// ToolError is a structured error for model consumption. Business failures
// (bad filter, unknown ID, expired OTP) are returned here with StatusError
// rather than as Go errors, so the model can read them and correct course.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e == nil {
		return "<nil ToolError>"
	}
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// Result is the uniform envelope every tool returns.
type Result struct {
	Status Status     `json:"status"`
	Data   any        `json:"data,omitempty"`
	Error  *ToolError `json:"error,omitempty"`
}

func success(data any) Result {
	return Result{Status: StatusSuccess, Data: data}
}

func failure(code, message string) Result {
	return Result{Status: StatusError, Error: &ToolError{Code: code, Message: message}}
}
