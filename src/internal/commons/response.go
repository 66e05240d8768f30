package commons

// ValidationMessage is the envelope message for rejected input.
const ValidationMessage = "validation failed"

// Response is the JSON envelope every endpoint returns. Data is set on
// success; Errors lists caller-facing problems on failure.
type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{Success: true, Message: message, Data: &data}
}

func ErrorResponse[T any](message string, problems ...string) Response[T] {
	return Response[T]{Message: message, Errors: problems}
}

func ValidationFailed[T any](problems ...string) Response[T] {
	return ErrorResponse[T](ValidationMessage, problems...)
}
