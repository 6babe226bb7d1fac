// internal/models/envelope.go
package models

// Response is the uniform envelope every store operation resolves to, success
// or failure. Failure is signaled by Success=false with Data left at a safe
// zero value; store operations never return Go errors to callers.
type Response[T any] struct {
	Data    T      `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK wraps data in a success envelope.
func OK[T any](data T) Response[T] {
	return Response[T]{Data: data, Success: true}
}

// OKWithMessage wraps data in a success envelope with a message.
func OKWithMessage[T any](data T, message string) Response[T] {
	return Response[T]{Data: data, Success: true, Message: message}
}

// Fail builds a failure envelope with the zero value for Data.
func Fail[T any](message string) Response[T] {
	var zero T
	return Response[T]{Data: zero, Success: false, Message: message}
}
