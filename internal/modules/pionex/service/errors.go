package service

import "fmt"

// APIError — транспорт прошёл (HTTP 200), но биржа вернула ненулевой код.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pionex api error: code=%d msg=%s", e.Code, e.Msg)
}

// HTTPError — не-2xx статус. Retryable выставлен для 5xx и 429.
type HTTPError struct {
	Status    int
	Body      string
	Retryable bool
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}
