package statement

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

/*
Envelope is the response wrapper used by the analysis backend and by this
service's own JSON endpoints: {"status": "success"|"error", "message", "data"}.
*/
type Envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

func (e Envelope[T]) Succeeded() bool {
	return e.Status == StatusSuccess
}

func Success[T any](message string, data T) Envelope[T] {
	return Envelope[T]{Status: StatusSuccess, Message: message, Data: data}
}

func Failure(message string) Envelope[any] {
	return Envelope[any]{Status: StatusError, Message: message}
}
