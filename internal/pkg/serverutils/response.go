package serverutils

type ErrorResponseBody struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type SuccessResponseBody[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func ErrorResponse(code int, message string) ErrorResponseBody {
	return ErrorResponseBody{Success: false, Code: code, Message: message}
}

func SuccessResponse[T any](message string, data T) SuccessResponseBody[T] {
	return SuccessResponseBody[T]{Success: true, Code: 200, Message: message, Data: data}
}
