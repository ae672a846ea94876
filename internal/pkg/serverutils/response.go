package serverutils

type Response[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type ErrorBody struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) ErrorBody {
	return ErrorBody{
		Success: false,
		Code:    code,
		Message: message,
	}
}
