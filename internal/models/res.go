package models

type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Field   string      `json:"field,omitempty"`
}

func SuccessResponse(data interface{}, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func ErrorResponse(err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
	}
}

// ValidationResponse carries the inline message plus the machine-readable kind,
// and optionally the current screen state so the client can re-render.
func ValidationResponse(message, code, field string, data interface{}) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   message,
		Code:    code,
		Field:   field,
		Data:    data,
	}
}
