package dto

// StatusResponse is the envelope for mutating operations: the
// (success, message) pair every client action is built around.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DataResponse is the envelope for query operations: (success, message, data).
type DataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func OK(message string) StatusResponse {
	return StatusResponse{Success: true, Message: message}
}

func OKData(message string, data any) DataResponse {
	return DataResponse{Success: true, Message: message, Data: data}
}
