package models

// APIResponse envelope of every JSON endpoint except the two spreadsheet
// endpoints, which keep their bare shapes.
type APIResponse struct {
	Status  string      `json:"status"` // success, error
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{Status: "success", Message: message, Data: data}
}

// ErrorResponse carries err's text in the error field when err is non-nil.
func ErrorResponse(message string, err error) APIResponse {
	resp := APIResponse{Status: "error", Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// SessionRequest technician sign-in body
type SessionRequest struct {
	Technician string `json:"technician"`
	Passcode   string `json:"passcode"`
}

// SessionResponse issued bearer token
type SessionResponse struct {
	Token      string `json:"token"`
	Technician string `json:"technician"`
	ExpiresAt  int64  `json:"expires_at"`
}

// ExportLink presigned log download
type ExportLink struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}
