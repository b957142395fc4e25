package domain

// ErrorResponse es el cuerpo de error de la API de administración
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	ErrorCode  string `json:"errorCode"`
}

func (e *ErrorResponse) IsTokenExpired() bool {
	return e.StatusCode == 401 || e.ErrorCode == "invalid_token"
}
