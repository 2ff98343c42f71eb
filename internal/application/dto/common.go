package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"` // errores por campo del validador
}

// SuccessResponse respuesta mínima para operaciones sin payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
