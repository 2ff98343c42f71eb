package domain

import (
	"errors"
	"net/http"
)

// Kind clasifica los fallos de dominio. Es una taxonomía cerrada: la frontera HTTP
// traduce cada Kind a un código estable y a un status.
type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
)

// Code devuelve el código legible por máquina del Kind.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "server_error"
	}
}

// Status devuelve el status HTTP por defecto del Kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message devuelve el mensaje público por defecto del Kind (sin detalle interno).
func (k Kind) Message() string {
	switch k {
	case KindValidation:
		return "los datos enviados contienen errores"
	case KindUnauthorized:
		return "no autorizado"
	case KindForbidden:
		return "no tiene permiso para realizar esta operación"
	case KindNotFound:
		return "recurso no encontrado"
	default:
		return "error interno del servidor"
	}
}

// Error es un fallo de dominio ya clasificado.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Message()
}

// Is permite errors.Is(err, domain.ErrValidation) para cualquier error del mismo Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Errores de dominio clasificados.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrServer       = &Error{Kind: KindServer}
)

// Errores de almacenamiento (no clasificados: el caso de uso decide cómo traducirlos).
var (
	ErrDuplicate = errors.New("recurso duplicado")
)

// NewValidation construye un error de validación con mensaje propio.
func NewValidation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewNotFound construye un error not_found con mensaje propio.
func NewNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// KindOf devuelve el Kind de err. Cualquier error no clasificado es KindServer.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServer
}

// IsClassified indica si err (o alguno de sus envoltorios) ya es un *Error de dominio.
func IsClassified(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr)
}
