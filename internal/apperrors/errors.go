package apperrors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Kind clasifica un fallo de dominio. Cada operación retorna un *Error
// tipado en vez de lanzar, para que los handlers mapeen a una respuesta.
type Kind string

const (
	KindValidation        Kind = "VALIDATION_ERROR"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindForbidden         Kind = "FORBIDDEN"
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindInternal          Kind = "INTERNAL_ERROR"
)

var statusByKind = map[Kind]int{
	KindValidation:        http.StatusBadRequest,
	KindUnauthorized:      http.StatusUnauthorized,
	KindForbidden:         http.StatusForbidden,
	KindNotFound:          http.StatusNotFound,
	KindConflict:          http.StatusConflict,
	KindInsufficientStock: http.StatusUnprocessableEntity,
	KindInternal:          http.StatusInternalServerError,
}

// Error fallo tipado con mensaje legible. Fields lleva los nombres de
// campos ofensivos en errores de validación.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
	cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// HTTPStatus retorna el status HTTP correspondiente al Kind.
func (e *Error) HTTPStatus() int {
	if e == nil {
		return http.StatusInternalServerError
	}
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Validation error de campo requerido/malformado.
func Validation(message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Unauthorized credenciales inválidas o actor no identificado.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden el actor no tiene el rol o alcance para la acción.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound entidad referenciada inexistente.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict estado incompatible: duplicados, solicitud ya entregada, etc.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// InsufficientStock la bodega de origen no alcanza la cantidad pedida.
func InsufficientStock(message string) *Error {
	return &Error{Kind: KindInsufficientStock, Message: message}
}

// Internal envuelve un fallo de infraestructura.
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: err}
}

// As extrae el *Error tipado de una cadena de errores, o nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsKind indica si el error pertenece al Kind dado.
func IsKind(err error, kind Kind) bool {
	typed := As(err)
	return typed != nil && typed.Kind == kind
}
