package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Tipos de error compartidos por todos los módulos.
// Los handlers traducen cada uno a un status HTTP (ver httpx.WriteError).
// Cualquier error que no envuelva uno de estos se trata como error de storage (500).
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error lleva el tipo (Kind) y un mensaje apto para el cliente.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Message)
}

func (e *Error) Unwrap() error { return e.Kind }

func Validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }
func Unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}
func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }
func NotFound(msg string) error  { return &Error{Kind: ErrNotFound, Message: msg} }
func Conflict(msg string) error  { return &Error{Kind: ErrConflict, Message: msg} }

// Message devuelve el texto para el cliente.
// Para errores sin tipo conocido no se expone el detalle.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		if strings.TrimSpace(ae.Message) != "" {
			return ae.Message
		}
		return ae.Kind.Error()
	}
	for _, k := range []error{ErrValidation, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict} {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return "internal error"
}
