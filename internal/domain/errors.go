package domain

import "errors"

// Kind clasifica un error de dominio; la capa HTTP lo traduce a un status.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindBadRequest   Kind = "BAD_REQUEST"
)

// Error es un error de dominio tipado. Los valores se comparan con errors.Is
// contra las variables exportadas de este paquete.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Errores de dominio (sin dependencias externas).
var (
	ErrUserNotFound         = newError(KindNotFound, "usuario no encontrado")
	ErrOrganizationNotFound = newError(KindNotFound, "la organización especificada no existe")

	ErrEmailAlreadyExists = newError(KindConflict, "el correo electrónico ya está registrado")
	ErrRUCAlreadyExists   = newError(KindConflict, "ya existe una organización con este RUC")

	// ErrInvalidCredentials es el único error que devuelve Login: email desconocido,
	// cuenta inactiva, rol incorrecto y contraseña errónea comparten mensaje y tipo.
	ErrInvalidCredentials      = newError(KindUnauthorized, "credenciales inválidas")
	ErrCurrentPasswordMismatch = newError(KindUnauthorized, "la contraseña actual es incorrecta")

	// ErrOrganizationNotFoundBadRequest se usa en las consultas de organización del
	// flujo de onboarding; los clientes existentes esperan 400 y no 404 en ese caso.
	ErrOrganizationNotFoundBadRequest = newError(KindBadRequest, "organización no encontrada")
)

// KindOf devuelve el tipo del primer *Error en la cadena de err, o "" si no hay ninguno.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsNotFound informa si err es de tipo NOT_FOUND.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict informa si err es de tipo CONFLICT.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsUnauthorized informa si err es de tipo UNAUTHORIZED.
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }

// IsBadRequest informa si err es de tipo BAD_REQUEST.
func IsBadRequest(err error) bool { return KindOf(err) == KindBadRequest }
