package domain

import "errors"

var (
	ErrDuplicateAccount  = errors.New("account already exists")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidCredential = errors.New("invalid credential")

	ErrNoSession       = errors.New("no active session")
	ErrSessionMismatch = errors.New("session is no longer active")

	ErrMissingField  = errors.New("missing required field")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid transaction type")
)

// userMessages holds the text the mobile client shows for each known error.
// The first match wins, so session errors come before validation errors.
var userMessages = []struct {
	err error
	msg string
}{
	{ErrNoSession, "Inicia sesión para continuar."},
	{ErrSessionMismatch, "Tu sesión terminó. Inicia sesión de nuevo."},
	{ErrDuplicateAccount, "Ya existe una cuenta con este correo."},
	{ErrAccountNotFound, "El usuario no existe. Crea una cuenta primero."},
	{ErrInvalidCredential, "Contraseña incorrecta."},
	{ErrMissingField, "Datos incompletos."},
	{ErrInvalidAmount, "Ingresa al menos monto y categoría."},
	{ErrInvalidKind, "El tipo debe ser ingreso o gasto."},
}

// UserMessage returns the client-facing message for err, falling back to
// err.Error() for errors without a translation.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}
