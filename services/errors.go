package services

import "errors"

// Business errors returned by the services. Controllers map these onto
// HTTP codes; anything else is a 500.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrClientBlacklisted      = errors.New("cliente en lista negra, no se pueden realizar reservas")
	ErrSlotConflict           = errors.New("ya existe una reserva para esa mesa, fecha y horario")
	ErrDuplicateClientBooking = errors.New("el cliente ya tiene una reserva para esa fecha y horario")
	ErrTableBlocked           = errors.New("la mesa esta bloqueada en ese horario")
	ErrInvalidStatus          = errors.New("estado invalido")
	ErrBlockInPast            = errors.New("no se puede bloquear una mesa en el pasado")
)

// ValidationError flags caller mistakes (missing or malformed fields).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a caller-side validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
