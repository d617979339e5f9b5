package domain

import "errors"

var (
	ErrNotFound   = errors.New("registro no encontrado")
	ErrDuplicado  = errors.New("registro duplicado")
	ErrValidacion = errors.New("solicitud invalida")
	ErrProhibido  = errors.New("operacion no permitida")
	ErrConflicto  = errors.New("conflicto con el estado actual")
)
