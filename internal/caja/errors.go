package caja

import "fmt"

// Los errores del núcleo de caja son tipados para que la capa HTTP pueda
// distinguirlos sin comparar cadenas. El mensaje es el texto que se muestra
// al usuario tal cual.

// ValidationError: entrada malformada (monto negativo, más de dos decimales,
// campo requerido ausente). El cliente puede corregir y reintentar.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError: se violaría la unicidad de turno ACTIVE. Resource indica si
// el recurso ocupado es la caja ("drawer") o el cajero ("cashier").
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string { return e.Message }

// StateError: la operación requiere un estado distinto al actual (p. ej.
// cerrar un turno que ya no está ACTIVE). La vista del cliente está
// desactualizada; debe refrescar antes de reintentar.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }

// NotFoundError: la caja, el turno o el cajero referenciado no existe.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d no encontrado", e.Entity, e.ID)
}

// AtomicityError: el commit de una transición de dos escrituras (entrega de
// turno) no pudo completarse. Nunca se reporta como éxito; el turno saliente
// queda ACTIVE y no se creó sucesor.
type AtomicityError struct {
	Op  string
	Err error
}

func (e *AtomicityError) Error() string {
	return fmt.Sprintf("la operación %s no pudo confirmarse atómicamente: %v", e.Op, e.Err)
}

func (e *AtomicityError) Unwrap() error { return e.Err }
