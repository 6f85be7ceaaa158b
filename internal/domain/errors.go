package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio simples (sin dependencias externas).
var (
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrInvalidTransfer         = errors.New("bodega origen y destino no pueden ser la misma")
	ErrIncompleteCount         = errors.New("conteo incompleto: faltan ítems por contar")
	ErrDuplicateDocumentNumber = errors.New("número de documento duplicado")
)

// NotFoundError indica que una entidad referenciada no existe.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado: %s", e.Entity, e.ID)
}

// NewNotFound construye un NotFoundError.
func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// IsNotFound verifica si un error (o su cadena) es un NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// StateTransitionError indica una transición de estado no permitida
// (por ejemplo, completar un conteo ya completado).
type StateTransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("transición inválida de %s %s: %s → %s", e.Entity, e.ID, e.From, e.To)
}

// NewStateTransition construye un StateTransitionError.
func NewStateTransition(entity, id, from, to string) *StateTransitionError {
	return &StateTransitionError{Entity: entity, ID: id, From: from, To: to}
}

// IsStateTransition verifica si un error es un StateTransitionError.
func IsStateTransition(err error) bool {
	var st *StateTransitionError
	return errors.As(err, &st)
}

// InsufficientStockError indica que una mutación dejaría el stock en negativo.
// Requested es la magnitud solicitada; Available el stock al momento del chequeo.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en bodega %s: solicitado %s, disponible %s",
		e.ProductID, e.WarehouseID, e.Requested, e.Available)
}

// IsInsufficientStock verifica si un error es un InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}

// QuantityExceedsPendingError indica que una línea de recepción excede la
// cantidad pendiente de la línea de orden de compra.
type QuantityExceedsPendingError struct {
	POItemID  string
	Requested decimal.Decimal
	Pending   decimal.Decimal
}

func (e *QuantityExceedsPendingError) Error() string {
	return fmt.Sprintf("cantidad recibida excede lo pendiente en línea %s: solicitado %s, pendiente %s",
		e.POItemID, e.Requested, e.Pending)
}

// IsQuantityExceedsPending verifica si un error es un QuantityExceedsPendingError.
func IsQuantityExceedsPending(err error) bool {
	var qe *QuantityExceedsPendingError
	return errors.As(err, &qe)
}

// ErrTransactionFailed envuelve fallos del bloque atómico (commit/rollback);
// el estado del ledger queda exactamente como antes de la llamada.
var ErrTransactionFailed = errors.New("la transacción no pudo completarse")

// WrapTransaction marca un error de infraestructura como fallo transaccional.
func WrapTransaction(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
}
