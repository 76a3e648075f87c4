package errors

import stderrors "errors"

var (
	// ErrInvalidTransactionType is returned when a transaction type is neither buy nor sell.
	ErrInvalidTransactionType = stderrors.New("invalid transaction type")
	// ErrInvalidAmount is returned for non-positive units or price, a negative fee, or unparsable amounts.
	ErrInvalidAmount = stderrors.New("invalid amount")
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = stderrors.New("not found")
)

type ErrValidation struct {
	Field   string
	Message string
	Err     error
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ErrValidation) Unwrap() error {
	return e.Err
}

// InvalidType builds the validation error for an unknown transaction type.
func InvalidType(value string) error {
	return &ErrValidation{Field: "type", Message: "unknown transaction type " + quote(value), Err: ErrInvalidTransactionType}
}

// InvalidAmount builds the validation error for a bad monetary or quantity field.
func InvalidAmount(field, message string) error {
	return &ErrValidation{Field: field, Message: message, Err: ErrInvalidAmount}
}

// IsValidation reports whether err carries an *ErrValidation anywhere in its chain.
func IsValidation(err error) bool {
	var v *ErrValidation
	return stderrors.As(err, &v)
}

func quote(s string) string {
	return "\"" + s + "\""
}
