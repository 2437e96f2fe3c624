package service

import (
	"errors"

	"campus-merch-store/internal/auth"

	"gorm.io/gorm"
)

var (
	ErrUnauthenticated          = auth.ErrUnauthenticated
	ErrNotFound                 = errors.New("not found")
	ErrPaymentMethodRequired    = errors.New("payment method required")
	ErrPaymentMethodUnavailable = errors.New("payment method not accepted for this merchandise")
	ErrProofRequired            = errors.New("proof of payment required")
	ErrInvalidProof             = errors.New("proof of payment is not a readable image")
	ErrProofTooLarge            = errors.New("proof of payment is too large")
	ErrInvalidSort              = errors.New("unknown sort mode")
	ErrVariantMismatch          = errors.New("variant does not belong to merchandise")
	ErrSizeMismatch             = errors.New("size does not match variant")
	ErrProgramMismatch          = errors.New("program does not belong to college")
)

// notFound maps a missing row to ErrNotFound and leaves other errors alone.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
