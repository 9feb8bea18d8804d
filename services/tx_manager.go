package services

import (
	"context"

	"gorm.io/gorm"
)

// TxManager groups repository writes into one transaction; services depend
// on this narrow interface rather than on *gorm.DB.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
