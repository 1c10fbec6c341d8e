package storage

import "marketing-intel/models"

// PriceRowWriter is the interface any reconciled-row sink must satisfy.
type PriceRowWriter interface {
	Write(rows []models.PriceRow) error
	Close() error
}
