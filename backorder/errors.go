package backorder

import (
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/backorder_backend/utils"
)

var (
	// ErrTransferNotFound means the order line has no associated inventory transfer to update.
	ErrTransferNotFound = fmt.Errorf("inventory transfer for order line: %w", utils.ErrorRecordNotFound)
	// ErrOrderLineNotFound means the order line id does not exist.
	ErrOrderLineNotFound = fmt.Errorf("order line: %w", utils.ErrorRecordNotFound)
	// ErrDomainInconsistency flags a dangling purchase link or more than one transfer for a
	// single (order, variant) pair.
	// It is reported on the resolution and logged; it never fails a listing.
	ErrDomainInconsistency = errors.New("domain inconsistency")
	ErrInvalidTransition   = errors.New("invalid transfer status transition")
	ErrInvalidInput        = errors.New("invalid input")
)
