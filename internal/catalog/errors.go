package catalog

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a product is absent or soft-deleted.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Product with ID %d not found", e.ID)
}

// IsNotFound reports whether err is a product NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
