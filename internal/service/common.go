// Package service implements the portal's business rules on top of the store.
package service

import (
	"github.com/iohusni/garaadsom-book-shop/internal/validation"
)

// validate is the shared request validator for all services.
var validate = validation.New()
