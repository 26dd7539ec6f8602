package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	onceValidate sync.Once
)

// GetValidator returns the package-wide validator.Validate singleton,
// created on first use.
func GetValidator() *validator.Validate {
	onceValidate.Do(func() {
		validate = validator.New()
	})
	return validate
}
