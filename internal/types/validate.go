package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/jonathan/job-board/internal/catalog"
)

// validate is shared by every request type. It is safe for concurrent use
// and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// catalog=<kind> accepts an ID from the named lookup list
	_ = v.RegisterValidation("catalog", func(fl validator.FieldLevel) bool {
		return catalog.Contains(catalog.Kind(fl.Param()), fl.Field().String())
	})
	return v
}
