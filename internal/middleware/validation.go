package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "footlens/internal/errors"
	"footlens/internal/exporter"
	"footlens/pkg/contracts/domain"
)

// QueryValidator validates decoded query parameter structs using struct tags.
// Field names in errors come from the `query` tag.
type QueryValidator struct {
	validate *validator.Validate
}

// NewQueryValidator creates a validator with the injury table rules registered:
//
//	column          the value names a column of the enriched table
//	numeric_column  the value names a number column
//	export_format   the value is csv, xlsx or json
func NewQueryValidator() *QueryValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterValidation("column", isColumn)
	v.RegisterValidation("numeric_column", isNumericColumn)
	v.RegisterValidation("export_format", isExportFormat)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &QueryValidator{validate: v}
}

// Validate checks v and returns an APIError listing every failed field
func (q *QueryValidator) Validate(v interface{}) error {
	err := q.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.ErrInvalidRequest
	}

	out := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(out)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "column":
		return fmt.Sprintf("%s: unknown column %q", field, err.Value())
	case "numeric_column":
		return fmt.Sprintf("%s: %q is not a numeric column", field, err.Value())
	case "export_format":
		return fmt.Sprintf("%s must be one of: csv, xlsx, json", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

func isColumn(fl validator.FieldLevel) bool {
	_, ok := domain.LookupColumn(fl.Field().String())
	return ok
}

func isNumericColumn(fl validator.FieldLevel) bool {
	c, ok := domain.LookupColumn(fl.Field().String())
	return ok && c.Kind == domain.KindNumber
}

func isExportFormat(fl validator.FieldLevel) bool {
	_, err := exporter.ParseFormat(fl.Field().String())
	return err == nil
}
