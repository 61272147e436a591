package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/CWeait/nemlig-mcp/pkg/errors"
)

// Argument defaults exposed through the tool contract.
const (
	defaultSearchLimit  = 20
	defaultSearchPage   = 1
	defaultOrderLimit   = 10
	defaultAddQuantity  = 1
	maxSearchLimit      = 100
	maxOrderLimit       = 100
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

type searchProductsArgs struct {
	Query string `json:"query" validate:"required"`
	Limit *int   `json:"limit"`
	Page  *int   `json:"page"`
}

type getProductDetailsArgs struct {
	ProductID string `json:"productId" validate:"required"`
}

type addToCartArgs struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity"`
}

type removeFromCartArgs struct {
	ProductID string `json:"productId" validate:"required"`
}

type orderHistoryArgs struct {
	Limit *int `json:"limit"`
}

type orderDetailsArgs struct {
	OrderID string `json:"orderId" validate:"required"`
}

// decodeArgs unmarshals the raw argument object into dest and runs struct
// validation. A wrong primitive kind or a missing required field fails here,
// before any network activity.
func decodeArgs(raw json.RawMessage, dest any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, argumentErrorMessage(err))
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func argumentErrorMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("argument %q must be of type %s", typeErr.Field, typeErr.Type)
	}
	return "invalid argument object"
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		parts := make([]string, 0, len(errs))
		for _, fieldErr := range errs {
			parts = append(parts, fmt.Sprintf("%s %s", fieldErr.Field(), validationMessage(fieldErr)))
		}
		return pkgerrors.New(pkgerrors.CodeValidation, strings.Join(parts, "; "))
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid"
}

// intOrDefault applies the documented default for an optional numeric
// argument and rejects out-of-range values. Explicit zeroes are rejected,
// not silently replaced: a caller sending quantity 0 asked for something
// the contract does not allow.
func intOrDefault(value *int, fallback, min, max int, name string) (int, error) {
	if value == nil {
		return fallback, nil
	}
	v := *value
	if v < min {
		return 0, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s must be at least %d", name, min))
	}
	if max > 0 && v > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s must be at most %d", name, max))
	}
	return v, nil
}
