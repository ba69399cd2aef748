package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type badRequestResponse struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details"`
}

// ParseAndValidate decodes the request body into dst and runs its validate
// struct tags. On failure it writes a 400 response and returns a non-nil
// error that the handler must return unchanged.
func ParseAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	details := ValidateStruct(dst)
	if len(details) == 0 {
		return nil
	}
	if err := c.Status(http.StatusBadRequest).JSON(badRequestResponse{Error: "invalid request data", Details: details}); err != nil {
		return err
	}
	return errValidationWritten
}

// ValidateStruct returns the list of validation failures for obj.
func ValidateStruct(obj any) []ValidationError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Message: err.Error(), Type: "invalid"}}
	}
	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: messageFor(fe), Type: fe.Tag()})
	}
	return out
}

// Int64Param parses a positive integer route parameter.
func Int64Param(c *fiber.Ctx, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return "Value is too long"
	case "gt":
		return "Value must be greater than " + fe.Param()
	case "nefield":
		return "Value must differ from " + fe.Param()
	default:
		return "Invalid value"
	}
}
