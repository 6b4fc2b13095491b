package serverutils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateStruct runs the validator tags on a parsed request body.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ErrorHandlerMiddleware converts uncaught handler errors into the standard
// response envelope so nothing escapes as a bare 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := err.Error()

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			code = fiber.StatusBadRequest
		}

		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"code":    code,
			"message": message,
		})
	}
}
