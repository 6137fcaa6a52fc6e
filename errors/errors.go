package errors

import (
	Errors "errors"
	"log"

	"LINKUP_server/schemas"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// InternalLogger logs failures that should never happen in normal
// circumstances; MonitorLogger logs suspicious but harmless requests.
// Both are assigned by server init.
var InternalLogger = log.Default()
var MonitorLogger = log.Default()

// AppError is a recognized failure carrying the HTTP status it surfaces
// with. Anything else collapses to a generic 500.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// NotFoundError reports a missing user/edge/message/notification
func NotFoundError(message string) error {
	return &AppError{Status: fiber.StatusNotFound, Message: message}
}

// ForbiddenError reports an authorization or privacy violation
func ForbiddenError(message string) error {
	return &AppError{Status: fiber.StatusForbidden, Message: message}
}

// InvalidStateError reports an operation not valid for the current
// status, e.g. accepting a non-pending request
func InvalidStateError(message string) error {
	return &AppError{Status: fiber.StatusConflict, Message: message}
}

// ValidationError reports malformed input
func ValidationError(message string) error {
	return &AppError{Status: fiber.StatusBadRequest, Message: message}
}

// ExpiredWindowError reports a time-boxed operation past its cutoff
func ExpiredWindowError(message string) error {
	return &AppError{Status: fiber.StatusBadRequest, Message: message}
}

// IsApp reports whether err is a recognized AppError
func IsApp(err error) bool {
	var appErr *AppError
	return Errors.As(err, &appErr)
}

// HandleFatalError handles global error
func HandleFatalError(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

// HandleBasicError handles basic error and logs
func HandleBasicError(err error) bool {
	if err != nil {
		InternalLogger.Println(err)
		return true
	}
	return false
}

// HandleAppError surfaces a recognized error with its declared status;
// unrecognized failures are logged and collapse to a 500 with no
// internal detail leaked
func HandleAppError(c *fiber.Ctx, problem string, err error) error {
	var appErr *AppError
	if Errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(schemas.Response{
			Success: false,
			Message: appErr.Message,
		})
	}
	return HandleInternalError(c, problem, err.Error())
}

// HandleInternalError handles internal errors (things that should never
// happen in normal circumstances)
func HandleInternalError(c *fiber.Ctx, problem string, err string) error {
	InternalLogger.Println("IP: " + c.IP() + "; Problem: " + problem + "; Error: " + err)
	return c.Status(fiber.StatusInternalServerError).JSON(schemas.Response{
		Success: false,
		Message: "Internal server error",
	})
}

// HandleBadRequestError handles bad request errors (client error that is
// harmless to server and state)
func HandleBadRequestError(c *fiber.Ctx, problem string, description string) error {
	MonitorLogger.Println("Bad Request; Problem: " + problem + "; Description: " + description)
	return c.Status(fiber.StatusBadRequest).JSON(schemas.Response{
		Success: false,
		Message: problem + ": " + description,
	})
}

// HandleUnauthorizedError handles requests without a usable identity
func HandleUnauthorizedError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(schemas.Response{
		Success: false,
		Message: "Unauthorized",
	})
}

// HandleValidatorError handles errors when validating request
func HandleValidatorError(c *fiber.Ctx, err error) error {
	validatorErr := err.(validator.ValidationErrors)[0]
	return HandleBadRequestError(c, validatorErr.StructField(), validatorErr.Tag())
}

// HandleBadJsonError handles json request parser errors
func HandleBadJsonError(c *fiber.Ctx) error {
	return HandleBadRequestError(c, "JSON body", "invalid")
}
