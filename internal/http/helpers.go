package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Challenge kinds reported in the Authenticate header on 401 responses.
const (
	ChallengeInvalidCredentials = "invalid_email_or_password"
	ChallengeInvalidToken       = "invalid_token"
)

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"` // validation errors etc.
}

// respondUnauthorized sends a 401 with a challenge header naming the
// failure kind. The body must stay identical for every credential failure.
func respondUnauthorized(c *gin.Context, kind, message string) {
	c.Header("Authenticate", `error="`+kind+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: message})
}

// respondConflict sends a 409 Conflict response.
func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message})
}

// respondValidationError sends a 400 with per-field messages when the
// error came from request binding, or a generic 400 otherwise.
func respondValidationError(c *gin.Context, err error) {
	if details := validationDetails(err); details != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: details,
		})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
}

// respondInternalError logs the error and sends a 500 response.
// Internal detail never reaches the client.
func respondInternalError(c *gin.Context, err error) {
	log.Printf("internal error: %v", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// validationDetails maps binding failures to field-level messages.
func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = validationMessage(fe)
	}
	return details
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters long"
	case "max":
		return "must be at most " + fe.Param() + " characters long"
	default:
		return "is invalid"
	}
}
