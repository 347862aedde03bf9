package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/employee-management-api/pkg/validation"
)

// ErrorBody is the shape of every non-2xx response. The `errors` array keeps the
// wire format the web client already parses.
type ErrorBody struct {
	Errors    []validation.FieldError `json:"errors"`
	RequestID string                  `json:"request_id,omitempty"`
}

// JSON writes data as-is with the given status.
func JSON(ctx *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

// Errors aborts the chain and writes the full list of violations.
func Errors(ctx *gin.Context, status int, errs []validation.FieldError) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	if errs == nil {
		errs = []validation.FieldError{}
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Errors:    errs,
		RequestID: ctx.GetString("request_id"),
	})
}

// Error aborts the chain with a single message that is not tied to a field.
func Error(ctx *gin.Context, status int, message string) {
	Errors(ctx, status, []validation.FieldError{{Msg: message}})
}
