package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error codes carried in the Error body.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeUnknownItem       = "UNKNOWN_ITEM"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeIllegalTransition = "ILLEGAL_TRANSITION"
	CodeActiveOrderExists = "ACTIVE_ORDER_EXISTS"
	CodeNoActiveOrder     = "NO_ACTIVE_ORDER"
	CodeItemInUse         = "ITEM_IN_USE"
	CodeLinesNotSatisfied = "LINES_NOT_SATISFIED"
	CodeOutOfOrder        = "OUT_OF_ORDER"
	CodeSequenceViolation = "SEQUENCE_VIOLATION"
	CodeToleranceExceeded = "TOLERANCE_EXCEEDED"
	CodeInternal          = "INTERNAL_ERROR"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Checked in order, first match wins.
var errorMappings = []errorMapping{
	{item.ErrInsufficientStock, http.StatusConflict, CodeInsufficientStock},
	{order.ErrActiveOrderExists, http.StatusConflict, CodeActiveOrderExists},
	{order.ErrIllegalTransition, http.StatusConflict, CodeIllegalTransition},
	{order.ErrLinesNotSatisfied, http.StatusConflict, CodeLinesNotSatisfied},
	{commands.ErrNoActiveOrder, http.StatusConflict, CodeNoActiveOrder},
	{item.ErrItemInUse, http.StatusConflict, CodeItemInUse},
	{item.ErrUnknownItem, http.StatusNotFound, CodeUnknownItem},
	{errs.ErrObjectNotFound, http.StatusNotFound, CodeNotFound},
	{services.ErrOutOfOrder, http.StatusUnprocessableEntity, CodeOutOfOrder},
	{services.ErrSequenceViolation, http.StatusUnprocessableEntity, CodeSequenceViolation},
	{services.ErrToleranceExceeded, http.StatusUnprocessableEntity, CodeToleranceExceeded},
	{errs.ErrValueIsRequired, http.StatusBadRequest, CodeValidation},
	{errs.ErrValueIsInvalid, http.StatusBadRequest, CodeValidation},
	{errs.ErrValueIsOutOfRange, http.StatusBadRequest, CodeValidation},
	{order.ErrDuplicateItem, http.StatusBadRequest, CodeValidation},
}

// classify maps a use case error to its HTTP status and error code.
func classify(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable, httpCode(http.StatusServiceUnavailable)
	}
	return http.StatusInternalServerError, CodeInternal
}

func rejectionCode(reason error) string {
	_, code := classify(reason)
	return code
}

func (s *Server) writeError(ctx echo.Context, err error) error {
	status, code := classify(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			slog.String("method", ctx.Request().Method),
			slog.String("path", ctx.Path()),
			slog.Any("error", err),
		)
		message = http.StatusText(status)
	}
	return ctx.JSON(status, Error{Code: code, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: CodeValidation, Message: message})
}

// httpCode turns a status into an upper snake case code, e.g. NOT_FOUND.
func httpCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

// NewHTTPErrorHandler renders errors that escape the handlers, such as
// routing misses and parameter binding failures, as Error bodies.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		body := Error{Code: CodeInternal, Message: http.StatusText(http.StatusInternalServerError)}
		status := http.StatusInternalServerError

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			body.Message = fmt.Sprint(he.Message)
			body.Code = httpCode(status)
			if status == http.StatusBadRequest {
				body.Code = CodeValidation
			}
		} else {
			logger.ErrorContext(ctx.Request().Context(), "unhandled error",
				slog.String("path", ctx.Request().URL.Path),
				slog.Any("error", err),
			)
		}

		var writeErr error
		if ctx.Request().Method == http.MethodHead {
			writeErr = ctx.NoContent(status)
		} else {
			writeErr = ctx.JSON(status, body)
		}
		if writeErr != nil {
			logger.ErrorContext(ctx.Request().Context(), "failed to write error response", slog.Any("error", writeErr))
		}
	}
}
