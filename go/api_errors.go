package ordersserver

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	customerapp "github.com/Apurer/clean-orders/internal/domains/customers/application"
	customerports "github.com/Apurer/clean-orders/internal/domains/customers/ports"
	orderapp "github.com/Apurer/clean-orders/internal/domains/orders/application"
	orderports "github.com/Apurer/clean-orders/internal/domains/orders/ports"
	apierrors "github.com/Apurer/clean-orders/internal/shared/errors"
)

var responder = apierrors.NewChainedResponder(mapOrderError, mapCustomerError)

var tagNamesOnce sync.Once

// registerJSONTagNames makes validation errors report JSON field names.
func registerJSONTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondServiceError translates application errors into RFC 7807 responses.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// respondBindError reports malformed bodies as 400, with per-field detail when
// the failure came from binding tags.
func respondBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fieldPath(fe)] = "failed on the '" + fe.Tag() + "' rule"
		}
		respondProblem(c, apierrors.NewValidationProblem(fields))
		return
	}
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// fieldPath drops the struct name from the namespace: items[0].pricePerUnit.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

func mapOrderError(c *gin.Context, err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, orderports.ErrNotFound):
		return apierrors.NewNotFoundProblem("order", c.Param("orderId")), true
	case errors.Is(err, orderapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, orderapp.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCustomerError(c *gin.Context, err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, customerports.ErrNotFound):
		return apierrors.NewNotFoundProblem("customer", c.Param("customerId")), true
	case errors.Is(err, customerapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, customerapp.ErrEmailTaken), errors.Is(err, customerapp.ErrAlreadyRegistered):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
