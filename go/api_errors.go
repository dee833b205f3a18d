package orderserver

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	catalogapp "github.com/Apurer/product-order-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/product-order-api/internal/domains/catalog/ports"
	ordersapp "github.com/Apurer/product-order-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/product-order-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/product-order-api/internal/domains/orders/ports"
	"github.com/Apurer/product-order-api/internal/shared/auth"
	apierrors "github.com/Apurer/product-order-api/internal/shared/errors"
)

var responder = apierrors.NewResponder("", mapAuthError, mapCatalogError, mapOrderError)

func init() {
	// Report validation failures with the JSON names clients send.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

// respondError writes err as a problem document.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// respondBindingError reports request decoding failures, listing offending fields when the
// validator produced them.
func respondBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			fields[fieldName(fe)] = fe.Tag()
		}
		responder.Respond(c, apierrors.NewValidationProblem(fields).WithDetail("request body failed validation"))
		return
	}
	responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func fieldName(fe validator.FieldError) string {
	namespace := fe.Namespace()
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return fe.Field()
}

func mapAuthError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, auth.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	var duplicate *catalogapp.DuplicateError
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.As(err, &duplicate):
		return apierrors.ErrConflict.
			WithDetail(err.Error()).
			WithExtension("codeTaken", duplicate.CodeTaken).
			WithExtension("modelTaken", duplicate.ModelTaken), true
	case errors.Is(err, catalogapp.ErrDuplicate):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, catalogapp.ErrIDMismatch):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	var rejected *ordersapp.QuoteRejectedError
	switch {
	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.As(err, &rejected):
		return apierrors.ErrQuoteRejected.
			WithDetail(err.Error()).
			WithExtension("carrierCode", rejected.Code).
			WithExtension("carrierMessage", rejected.Message), true
	case errors.Is(err, ordersapp.ErrQuoteRejected):
		return apierrors.ErrQuoteRejected.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, ordersdomain.ErrEmptyOrder),
		errors.Is(err, ordersdomain.ErrEmptyShipment):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ordersdomain.ErrAlreadyClosed),
		errors.Is(err, ordersports.ErrConcurrentModification):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrPreconditionFailed):
		return apierrors.ErrPreconditionFailed.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrDirectoryLookupFailed),
		errors.Is(err, ordersapp.ErrQuoteUnavailable):
		return apierrors.ErrUpstream.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
