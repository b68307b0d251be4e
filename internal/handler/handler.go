package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/loanbuddy/loan-tracker/internal/service"
	customError "github.com/loanbuddy/loan-tracker/pkg/errors"
	"github.com/loanbuddy/loan-tracker/pkg/response"
)

// Handler exposes the thin CRUD surface over the portfolio service.
type Handler struct {
	service   *service.PortfolioService
	validator *validator.Validate
}

func NewHandler(service *service.PortfolioService) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// decode unmarshals and validates a request body.
func (h *Handler) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return h.validator.Struct(dst)
}

// writeError maps business error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var bizErr *customError.BusinessError
	if !errors.As(err, &bizErr) {
		response.InternalServerError(w, "unexpected error", err)
		return
	}

	switch bizErr.Code {
	case customError.ErrCodeBorrowerNotFound,
		customError.ErrCodeLoanNotFound,
		customError.ErrCodePaymentNotFound:
		response.NotFound(w, bizErr.Message)
	case customError.ErrCodeBorrowerHasLoans:
		response.Conflict(w, bizErr.Message, bizErr.Err)
	case customError.ErrCodeMalformedImport, customError.ErrCodeInvalidEntity:
		response.BadRequest(w, bizErr.Message, bizErr.Err)
	default:
		response.InternalServerError(w, bizErr.Message, bizErr.Err)
	}
}
