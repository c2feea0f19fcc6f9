package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Werneck0live/cadastro-parceiros/internal/bp"
	"github.com/Werneck0live/cadastro-parceiros/internal/form"
	"github.com/Werneck0live/cadastro-parceiros/internal/lookup"
	"github.com/Werneck0live/cadastro-parceiros/internal/partnerapi"
	"github.com/Werneck0live/cadastro-parceiros/internal/repository"
	"github.com/Werneck0live/cadastro-parceiros/internal/utils"
)

// writeError traduz os erros de domínio em status HTTP.
func (h *DraftHandler) writeError(w http.ResponseWriter, err error) {
	var verrs form.ValidationErrors
	var apiErr *partnerapi.APIError

	switch {
	// vem antes de ErrUnavailable: um timeout também é indisponibilidade
	case errors.Is(err, context.DeadlineExceeded):
		utils.WriteError(w, http.StatusGatewayTimeout, "timeout")

	case errors.As(err, &verrs):
		utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": verrs,
		})

	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, partnerapi.ErrNotFound),
		errors.Is(err, lookup.ErrNotFound),
		errors.Is(err, form.ErrSalesAreaIndex):
		utils.WriteError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, repository.ErrVersionConflict),
		errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, form.ErrModalOpen),
		errors.Is(err, form.ErrNoSalesArea),
		errors.Is(err, form.ErrStaleLookup):
		utils.WriteError(w, http.StatusConflict, err.Error())

	case errors.Is(err, form.ErrUnknownField),
		errors.Is(err, form.ErrFieldType),
		errors.Is(err, bp.ErrUnknownCode),
		errors.Is(err, lookup.ErrInvalidDocument),
		errors.Is(err, errNothingToLookUp):
		utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, lookup.ErrUnavailable):
		utils.WriteError(w, http.StatusServiceUnavailable, err.Error())

	case errors.As(err, &apiErr):
		utils.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"error":           "partner api error",
			"upstream_status": apiErr.Status,
			"upstream_body":   apiErr.Body,
		})

	default:
		h.logger().Error("request_failed", "err", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
