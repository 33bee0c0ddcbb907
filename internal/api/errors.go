package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"penpals/internal/engine"
	"penpals/internal/session"
	"penpals/internal/story"
)

var errBadRequest = errors.New("bad request")

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, errBadRequest):
		status, code = http.StatusBadRequest, "bad_request"
	case errors.Is(err, session.ErrNotFound):
		status, code = http.StatusNotFound, "playthrough_not_found"
	case errors.Is(err, story.ErrRegionNotFound):
		status, code = http.StatusNotFound, "region_not_found"
	case errors.Is(err, story.ErrChoiceNotFound):
		status, code = http.StatusNotFound, "choice_not_found"
	case errors.Is(err, story.ErrOptionNotFound):
		status, code = http.StatusNotFound, "option_not_found"
	case errors.Is(err, engine.ErrInsufficientBudget):
		status, code = http.StatusConflict, "insufficient_budget"
	case errors.Is(err, engine.ErrWrongPhase):
		status, code = http.StatusConflict, "wrong_phase"
	case errors.Is(err, engine.ErrNoWalletEvent):
		status, code = http.StatusConflict, "no_wallet_event"
	case errors.Is(err, engine.ErrNotCurrent):
		status, code = http.StatusConflict, "not_current"
	case errors.Is(err, session.ErrNoActiveRegion):
		status, code = http.StatusConflict, "no_active_region"
	case errors.Is(err, session.ErrRegionInProgress):
		status, code = http.StatusConflict, "region_in_progress"
	default:
		h.logger.Error("unhandled error", zap.Error(err))
		c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Code: "internal", Message: "internal error"})
		return
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: err.Error()})
}
