package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/api/presenters"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/rating"
)

type (
	AdminHandler interface {
		ReconcileRatings(c *fiber.Ctx) error
	}

	adminHandler struct {
		aggregator rating.Aggregator
	}
)

func NewAdminHandler(aggregator rating.Aggregator) AdminHandler {
	return &adminHandler{aggregator: aggregator}
}

// ReconcileRatings recomputes every stored aggregate from live reviews.
func (h *adminHandler) ReconcileRatings(c *fiber.Ctx) error {
	res, err := h.aggregator.ReconcileAll(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedReconcile, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessReconcile)
}
