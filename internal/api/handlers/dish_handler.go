package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/api/presenters"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/dish"
)

type (
	DishHandler interface {
		GetDishes(c *fiber.Ctx) error
		GetDish(c *fiber.Ctx) error

		AdminGetDishes(c *fiber.Ctx) error
		AdminGetDish(c *fiber.Ctx) error
		CreateDish(c *fiber.Ctx) error
		UpdateDish(c *fiber.Ctx) error
		DeleteDish(c *fiber.Ctx) error
		RestoreDish(c *fiber.Ctx) error
		GetDishHistory(c *fiber.Ctx) error
		RevertDish(c *fiber.Ctx) error
		UploadDishImage(c *fiber.Ctx) error
	}

	dishHandler struct {
		dishService dish.DishService
		validator   *validator.Validate
	}
)

func NewDishHandler(dishService dish.DishService, validator *validator.Validate) DishHandler {
	return &dishHandler{
		dishService: dishService,
		validator:   validator,
	}
}

func (h *dishHandler) listDishes(c *fiber.Ctx, includeDeleted bool) error {
	filter := new(domain.DishFilter)
	if err := c.QueryParser(filter); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDishes, err)
	}
	if err := h.validator.Struct(filter); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDishes, err)
	}
	filter.IncludeDeleted = includeDeleted

	res, err := h.dishService.GetDishes(c.Context(), *filter, parsePagination(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetDishes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDishes)
}

func (h *dishHandler) GetDishes(c *fiber.Ctx) error {
	return h.listDishes(c, false)
}

func (h *dishHandler) AdminGetDishes(c *fiber.Ctx) error {
	return h.listDishes(c, c.QueryBool("include_deleted", true))
}

func (h *dishHandler) GetDish(c *fiber.Ctx) error {
	res, err := h.dishService.GetDishByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetDish, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDish)
}

func (h *dishHandler) AdminGetDish(c *fiber.Ctx) error {
	res, err := h.dishService.AdminGetDishByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetDish, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDish)
}

func (h *dishHandler) CreateDish(c *fiber.Ctx) error {
	req := new(domain.CreateDishRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDish, err)
	}

	res, err := h.dishService.CreateDish(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateDish, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateDish)
}

func (h *dishHandler) UpdateDish(c *fiber.Ctx) error {
	req := new(domain.UpdateDishRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDish, err)
	}

	res, err := h.dishService.UpdateDish(c.Context(), c.Params("id"), *req, userID(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateDish, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateDish)
}

func (h *dishHandler) DeleteDish(c *fiber.Ctx) error {
	if err := h.dishService.SoftDeleteDish(c.Context(), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedDeleteDish, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteDish)
}

func (h *dishHandler) RestoreDish(c *fiber.Ctx) error {
	if err := h.dishService.RestoreDish(c.Context(), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedRestoreDish, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRestoreDish)
}

func (h *dishHandler) GetDishHistory(c *fiber.Ctx) error {
	res, err := h.dishService.GetDishHistory(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetDishHistory, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDishHistory)
}

func (h *dishHandler) RevertDish(c *fiber.Ctx) error {
	req := new(domain.RevertDishRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRevertDish, err)
	}

	res, err := h.dishService.RevertDish(c.Context(), c.Params("id"), req.Version, userID(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedRevertDish, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRevertDish)
}

func (h *dishHandler) UploadDishImage(c *fiber.Ctx) error {
	req := &domain.UploadDishImageRequest{DishID: c.Params("id")}

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	res, err := h.dishService.UploadDishImage(c.Context(), *req, userID(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadImage)
}
