package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "carlot/internal/errors"
	"carlot/internal/service"
)

// CarHandler handles car inventory endpoints. Every endpoint requires a
// verified identity.
type CarHandler struct {
	carService service.CarService
}

// NewCarHandler creates a new car handler.
func NewCarHandler(carService service.CarService) *CarHandler {
	return &CarHandler{carService: carService}
}

// CreateCarRequest represents a new car.
type CreateCarRequest struct {
	Make  string `json:"make" validate:"required,max=255"`
	Model string `json:"model" validate:"required,max=255"`
	Year  int    `json:"year" validate:"required,gt=0"`
}

// UpdateCarRequest replaces every mutable field of a car.
type UpdateCarRequest struct {
	ID       uint   `json:"dbID" validate:"required"`
	NewMake  string `json:"newMake" validate:"required,max=255"`
	NewModel string `json:"newModel" validate:"required,max=255"`
	NewYear  int    `json:"newYear" validate:"required,gt=0"`
}

// ListCars godoc
// @Summary List active cars
// @Tags cars
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Car
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cars [get]
func (h *CarHandler) ListCars(c echo.Context) error {
	if _, err := requireIdentity(c); err != nil {
		return err
	}

	cars, err := h.carService.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list cars: %v", err)
		return httpError(err, "Server failed to gather data from the car table.")
	}
	return c.JSON(http.StatusOK, cars)
}

// CreateCar godoc
// @Summary Create a car
// @Tags cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCarRequest true "Car data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /car [post]
func (h *CarHandler) CreateCar(c echo.Context) error {
	if _, err := requireIdentity(c); err != nil {
		return err
	}

	var req CreateCarRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	if err := h.carService.Create(c.Request().Context(), req.Make, req.Model, req.Year); err != nil {
		c.Logger().Errorf("create car: %v", err)
		return httpError(err, "Server failed to add data to the car table.")
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Car successfully created",
	})
}

// DeleteCar godoc
// @Summary Soft-delete a car
// @Tags cars
// @Produce json
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Success 200 {string} string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /car/{id} [delete]
func (h *CarHandler) DeleteCar(c echo.Context) error {
	if _, err := requireIdentity(c); err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return httpError(apperrors.ErrInvalidCarID, "")
	}

	if err := h.carService.Delete(c.Request().Context(), uint(id)); err != nil {
		c.Logger().Errorf("delete car %d: %v", id, err)
		return httpError(err, "Server failed to update data in the car table.")
	}

	return c.JSON(http.StatusOK, fmt.Sprintf("Successfully deleted data associated with id: %d.", id))
}

// UpdateCar godoc
// @Summary Replace make, model and year of a car
// @Tags cars
// @Accept json
// @Produce plain
// @Security BearerAuth
// @Param request body UpdateCarRequest true "Replacement data"
// @Success 200 {string} string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /car [put]
func (h *CarHandler) UpdateCar(c echo.Context) error {
	if _, err := requireIdentity(c); err != nil {
		return err
	}

	var req UpdateCarRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	if err := h.carService.Update(c.Request().Context(), req.ID, req.NewMake, req.NewModel, req.NewYear); err != nil {
		c.Logger().Errorf("update car %d: %v", req.ID, err)
		return httpError(err, "Server failed to update data in the car table.")
	}

	return c.String(http.StatusOK, fmt.Sprintf("Successfully updated data associated with id: %d.", req.ID))
}
