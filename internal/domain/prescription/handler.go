package prescription

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medrec/medrec/internal/domain/patient"
	"github.com/medrec/medrec/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "user"))
	read.GET("/prescriptions/by-uid/:uid", h.ListByUID, auth.RequirePatientScope())

	write := api.Group("", auth.RequireRole("admin"))
	write.POST("/prescriptions/by-uid/:uid", h.Create)
	write.PUT("/prescriptions/by-uid/:uid/:id", h.Update)
	write.DELETE("/prescriptions/by-uid/:uid/:id", h.Delete)
}

func (h *Handler) notFound(err error) error {
	if errors.Is(err, patient.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Prescription not found")
	}
	return nil
}

func (h *Handler) Create(c echo.Context) error {
	var p Prescription
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), c.Param("uid"), &p); err != nil {
		if he := h.notFound(err); he != nil {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListByUID(c echo.Context) error {
	items, err := h.svc.ListByUID(c.Request().Context(), c.Param("uid"))
	if err != nil {
		if he := h.notFound(err); he != nil {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Prescription{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription id")
	}
	var in Prescription
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Update(c.Request().Context(), c.Param("uid"), id, &in)
	if err != nil {
		if he := h.notFound(err); he != nil {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription id")
	}
	if err := h.svc.Delete(c.Request().Context(), c.Param("uid"), id); err != nil {
		if he := h.notFound(err); he != nil {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Prescription deleted successfully"})
}
