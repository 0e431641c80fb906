package report

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medrec/medrec/internal/domain/patient"
	"github.com/medrec/medrec/internal/platform/auth"
	"github.com/medrec/medrec/internal/platform/blobstore"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "user"))
	read.GET("/reports/by-uid/:uid", h.ListByUID, auth.RequirePatientScope())
	read.GET("/reports/file/:fileName", h.FetchFile)

	write := api.Group("", auth.RequireRole("admin"))
	write.POST("/reports/by-uid/:uid", h.Create)
	write.PUT("/reports/by-uid/:uid/:id", h.Update)
	write.DELETE("/reports/by-uid/:uid/:id", h.Delete)
}

// formUpload extracts the multipart "file" part, if present. The returned
// closer is the opened part and must be closed by the caller.
func formUpload(c echo.Context) (*FileUpload, multipart.File, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	src, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &FileUpload{
		FileName: fh.Filename,
		MIMEType: fh.Header.Get(echo.HeaderContentType),
		Size:     fh.Size,
		Content:  src,
	}, src, nil
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, patient.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Report not found")
	case errors.Is(err, blobstore.ErrBlobNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) Create(c echo.Context) error {
	name := c.FormValue("name")
	upload, src, err := formUpload(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if upload == nil || name == "" {
		if src != nil {
			src.Close()
		}
		return echo.NewHTTPError(http.StatusBadRequest, "File and name are required")
	}
	defer src.Close()

	rep, err := h.svc.Create(c.Request().Context(), c.Param("uid"), name, upload)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusCreated, rep)
}

func (h *Handler) ListByUID(c echo.Context) error {
	items, err := h.svc.ListByUID(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return h.mapError(err)
	}
	if items == nil {
		items = []*Report{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report id")
	}
	upload, src, err := formUpload(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if src != nil {
		defer src.Close()
	}

	rep, err := h.svc.Update(c.Request().Context(), c.Param("uid"), id, c.FormValue("name"), upload)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report id")
	}
	if err := h.svc.Delete(c.Request().Context(), c.Param("uid"), id); err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Report deleted successfully"})
}

func (h *Handler) FetchFile(c echo.Context) error {
	rc, contentType, err := h.svc.FetchFile(c.Request().Context(), c.Param("fileName"))
	if err != nil {
		return h.mapError(err)
	}
	defer rc.Close()
	return c.Stream(http.StatusOK, contentType, rc)
}
