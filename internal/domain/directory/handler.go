package directory

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prescript/prescript/internal/platform/auth"
	"github.com/prescript/prescript/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints, any authenticated role
	api.GET("/get-hospital/:name", h.GetHospitalByName)
	api.GET("/get-doctor/:email", h.GetDoctorByEmail)
	api.GET("/get-doctors", h.ListDoctors)

	// Write endpoints require the admin or doctor role
	writeGroup := api.Group("", auth.RequireRole("admin", "doctor"))
	writeGroup.POST("/create-hospital", h.CreateHospital)
	writeGroup.POST("/create-doctor", h.CreateDoctor)
}

func (h *Handler) CreateHospital(c echo.Context) error {
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateHospital(c.Request().Context(), &hosp); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, "hospital already exists")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, hosp)
}

func (h *Handler) GetHospitalByName(c echo.Context) error {
	hosp, err := h.svc.GetHospitalByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDoctor(c.Request().Context(), &d); err != nil {
		switch {
		case errors.Is(err, ErrDuplicate):
			return echo.NewHTTPError(http.StatusConflict, "doctor already exists")
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDoctorByEmail(c echo.Context) error {
	d, err := h.svc.GetDoctorByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDoctors(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
