package prescription

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
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
	api.GET("/get-prescript/:id", h.GetByID)
	api.GET("/get-prescripts/:email", h.ListByPatient)
	api.GET("/get-prescripts-by-doctor/:email", h.ListByDoctor)
	api.GET("/get-prescripts-not-expired-by-doctor/:email", h.ListActiveByDoctor)
	api.GET("/get-expired-prescripts-by-doctor/:email", h.ListCompletedByDoctor)
	api.GET("/get-patients-by-doctor/:email", h.ListPatientsByDoctor)
	api.GET("/get-prescripts-grouped/:email", h.ListGroupedByPatient)

	// Write endpoints require the admin or doctor role
	writeGroup := api.Group("", auth.RequireRole("admin", "doctor"))
	writeGroup.POST("/create-prescript", h.Create)
	writeGroup.PUT("/complete-prescript/:id", h.Complete)
}

func httpError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Create(c.Request().Context(), &in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalid):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, p)
}

type completeInput struct {
	Note          string   `json:"note"`
	SideEffects   []string `json:"side_effects"`
	Effectiveness int      `json:"effectiveness"`
}

func (h *Handler) Complete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in completeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Complete(c.Request().Context(), id, in.Note, in.SideEffects, in.Effectiveness)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), c.Param("email"), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListByDoctor(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByDoctor(c.Request().Context(), c.Param("email"), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// activeRecord decorates an active prescription with day counts for the
// dashboard views.
type activeRecord struct {
	*Prescription
	DaysRemaining  int  `json:"days_remaining"`
	IsExpiringSoon bool `json:"is_expiring_soon"`
}

func (h *Handler) ListActiveByDoctor(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListActiveByDoctor(c.Request().Context(), c.Param("email"), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	now := time.Now()
	out := make([]activeRecord, 0, len(items))
	for _, p := range items {
		out = append(out, activeRecord{
			Prescription:   p,
			DaysRemaining:  DaysRemaining(p.MedicationEndDate, now),
			IsExpiringSoon: IsExpiringSoon(p.MedicationEndDate, now),
		})
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(out, total, pg.Limit, pg.Offset))
}

type expiredRecord struct {
	*Prescription
	DaysSinceExpired int `json:"days_since_expired"`
}

func (h *Handler) ListCompletedByDoctor(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListCompletedByDoctor(c.Request().Context(), c.Param("email"), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	now := time.Now()
	out := make([]expiredRecord, 0, len(items))
	for _, p := range items {
		out = append(out, expiredRecord{
			Prescription:     p,
			DaysSinceExpired: DaysSinceExpired(p.MedicationEndDate, now),
		})
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(out, total, pg.Limit, pg.Offset))
}

// ListPatientsByDoctor derives the roll-up from the doctor's full record
// set rather than a page.
func (h *Handler) ListPatientsByDoctor(c echo.Context) error {
	items, err := h.svc.ListAllByDoctor(c.Request().Context(), c.Param("email"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patients": PatientRollup(items, time.Now()),
	})
}

// ListGroupedByPatient buckets the patient's full record set by start
// month.
func (h *Handler) ListGroupedByPatient(c echo.Context) error {
	items, err := h.svc.ListAllByPatient(c.Request().Context(), c.Param("email"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"groups": GroupByStartMonth(items),
	})
}
