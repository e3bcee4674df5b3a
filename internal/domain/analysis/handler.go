package analysis

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prescript/prescript/internal/gateway/riskai"
	"github.com/prescript/prescript/internal/platform/auth"
)

// RiskScorer proxies prescriptions to the external scoring service.
// Satisfied by *riskai.Client.
type RiskScorer interface {
	ScoreRisk(ctx context.Context, req riskai.ScoreRequest) (*riskai.ScoreResponse, error)
}

type Handler struct {
	svc    *Service
	scorer RiskScorer
}

func NewHandler(svc *Service, scorer RiskScorer) *Handler {
	return &Handler{svc: svc, scorer: scorer}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	group := api.Group("", auth.RequireRole("admin", "doctor"))
	group.POST("/prescription-analysis/:email", h.Analyze)
	group.POST("/check-prescription", h.CheckPrescription)
}

func (h *Handler) Analyze(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Analyze(c.Request().Context(), c.Param("email"), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

type checkResponse struct {
	*riskai.ScoreResponse
	RiskTier string `json:"risk_tier"`
}

func (h *Handler) CheckPrescription(c echo.Context) error {
	var req riskai.ScoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	score, err := h.scorer.ScoreRisk(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "risk scorer unavailable")
	}
	return c.JSON(http.StatusOK, checkResponse{
		ScoreResponse: score,
		RiskTier:      riskai.RiskTier(score.Flag),
	})
}
