package api

import (
	"net/http"

	"codeberg.org/mutker/atkctl/internal/config"
	"codeberg.org/mutker/atkctl/internal/engine"
	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/history"
	"github.com/labstack/echo/v4"
	"github.com/qdm12/reprint"
)

type plansResponse struct {
	Active string        `json:"active,omitempty"`
	Plans  []config.Plan `json:"plans"`
}

type applyResponse struct {
	Status      string `json:"status"`
	Plan        string `json:"plan,omitempty"`
	PowerPlan   string `json:"powerPlan,omitempty"`
	CPUCurve    string `json:"cpuCurve,omitempty"`
	GPUCurve    string `json:"gpuCurve,omitempty"`
	CPUAdjusted bool   `json:"cpuAdjusted"`
	GPUAdjusted bool   `json:"gpuAdjusted"`
}

func (s *Server) registerPlanEndpoints() {
	group := s.echo.Group("/plans")

	group.GET("/", s.getPlans)
	group.GET("/active/", s.getActivePlan)
	group.POST("/active/apply/", s.applyActivePlan)
	group.POST("/:"+urlParamName+"/apply/", s.applyPlan)
}

// returns a list of all configured plans
func (s *Server) getPlans(c echo.Context) error {
	response := plansResponse{Plans: s.engine.Plans()}
	if active, ok := s.engine.ActivePlan(); ok {
		response.Active = active.Name
	}

	return c.JSONPretty(http.StatusOK, reprint.This(response), indentationChar)
}

func (s *Server) getActivePlan(c echo.Context) error {
	active, ok := s.engine.ActivePlan()
	if !ok {
		return returnNotFound(c, "active")
	}

	return c.JSONPretty(http.StatusOK, reprint.This(active), indentationChar)
}

func (s *Server) applyPlan(c echo.Context) error {
	name := c.Param(urlParamName)
	ctx := history.WithSource(c.Request().Context(), history.SourceAPI)

	result, err := s.engine.Apply(ctx, name)
	if errors.HasCode(err, engine.ErrUnknownPlan) {
		return returnNotFound(c, name)
	}
	if err != nil {
		return returnError(c, err)
	}

	return c.JSONPretty(http.StatusOK, newApplyResponse(result), indentationChar)
}

func (s *Server) applyActivePlan(c echo.Context) error {
	ctx := history.WithSource(c.Request().Context(), history.SourceAPI)

	result, err := s.engine.ApplyActive(ctx)
	if err != nil {
		return returnError(c, err)
	}
	if result.Status == engine.NoPlan {
		return returnNotFound(c, "active")
	}

	return c.JSONPretty(http.StatusOK, newApplyResponse(result), indentationChar)
}

func newApplyResponse(result engine.Result) applyResponse {
	response := applyResponse{
		Status:    result.Status.String(),
		Plan:      result.Plan,
		PowerPlan: result.PowerPlan.String(),
	}
	if result.CPU != nil {
		response.CPUCurve = result.CPU.Table.String()
		response.CPUAdjusted = result.CPU.Adjusted
	}
	if result.GPU != nil {
		response.GPUCurve = result.GPU.Table.String()
		response.GPUAdjusted = result.GPU.Adjusted
	}

	return response
}
