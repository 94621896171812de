package api

import (
	"net/http"

	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/fancurve"
	"github.com/labstack/echo/v4"
)

type curveCheckRequest struct {
	Device string `json:"device"`
	Curve  string `json:"curve"`
}

type curvePoint struct {
	Degrees    uint8 `json:"degrees"`
	FanPercent uint8 `json:"fanPercent"`
}

type curveCheckResponse struct {
	Device     string       `json:"device"`
	Valid      bool         `json:"valid"`
	Minimum    bool         `json:"minimum"`
	Curve      string       `json:"curve"`
	Points     []curvePoint `json:"points"`
	Violations []string     `json:"violations"`
}

func (s *Server) registerCurveEndpoints() {
	group := s.echo.Group("/curves")

	group.POST("/check/", s.checkCurve)
}

// parses and repairs a curve without touching the hardware
func (s *Server) checkCurve(c echo.Context) error {
	var request curveCheckRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err)
	}

	device, err := fancurve.ParseDevice(request.Device)
	if err != nil {
		return returnBadRequest(c, err)
	}

	conversion, err := fancurve.Convert(device, request.Curve, false)
	if err != nil {
		if isCurveError(err) {
			return returnBadRequest(c, err)
		}
		return returnError(c, err)
	}

	response := curveCheckResponse{
		Device:     device.String(),
		Valid:      !conversion.Adjusted,
		Minimum:    conversion.Minimum,
		Curve:      conversion.Table.String(),
		Violations: make([]string, 0, len(conversion.Violations)),
	}
	for _, entry := range conversion.Table.Entries() {
		response.Points = append(response.Points, curvePoint{Degrees: entry.Degrees, FanPercent: entry.FanPercent})
	}
	for _, violation := range conversion.Violations {
		response.Violations = append(response.Violations, violation.String())
	}

	return c.JSONPretty(http.StatusOK, response, indentationChar)
}

func isCurveError(err error) bool {
	return errors.HasCode(err, fancurve.ErrCurveSyntax) ||
		errors.HasCode(err, fancurve.ErrTooManyEntries) ||
		errors.HasCode(err, fancurve.ErrCurveRejected)
}
