package api

import (
	"net/http"
	"strconv"

	"codeberg.org/mutker/atkctl/internal/history"
	"github.com/labstack/echo/v4"
)

const queryParamLimit = "limit"

func (s *Server) registerHistoryEndpoints() {
	group := s.echo.Group("/history")

	group.GET("/", s.getHistory)
}

func (s *Server) getHistory(c echo.Context) error {
	limit := history.DefaultLimit
	if raw := c.QueryParam(queryParamLimit); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return returnBadRequest(c, echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive number"))
		}
		limit = parsed
	}

	records, err := s.engine.History().Recent(c.Request().Context(), limit)
	if err != nil {
		return returnError(c, err)
	}
	if records == nil {
		records = []history.Record{}
	}

	return c.JSONPretty(http.StatusOK, records, indentationChar)
}
