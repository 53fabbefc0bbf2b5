package handler

import "github.com/labstack/echo/v4"

// envelope is the uniform success shape: {"status":"success","data":...}.
// Error envelopes are produced centrally by the API error handler.
type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

func respond(c echo.Context, code int, data any) error {
	return c.JSON(code, envelope{Status: "success", Data: data})
}

// listEnvelope adds result counts for paginated collections.
type listEnvelope struct {
	Status  string `json:"status"`
	Results int    `json:"results"`
	Total   int64  `json:"total"`
	Data    any    `json:"data"`
}

func respondList(c echo.Context, code int, results int, total int64, data any) error {
	return c.JSON(code, listEnvelope{Status: "success", Results: results, Total: total, Data: data})
}
