package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/opulencedeveloper/hotelsuite/internal/billing"
)

// Envelope is the uniform response shape for every API reply. Errors carry
// a machine-readable kind so callers branch on it instead of parsing the
// description; data is null on errors.
type Envelope struct {
	Status      string      `json:"status"`
	Kind        string      `json:"kind,omitempty"`
	Description string      `json:"description"`
	Data        interface{} `json:"data"`
}

// Success writes a 200 success envelope.
func Success(c echo.Context, description string, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{
		Status:      "success",
		Description: description,
		Data:        data,
	})
}

// Failure maps a pipeline error to its status code and error envelope. An
// untyped error never leaks its message to the caller.
func Failure(c echo.Context, err error) error {
	if typed, ok := billing.AsError(err); ok {
		return c.JSON(typed.Kind.HTTPStatus(), Envelope{
			Status:      "error",
			Kind:        string(typed.Kind),
			Description: typed.Description,
			Data:        nil,
		})
	}

	log.Error().Err(err).Msg("Unhandled error in API handler")
	return c.JSON(http.StatusInternalServerError, Envelope{
		Status:      "error",
		Kind:        string(billing.KindInternal),
		Description: "something went wrong",
		Data:        nil,
	})
}
