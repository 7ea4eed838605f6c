package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCase binds one sentinel error to the HTTP status and message it should
// produce.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError matches err against the known cases in order and
// writes the first hit; anything unmatched gets the fallback response.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, candidate := range cases {
		if candidate.Err == nil {
			continue
		}
		if errors.Is(err, candidate.Err) {
			c.JSON(candidate.Status, NewErrorResponse(c, candidate.Message))
			return
		}
	}

	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}
