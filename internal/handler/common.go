package handler

import (
	"errors"

	"go-pos-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// parseUUID parses a route or query id parameter
func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// validationFailed answers 422 with the field-keyed error map when err is a
// ValidationError; otherwise it reports false and the caller handles err.
func validationFailed(c *fiber.Ctx, err error) (bool, error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return true, c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"errors":  verr.Fields(),
		})
	}
	return false, nil
}
