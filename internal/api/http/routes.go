package httpapi

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/harshitmangtani02/aitf/internal/chat"
	"github.com/harshitmangtani02/aitf/internal/nlu"
	"github.com/harshitmangtani02/aitf/internal/weather/openmeteo"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *chat.Service) {
	v1 := app.Group("/api/v1")

	v1.Post("/chat", func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		req.setDefaults()
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		sessionID := chat.SessionID(
			c.Get("x-forwarded-for"),
			c.Get("x-real-ip"),
			c.Get(fiber.HeaderUserAgent),
		)

		reply := service.Reply(c.Context(), req.Messages, req.Language, sessionID)

		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(reply)
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		query := strings.TrimSpace(c.Query("query"))
		if query == "" {
			return fiber.NewError(fiber.StatusBadRequest, "query parameter is required")
		}

		rec, err := service.Query(c.Context(), query)
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrMissingLocation), errors.Is(err, nlu.ErrForecastLimit):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			case errors.Is(err, openmeteo.ErrCityNotFound):
				return fiber.NewError(fiber.StatusNotFound, "city not found")
			default:
				return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
			}
		}

		return c.JSON(rec)
	})
}

// chatRequest is the POST /api/v1/chat body. The client resends the whole
// conversation on every turn.
type chatRequest struct {
	Messages []chat.Turn `json:"messages"`
	Language string      `json:"language" validate:"oneof=en ja"`
}

func (r *chatRequest) setDefaults() {
	if r.Language == "" {
		r.Language = "en"
	}
}
