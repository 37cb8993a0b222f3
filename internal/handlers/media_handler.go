package handlers

import (
	"context"
	"strings"

	"mediahub/internal/openverse"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// MediaGateway is the subset of the Openverse client the media routes depend on.
type MediaGateway interface {
	SearchImages(ctx context.Context, s openverse.ImageSearch) (openverse.Document, error)
	SearchAudio(ctx context.Context, s openverse.AudioSearch) (openverse.Document, error)
	ImageDetail(ctx context.Context, id string) (openverse.Document, error)
	AudioDetail(ctx context.Context, id string) (openverse.Document, error)
	ImageStats(ctx context.Context) ([]openverse.Document, error)
	AudioStats(ctx context.Context) ([]openverse.Document, error)
	RateLimit(ctx context.Context) (openverse.Document, error)
	RegisterApplication(ctx context.Context, name, description, email string) (openverse.Document, error)
	FetchToken(ctx context.Context) (*openverse.Token, error)
}

// MediaHandler proxies media lookups to Openverse and passes the payloads through.
type MediaHandler struct {
	gateway  MediaGateway
	validate *validator.Validate
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(gateway MediaGateway) *MediaHandler {
	return &MediaHandler{
		gateway:  gateway,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the media routes with the Fiber app.
func (h *MediaHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/search_images", h.HandleSearchImages)
	router.Get("/search_audio", h.HandleSearchAudio)
	router.Get("/image_detail/:id", h.HandleImageDetail)
	router.Get("/audio_detail/:id", h.HandleAudioDetail)
	router.Get("/image_stats", h.HandleImageStats)
	router.Get("/audio_stats", h.HandleAudioStats)
	router.Get("/rate_limit", h.HandleRateLimit)
	router.Post("/register_openverse", h.HandleRegisterApplication)
	router.Post("/get_openverse_token", h.HandleFetchToken)
}

// RegisterApplicationRequest is the body of POST /register_openverse.
type RegisterApplicationRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
}

func (h *MediaHandler) HandleSearchImages(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Search query is required"})
	}

	result, err := h.gateway.SearchImages(c.UserContext(), openverse.ImageSearch{
		Query:       query,
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("page_size", 20),
		LicenseType: c.Query("license"),
		Creator:     c.Query("creator"),
		Tags:        splitTags(c.Query("tags")),
	})
	if err != nil {
		return respondGatewayError(c, "Image search failed", err)
	}
	return c.JSON(result)
}

func (h *MediaHandler) HandleSearchAudio(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Search query is required"})
	}

	result, err := h.gateway.SearchAudio(c.UserContext(), openverse.AudioSearch{
		Query:       query,
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("page_size", 20),
		LicenseType: c.Query("license"),
	})
	if err != nil {
		return respondGatewayError(c, "Audio search failed", err)
	}
	return c.JSON(result)
}

func (h *MediaHandler) HandleImageDetail(c *fiber.Ctx) error {
	result, err := h.gateway.ImageDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondGatewayError(c, "Image lookup failed", err)
	}
	return c.JSON(result)
}

func (h *MediaHandler) HandleAudioDetail(c *fiber.Ctx) error {
	result, err := h.gateway.AudioDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondGatewayError(c, "Audio lookup failed", err)
	}
	return c.JSON(result)
}

func (h *MediaHandler) HandleImageStats(c *fiber.Ctx) error {
	result, err := h.gateway.ImageStats(c.UserContext())
	if err != nil {
		return respondGatewayError(c, "Image stats failed", err)
	}
	return c.JSON(result)
}

func (h *MediaHandler) HandleAudioStats(c *fiber.Ctx) error {
	result, err := h.gateway.AudioStats(c.UserContext())
	if err != nil {
		return respondGatewayError(c, "Audio stats failed", err)
	}
	return c.JSON(result)
}

func (h *MediaHandler) HandleRateLimit(c *fiber.Ctx) error {
	result, err := h.gateway.RateLimit(c.UserContext())
	if err != nil {
		return respondGatewayError(c, "Rate limit lookup failed", err)
	}
	return c.JSON(result)
}

func (h *MediaHandler) HandleRegisterApplication(c *fiber.Ctx) error {
	var req RegisterApplicationRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	result, err := h.gateway.RegisterApplication(c.UserContext(), req.Name, req.Description, req.Email)
	if err != nil {
		return respondGatewayError(c, "Application registration failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Application registered",
		"data":    result,
	})
}

func (h *MediaHandler) HandleFetchToken(c *fiber.Ctx) error {
	token, err := h.gateway.FetchToken(c.UserContext())
	if err != nil {
		return respondGatewayError(c, "Token request failed", err)
	}
	return c.JSON(fiber.Map{
		"message": "Token obtained",
		"data":    token,
	})
}

// splitTags turns "a, b,,c" into [a b c].
func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
