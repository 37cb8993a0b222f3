package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mediahub/internal/middleware"
	"mediahub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// HistoryHandler serves a user's search history ledger.
type HistoryHandler struct {
	historyService *services.HistoryService
	authService    *services.AuthService
	validate       *validator.Validate
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService *services.HistoryService, authService *services.AuthService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		authService:    authService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the history routes on a /search_history group.
// The group is expected to run middleware.AuthRequired.
func (h *HistoryHandler) RegisterRoutes(router fiber.Router) {
	router.Get("", h.HandleListHistory)
	router.Post("", h.HandleSaveSearch)
	router.Delete("/:id", h.HandleDeleteSearch)
}

// SaveSearchRequest is the body of POST /search_history.
type SaveSearchRequest struct {
	Username string `json:"username" validate:"required"`
	Query    string `json:"query" validate:"required,max=200"`
}

func (h *HistoryHandler) HandleListHistory(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username required"})
	}
	if ok, err := h.authorize(c, username); !ok {
		return err
	}

	history, err := h.historyService.ListHistory(c.UserContext(), username)
	if err != nil {
		return respondError(c, "Could not load search history", err)
	}
	return c.JSON(fiber.Map{"history": history})
}

func (h *HistoryHandler) HandleSaveSearch(c *fiber.Ctx) error {
	var req SaveSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Query = strings.TrimSpace(req.Query)
	if req.Username == "" || req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username and query required"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return respondValidation(c, err)
	}
	if ok, err := h.authorize(c, req.Username); !ok {
		return err
	}

	entry, err := h.historyService.SaveSearch(c.UserContext(), req.Username, req.Query)
	if err != nil {
		return respondError(c, "Could not save search", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Search saved",
		"id":      entry.ID,
	})
}

func (h *HistoryHandler) HandleDeleteSearch(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username required"})
	}
	id, err := strconv.ParseUint(c.Params("id"), 10, 0)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid search id"})
	}
	if ok, err := h.authorize(c, username); !ok {
		return err
	}

	if err := h.historyService.DeleteEntry(c.UserContext(), username, uint(id)); err != nil {
		return respondError(c, "Could not delete search", err)
	}
	return c.JSON(fiber.Map{"message": "Search deleted"})
}

// authorize checks that username names the token's subject. Another user's
// ledger is reported as not found. It writes the response itself and reports
// whether the handler may continue.
func (h *HistoryHandler) authorize(c *fiber.Ctx, username string) (bool, error) {
	userID, _ := c.Locals(middleware.UserIDKey).(string)
	user, err := h.authService.UserByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or missing token",
			})
		}
		return false, respondError(c, "Could not resolve user", err)
	}
	if user.Username != username {
		return false, respondError(c, "User not found", fmt.Errorf("user %q: %w", username, services.ErrNotFound))
	}
	return true, nil
}
