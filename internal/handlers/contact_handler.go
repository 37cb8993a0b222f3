package handlers

import (
	"log"
	"strconv"

	"mediahub/internal/models"
	"mediahub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ContactHandler handles HTTP requests for the contact book.
type ContactHandler struct {
	contactService *services.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// RegisterRoutes registers the contact routes with the Fiber app.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/contacts", h.HandleListContacts)
	router.Post("/create_contact", h.HandleCreateContact)
	router.Patch("/update_contact/:id", h.HandleUpdateContact)
	router.Delete("/delete_contact/:id", h.HandleDeleteContact)
}

// ContactRequest is the body of create and update requests.
// Absent fields are nil, which a partial update leaves unchanged.
type ContactRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *ContactHandler) HandleListContacts(c *fiber.Ctx) error {
	contacts, err := h.contactService.ListContacts(c.UserContext())
	if err != nil {
		return respondError(c, "Could not list contacts", err)
	}
	return c.JSON(fiber.Map{"contacts": contacts})
}

func (h *ContactHandler) HandleCreateContact(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	contact := models.Contact{
		FirstName: deref(req.FirstName),
		LastName:  deref(req.LastName),
		Email:     deref(req.Email),
	}
	if err := h.contactService.CreateContact(c.UserContext(), &contact); err != nil {
		log.Printf("Error creating contact: %v", err)
		return respondError(c, "Could not create contact", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created!",
		"contact": contact,
	})
}

func (h *ContactHandler) HandleUpdateContact(c *fiber.Ctx) error {
	id, ok := contactID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	update := services.ContactUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	contact, err := h.contactService.UpdateContact(c.UserContext(), id, update)
	if err != nil {
		return respondError(c, "Could not update contact", err)
	}

	return c.JSON(fiber.Map{
		"message": "User updated",
		"contact": contact,
	})
}

func (h *ContactHandler) HandleDeleteContact(c *fiber.Ctx) error {
	id, ok := contactID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}
	if err := h.contactService.DeleteContact(c.UserContext(), id); err != nil {
		return respondError(c, "Could not delete contact", err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// contactID parses the :id path parameter. An id that is not a positive integer names no contact.
func contactID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
