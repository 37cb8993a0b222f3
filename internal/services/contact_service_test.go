package services_test

import (
	"context"
	"testing"

	"mediahub/internal/models"
	"mediahub/internal/repositories"
	"mediahub/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestContactService_CreateContact(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockContactRepository()
	service := services.NewContactService(repo)

	contact := &models.Contact{FirstName: " John ", LastName: "Doe", Email: "john@example.com"}
	require.NoError(t, service.CreateContact(ctx, contact))
	assert.Equal(t, "John", contact.FirstName)
	assert.NotZero(t, contact.ID)

	// Malformed email is rejected and nothing is stored.
	err := service.CreateContact(ctx, &models.Contact{FirstName: "Bad", LastName: "Mail", Email: "not-an-email"})
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Contains(t, err.Error(), "Email (email)")

	// Missing names
	err = service.CreateContact(ctx, &models.Contact{Email: "x@example.com"})
	assert.ErrorIs(t, err, services.ErrValidation)

	// Duplicate email
	err = service.CreateContact(ctx, &models.Contact{FirstName: "J", LastName: "D", Email: "john@example.com"})
	assert.ErrorIs(t, err, services.ErrValidation)

	all, err := service.ListContacts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestContactService_UpdateContact(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockContactRepository()
	service := services.NewContactService(repo)

	contact := &models.Contact{FirstName: "John", LastName: "Doe", Email: "john@example.com"}
	require.NoError(t, service.CreateContact(ctx, contact))

	updated, err := service.UpdateContact(ctx, contact.ID, services.ContactUpdate{FirstName: strPtr("Johnny")})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName)
	assert.Equal(t, "john@example.com", updated.Email)

	_, err = service.UpdateContact(ctx, contact.ID, services.ContactUpdate{Email: strPtr("not-an-email")})
	assert.ErrorIs(t, err, services.ErrValidation)

	stored, err := repo.GetByID(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", stored.Email)

	_, err = service.UpdateContact(ctx, 404, services.ContactUpdate{FirstName: strPtr("Ghost")})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestContactService_DeleteContact(t *testing.T) {
	ctx := context.Background()
	service := services.NewContactService(repositories.NewMockContactRepository())

	contact := &models.Contact{FirstName: "John", LastName: "Doe", Email: "john@example.com"}
	require.NoError(t, service.CreateContact(ctx, contact))

	require.NoError(t, service.DeleteContact(ctx, contact.ID))
	assert.ErrorIs(t, service.DeleteContact(ctx, contact.ID), services.ErrNotFound)
}
