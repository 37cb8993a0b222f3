package repositories_test

import (
	"context"
	"testing"

	"mediahub/internal/models"
	"mediahub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactRepositories(t *testing.T) {
	impls := map[string]func(t *testing.T) repositories.ContactRepository{
		"gorm": func(t *testing.T) repositories.ContactRepository {
			return repositories.NewGORMContactRepository(openTestDB(t))
		},
		"memory": func(t *testing.T) repositories.ContactRepository {
			return repositories.NewMockContactRepository()
		},
	}

	for name, newRepo := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)

			john := &models.Contact{FirstName: "John", LastName: "Doe", Email: "john@example.com"}
			jane := &models.Contact{FirstName: "Jane", LastName: "Roe", Email: "jane@example.com"}
			require.NoError(t, repo.Create(ctx, john))
			require.NoError(t, repo.Create(ctx, jane))
			assert.Less(t, john.ID, jane.ID)

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "John", all[0].FirstName)

			john.FirstName = "Johnny"
			require.NoError(t, repo.Update(ctx, john))
			got, err := repo.GetByID(ctx, john.ID)
			require.NoError(t, err)
			assert.Equal(t, "Johnny", got.FirstName)

			require.NoError(t, repo.Delete(ctx, john.ID))
			_, err = repo.GetByID(ctx, john.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.ErrorIs(t, repo.Delete(ctx, john.ID), repositories.ErrNotFound)

			ghost := &models.Contact{ID: 999, FirstName: "G", LastName: "H", Email: "g@example.com"}
			assert.ErrorIs(t, repo.Update(ctx, ghost), repositories.ErrNotFound)
		})
	}
}
