package repository

import (
	"context"
	"fmt"
	"testing"

	"filesmanager-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	user := &models.User{ID: "u1", Email: "bob@dylan.com", PasswordHash: "abc123"}
	store.AddUser(user)

	found, err := store.GetUserByEmailAndHash(ctx, "bob@dylan.com", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)

	_, err = store.GetUserByEmailAndHash(ctx, "bob@dylan.com", "wrong")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = store.GetUserByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)

	count, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	store.RemoveUser("u1")
	_, err = store.GetUserByID(ctx, "u1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestInMemoryStore_ListFilesByParent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	// Arquivos de dois donos misturados sob a mesma pasta pai
	names := []string{"zeta", "alpha", "mike", "bravo", "kilo"}
	for _, name := range names {
		require.NoError(t, store.CreateFile(ctx, models.NewFolder("u1", name, "p1", false)))
	}
	require.NoError(t, store.CreateFile(ctx, models.NewFolder("u2", "aaa-from-other-user", "p1", false)))

	files, err := store.ListFilesByParent(ctx, "u1", "p1", 0, 20)
	require.NoError(t, err)
	require.Len(t, files, 5)

	// Ordenação alfabética por nome, restrita ao dono
	expected := []string{"alpha", "bravo", "kilo", "mike", "zeta"}
	for i, file := range files {
		assert.Equal(t, expected[i], file.Name)
		assert.Equal(t, "u1", file.OwnerID)
	}
}

func TestInMemoryStore_ListFilesByParent_Pagination(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	for i := 0; i < 25; i++ {
		name := fmt.Sprintf("file-%02d", i)
		require.NoError(t, store.CreateFile(ctx, models.NewFolder("u1", name, "0", false)))
	}

	page1, err := store.ListFilesByParent(ctx, "u1", "0", 0, 20)
	require.NoError(t, err)
	assert.Len(t, page1, 20)
	assert.Equal(t, "file-00", page1[0].Name)

	page2, err := store.ListFilesByParent(ctx, "u1", "0", 20, 20)
	require.NoError(t, err)
	assert.Len(t, page2, 5)
	assert.Equal(t, "file-20", page2[0].Name)

	// Skip além do fim retorna vazio, nunca nil
	page3, err := store.ListFilesByParent(ctx, "u1", "0", 40, 20)
	require.NoError(t, err)
	assert.NotNil(t, page3)
	assert.Empty(t, page3)
}

func TestInMemoryStore_SetFilePublic(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	file := models.NewFolder("u1", "docs", "0", false)
	require.NoError(t, store.CreateFile(ctx, file))

	// Dono errado não atualiza nada
	err := store.SetFilePublic(ctx, file.ID, "u2", true)
	assert.ErrorIs(t, err, ErrFileNotFound)

	unchanged, err := store.GetFileByID(ctx, file.ID)
	require.NoError(t, err)
	assert.False(t, unchanged.IsPublic)

	require.NoError(t, store.SetFilePublic(ctx, file.ID, "u1", true))
	updated, err := store.GetFileByID(ctx, file.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)
}

func TestInMemoryStore_GetFileByIDAndOwner(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	file := models.NewFolder("u1", "docs", "0", false)
	require.NoError(t, store.CreateFile(ctx, file))

	found, err := store.GetFileByIDAndOwner(ctx, file.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "docs", found.Name)

	_, err = store.GetFileByIDAndOwner(ctx, file.ID, "u2")
	assert.ErrorIs(t, err, ErrFileNotFound)
}
