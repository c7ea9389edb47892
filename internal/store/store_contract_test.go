package store

import (
	"context"
	"strings"
	"testing"

	perrors "github.com/abgdnv/products/internal/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks the behaviour every ProductStore must share.
// newStore must return a store without any products.
func runStoreContract(t *testing.T, newStore func(t *testing.T) ProductStore) {
	ctx := context.Background()

	t.Run("create and find by id", func(t *testing.T) {
		// given
		s := newStore(t)
		// when
		created, err := s.Create(ctx, "Banana")
		// then
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "Banana", created.Name)
		assert.Nil(t, created.Category)
		assert.False(t, created.CreatedAt.IsZero())

		found, err := s.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "Banana", found.Name)
	})

	t.Run("find by id not found", func(t *testing.T) {
		// given
		s := newStore(t)
		id := uuid.New()
		// when
		found, err := s.FindByID(ctx, id)
		// then
		assert.Nil(t, found)
		assert.ErrorIs(t, err, perrors.ErrProductNotFound)
		var nf *perrors.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, id.String(), nf.ID)
	})

	t.Run("create rejects a name that is too long", func(t *testing.T) {
		// given
		s := newStore(t)
		// when
		_, err := s.Create(ctx, strings.Repeat("a", 256))
		// then
		assert.ErrorIs(t, err, perrors.ErrInvalidProduct)
	})

	t.Run("find all after one create returns one product", func(t *testing.T) {
		// given
		s := newStore(t)
		_, err := s.Create(ctx, "Apple")
		require.NoError(t, err)
		// when
		products, err := s.FindAll(ctx, 0, 0)
		// then
		require.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("find all on empty store", func(t *testing.T) {
		// given
		s := newStore(t)
		// when
		products, err := s.FindAll(ctx, 0, 0)
		// then
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	t.Run("find all paginates in creation order", func(t *testing.T) {
		// given
		s := newStore(t)
		for _, name := range []string{"p1", "p2", "p3", "p4"} {
			_, err := s.Create(ctx, name)
			require.NoError(t, err)
		}
		// when
		page, err := s.FindAll(ctx, 1, 2)
		// then
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "p2", page[0].Name)
		assert.Equal(t, "p3", page[1].Name)

		// when
		tail, err := s.FindAll(ctx, 3, 0)
		// then
		require.NoError(t, err)
		require.Len(t, tail, 1)
		assert.Equal(t, "p4", tail[0].Name)

		// when
		beyond, err := s.FindAll(ctx, 10, 5)
		// then
		require.NoError(t, err)
		assert.Empty(t, beyond)
	})

	t.Run("save persists attributes and keeps id", func(t *testing.T) {
		// given
		s := newStore(t)
		created, err := s.Create(ctx, "Apple")
		require.NoError(t, err)
		category := "Hola"
		changed := *created
		changed.Name = "Orange"
		changed.Category = &category
		// when
		saved, err := s.Save(ctx, &changed)
		// then
		require.NoError(t, err)
		assert.Equal(t, created.ID, saved.ID)
		assert.Equal(t, "Orange", saved.Name)
		require.NotNil(t, saved.Category)
		assert.Equal(t, "Hola", *saved.Category)
		assert.False(t, saved.UpdatedAt.Before(created.UpdatedAt))

		found, err := s.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Orange", found.Name)
		require.NotNil(t, found.Category)
		assert.Equal(t, "Hola", *found.Category)
	})

	t.Run("save without changes still succeeds", func(t *testing.T) {
		// given
		s := newStore(t)
		created, err := s.Create(ctx, "Apple")
		require.NoError(t, err)
		// when
		saved, err := s.Save(ctx, created)
		// then
		require.NoError(t, err)
		assert.Equal(t, "Apple", saved.Name)
	})

	t.Run("save missing product", func(t *testing.T) {
		// given
		s := newStore(t)
		// when
		_, err := s.Save(ctx, &Product{ID: uuid.New(), Name: "Ghost"})
		// then
		assert.ErrorIs(t, err, perrors.ErrProductNotFound)
	})

	t.Run("save rejects invalid product", func(t *testing.T) {
		// given
		s := newStore(t)
		created, err := s.Create(ctx, "Apple")
		require.NoError(t, err)
		created.Name = strings.Repeat("b", 300)
		// when
		_, err = s.Save(ctx, created)
		// then
		assert.ErrorIs(t, err, perrors.ErrInvalidProduct)
		found, err := s.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Apple", found.Name)
	})

	t.Run("create and save reject text the database cannot store", func(t *testing.T) {
		// given
		s := newStore(t)
		created, err := s.Create(ctx, "Apple")
		require.NoError(t, err)
		// when
		_, nulErr := s.Create(ctx, "a\x00b")
		_, utf8Err := s.Create(ctx, "\xff\xfe")
		created.Category = strPtr("\xff")
		_, saveErr := s.Save(ctx, created)
		// then
		var ve *perrors.ValidationError
		require.ErrorAs(t, nulErr, &ve)
		assert.Equal(t, map[string]string{"name": "failed on rule: utf8text"}, ve.Fields)
		assert.ErrorIs(t, utf8Err, perrors.ErrInvalidProduct)
		assert.ErrorIs(t, saveErr, perrors.ErrInvalidProduct)
		all, err := s.FindAll(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Nil(t, all[0].Category)
	})

	t.Run("delete then find is not found", func(t *testing.T) {
		// given
		s := newStore(t)
		created, err := s.Create(ctx, "Apple")
		require.NoError(t, err)
		// when
		err = s.DeleteByID(ctx, created.ID)
		// then
		require.NoError(t, err)
		_, err = s.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, perrors.ErrProductNotFound)
		products, err := s.FindAll(ctx, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("delete missing product", func(t *testing.T) {
		// given
		s := newStore(t)
		// when
		err := s.DeleteByID(ctx, uuid.New())
		// then
		assert.ErrorIs(t, err, perrors.ErrProductNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(ctx))
	})
}
