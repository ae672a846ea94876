package service

import (
	"context"
	"testing"

	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/pkg/logger"
	"bistro-cms-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarqueeService(t *testing.T) {
	db := newFakeDB()
	pub := &fakeEvents{}
	svc := NewMarqueeService(db, pub, logger.NewNopLogger())
	ctx := context.Background()

	first, err := svc.Create(ctx, &dto.SlideRequest{
		ImageURL: "/uploads/images/2026/10/a.webp",
		Caption:  map[string]string{"vi": "Khai trương", "en": "Grand opening"},
	})
	require.NoError(t, err)
	second, err := svc.Create(ctx, &dto.SlideRequest{ImageURL: "/uploads/images/2026/10/b.webp"})
	require.NoError(t, err)
	hidden, err := svc.Create(ctx, &dto.SlideRequest{ImageURL: "/uploads/c.webp", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, 0, first.SortOrder)
	assert.Equal(t, 1, second.SortOrder)

	_, err = svc.Create(ctx, &dto.SlideRequest{ImageURL: "/x.webp", Caption: map[string]string{"zh": "开业"}})
	assert.ErrorIs(t, err, ErrUnsupportedLocale)

	require.NoError(t, svc.Reorder(ctx, &dto.ReorderRequest{Ids: []uuid.UUID{second.Id, hidden.Id, first.Id}}))

	public, err := svc.ListActive(ctx, "en")
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, second.Id, public[0].Id)
	assert.Equal(t, "Grand opening", public[1].Caption)

	err = svc.Reorder(ctx, &dto.ReorderRequest{Ids: []uuid.UUID{first.Id}})
	assert.ErrorIs(t, err, ErrReorderMismatch)

	require.NoError(t, svc.Delete(ctx, hidden.Id))
	assert.ErrorIs(t, svc.Delete(ctx, hidden.Id), ErrSlideNotFound)

	_, err = svc.Update(ctx, &dto.SlideRequest{Id: uuid.New(), ImageURL: "/x.webp"})
	assert.ErrorIs(t, err, ErrSlideNotFound)

	assert.Contains(t, pub.Types(), events.MarqueeChanged)
	assert.NotContains(t, pub.Types(), events.MenuChanged)
}
