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

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func seedMenu(t *testing.T, svc IMenuService, items ...dto.MenuItemRequest) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		res, err := svc.Create(context.Background(), &items[i])
		require.NoError(t, err)
		ids = append(ids, res.Id)
	}
	return ids
}

func TestMenuServiceCreateAppendsToEnd(t *testing.T) {
	db := newFakeDB()
	pub := &fakeEvents{}
	svc := NewMenuService(db, pub, logger.NewNopLogger())

	seedMenu(t, svc,
		dto.MenuItemRequest{Name: map[string]string{"vi": "Phở bò"}, Category: "pho", PriceVnd: 65000},
		dto.MenuItemRequest{Name: map[string]string{"vi": "Bún chả"}, Category: "bun", PriceVnd: 60000},
	)
	pinned, err := svc.Create(context.Background(), &dto.MenuItemRequest{
		Name:      map[string]string{"vi": "Cà phê sữa đá"},
		Category:  "drinks",
		SortOrder: intPtr(10),
		IsActive:  boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, pinned.SortOrder)
	assert.False(t, pinned.IsActive)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, 0, items[0].SortOrder)
	assert.Equal(t, 1, items[1].SortOrder)
	assert.True(t, items[0].IsActive)
	assert.Equal(t, []string{events.MenuChanged, events.MenuChanged, events.MenuChanged}, pub.Types())
}

func TestMenuServiceListActive(t *testing.T) {
	svc := NewMenuService(newFakeDB(), &fakeEvents{}, logger.NewNopLogger())
	seedMenu(t, svc,
		dto.MenuItemRequest{Name: map[string]string{"vi": "Phở bò", "en": "Beef pho"}, Category: "pho"},
		dto.MenuItemRequest{Name: map[string]string{"vi": "Phở gà"}, Category: "pho"},
		dto.MenuItemRequest{Name: map[string]string{"vi": "Trà đá"}, Category: "drinks"},
		dto.MenuItemRequest{Name: map[string]string{"vi": "Hết hàng"}, Category: "pho", IsActive: boolPtr(false)},
	)

	tests := []struct {
		name      string
		locale    string
		category  string
		wantNames []string
		wantErr   error
	}{
		{"default locale", "", "", []string{"Phở bò", "Phở gà", "Trà đá"}, nil},
		{"english falls back per item", "en", "pho", []string{"Beef pho", "Phở gà"}, nil},
		{"unknown category", "vi", "dessert", []string{}, nil},
		{"unsupported locale", "th", "", nil, ErrUnsupportedLocale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.ListActive(context.Background(), tt.locale, tt.category)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			names := make([]string, 0, len(items))
			for _, it := range items {
				names = append(names, it.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestMenuServiceUpdateAndDelete(t *testing.T) {
	svc := NewMenuService(newFakeDB(), &fakeEvents{}, logger.NewNopLogger())
	ids := seedMenu(t, svc, dto.MenuItemRequest{Name: map[string]string{"vi": "Phở bò"}, PriceVnd: 65000})

	res, err := svc.Update(context.Background(), &dto.MenuItemRequest{
		Id:       ids[0],
		Name:     map[string]string{"vi": "Phở bò tái"},
		PriceVnd: 70000,
		IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(70000), res.PriceVnd)
	assert.False(t, res.IsActive)
	assert.NotNil(t, res.UpdatedAt)

	_, err = svc.Update(context.Background(), &dto.MenuItemRequest{Id: uuid.New(), Name: map[string]string{"vi": "x"}})
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	require.NoError(t, svc.Delete(context.Background(), ids[0]))
	assert.ErrorIs(t, svc.Delete(context.Background(), ids[0]), ErrMenuItemNotFound)
}

func TestMenuServiceReorder(t *testing.T) {
	newMenu := func(t *testing.T) (*fakeDB, IMenuService, []uuid.UUID) {
		db := newFakeDB()
		svc := NewMenuService(db, &fakeEvents{}, logger.NewNopLogger())
		ids := seedMenu(t, svc,
			dto.MenuItemRequest{Name: map[string]string{"vi": "A"}},
			dto.MenuItemRequest{Name: map[string]string{"vi": "B"}},
			dto.MenuItemRequest{Name: map[string]string{"vi": "C"}},
		)
		return db, svc, ids
	}

	t.Run("applies permutation", func(t *testing.T) {
		db, svc, ids := newMenu(t)
		require.NoError(t, svc.Reorder(context.Background(), &dto.ReorderRequest{Ids: []uuid.UUID{ids[2], ids[0], ids[1]}}))

		items, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{ids[2], ids[0], ids[1]}, []uuid.UUID{items[0].Id, items[1].Id, items[2].Id})
		assert.Equal(t, 1, db.commits)
		assert.Equal(t, 0, db.rollbacks)
	})

	rejects := []struct {
		name string
		ids  func(ids []uuid.UUID) []uuid.UUID
	}{
		{"missing id", func(ids []uuid.UUID) []uuid.UUID { return ids[:2] }},
		{"duplicate id", func(ids []uuid.UUID) []uuid.UUID { return []uuid.UUID{ids[0], ids[0], ids[1]} }},
		{"unknown id", func(ids []uuid.UUID) []uuid.UUID { return []uuid.UUID{ids[0], ids[1], uuid.New()} }},
	}
	for _, tt := range rejects {
		t.Run(tt.name, func(t *testing.T) {
			db, svc, ids := newMenu(t)
			err := svc.Reorder(context.Background(), &dto.ReorderRequest{Ids: tt.ids(ids)})
			assert.ErrorIs(t, err, ErrReorderMismatch)
			assert.Equal(t, 0, db.commits)
			assert.Equal(t, 1, db.rollbacks)
		})
	}
}
