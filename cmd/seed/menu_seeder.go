package main

import (
	"context"
	"log"

	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/repository/unitofwork"
	"bistro-cms-be/internal/service"
)

// SeedMenu fills an empty menu with the house dishes.
func SeedMenu(ctx context.Context, uowFactory unitofwork.RepositoryFactory, menuService service.IMenuService) {
	count, err := uowFactory.NewUnitOfWork(ctx).LandingMenuItemRepository().Count(ctx)
	if err != nil {
		log.Fatalf("Error: Failed to count menu items: %v", err)
	}
	if count > 0 {
		log.Printf("Skip menu: %d items already present", count)
		return
	}

	items := []dto.MenuItemRequest{
		{
			Name:        map[string]string{"vi": "Phở bò tái", "en": "Rare beef pho"},
			Description: map[string]string{"vi": "Nước dùng hầm 12 tiếng", "en": "Broth simmered for 12 hours"},
			Category:    "pho",
			PriceVnd:    65000,
		},
		{
			Name:        map[string]string{"vi": "Bún chả Hà Nội", "en": "Hanoi grilled pork with noodles"},
			Description: map[string]string{"vi": "Chả nướng than hoa", "en": "Charcoal grilled pork patties"},
			Category:    "bun",
			PriceVnd:    60000,
		},
		{
			Name:        map[string]string{"vi": "Gỏi cuốn", "en": "Fresh spring rolls"},
			Description: map[string]string{"vi": "Tôm, thịt và rau thơm", "en": "Shrimp, pork and herbs"},
			Category:    "starter",
			PriceVnd:    45000,
		},
		{
			Name:     map[string]string{"vi": "Cà phê sữa đá", "en": "Iced milk coffee"},
			Category: "drink",
			PriceVnd: 30000,
		},
	}

	for i := range items {
		if _, err := menuService.Create(ctx, &items[i]); err != nil {
			log.Fatalf("Error: Failed to seed menu item %q: %v", items[i].Name["vi"], err)
		}
	}
	log.Printf("Seeded %d menu items", len(items))
}
