package stubserver

import (
	"time"

	"github.com/alienx5499/Shopifyr/internal/domain"
)

// SeedDemo loads a small demo catalog and a ready-made account
// (demo / secret123) so the client works out of the box.
func SeedDemo(store *Store) {
	now := time.Now()

	categories := []domain.Category{
		{ID: 1, Name: "Apparel"},
		{ID: 2, Name: "Footwear"},
		{ID: 3, Name: "Accessories"},
	}
	brands := []domain.Brand{
		{ID: 1, Name: "Northline"},
		{ID: 2, Name: "Varden"},
		{ID: 3, Name: "Okta Supply"},
	}
	products := []domain.Product{
		{ID: 101, Name: "Wool Overcoat", Description: "Heavy winter overcoat in charcoal wool.", Price: 289.00, CategoryID: 1, CategoryName: "Apparel", BrandID: 1, BrandName: "Northline", IsActive: true, CreatedAt: now},
		{ID: 102, Name: "Linen Shirt", Description: "Relaxed fit linen shirt, natural white.", Price: 79.50, CategoryID: 1, CategoryName: "Apparel", BrandID: 2, BrandName: "Varden", IsActive: true, CreatedAt: now},
		{ID: 103, Name: "Trail Runner", Description: "Lightweight trail running shoe.", Price: 142.00, CategoryID: 2, CategoryName: "Footwear", BrandID: 3, BrandName: "Okta Supply", IsActive: true, CreatedAt: now},
		{ID: 104, Name: "Leather Boot", Description: "Full grain leather boot, goodyear welt.", Price: 240.00, CategoryID: 2, CategoryName: "Footwear", BrandID: 1, BrandName: "Northline", IsActive: true, CreatedAt: now},
		{ID: 105, Name: "Canvas Tote", Description: "Waxed canvas tote with leather handles.", Price: 64.00, CategoryID: 3, CategoryName: "Accessories", BrandID: 3, BrandName: "Okta Supply", IsActive: true, CreatedAt: now},
		{ID: 106, Name: "Merino Beanie", Description: "Fine gauge merino beanie.", Price: 38.00, CategoryID: 3, CategoryName: "Accessories", BrandID: 2, BrandName: "Varden", IsActive: true, CreatedAt: now},
	}

	store.SeedCatalog(products, categories, brands)

	_, _ = store.Register(domain.User{
		Username:  "demo",
		Email:     "demo@example.com",
		FirstName: "Demo",
		LastName:  "User",
	}, "secret123")
}
