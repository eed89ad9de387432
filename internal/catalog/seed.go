package catalog

import (
	"context"
	"fmt"
)

// SeedProducts is the demo catalog used by cmd/seed. Prices are in the
// smallest currency unit.
var SeedProducts = []Product{
	{
		ID:              "elec-001",
		Name:            "iPhone 15 Pro Max",
		Description:     "The ultimate iPhone with A17 Pro chip, titanium design, and advanced camera system.",
		Brand:           "Apple",
		Category:        "electronics",
		Subcategory:     "smartphones",
		OriginalPrice:   159900,
		DiscountedPrice: 149900,
		ImageURL:        "https://picsum.photos/seed/iphone151/800/800",
		Stock:           45,
		RatingAverage:   4.9,
		RatingCount:     2847,
	},
	{
		ID:              "elec-002",
		Name:            "Samsung Galaxy S24 Ultra",
		Description:     "Premium flagship with Snapdragon 8 Gen 3, 200MP camera, and S Pen.",
		Brand:           "Samsung",
		Category:        "electronics",
		Subcategory:     "smartphones",
		OriginalPrice:   134999,
		DiscountedPrice: 124999,
		ImageURL:        "https://picsum.photos/seed/galaxys241/800/800",
		Stock:           38,
		RatingAverage:   4.8,
		RatingCount:     1923,
	},
	{
		ID:              "elec-003",
		Name:            "Google Pixel 8 Pro",
		Description:     "Pure Android experience with Google Tensor G3 and best-in-class computational photography.",
		Brand:           "Google",
		Category:        "electronics",
		Subcategory:     "smartphones",
		OriginalPrice:   106999,
		DiscountedPrice: 99999,
		ImageURL:        "https://picsum.photos/seed/pixel81/800/800",
		Stock:           52,
		RatingAverage:   4.7,
		RatingCount:     1456,
	},
	{
		ID:              "elec-004",
		Name:            "OnePlus 12",
		Description:     "Flagship killer with Snapdragon 8 Gen 3, 100W SUPERVOOC charging, and Hasselblad camera.",
		Brand:           "OnePlus",
		Category:        "electronics",
		Subcategory:     "smartphones",
		OriginalPrice:   64999,
		DiscountedPrice: 59999,
		ImageURL:        "https://picsum.photos/seed/oneplus121/800/800",
		Stock:           67,
		RatingAverage:   4.6,
		RatingCount:     2134,
	},
	{
		ID:              "elec-020",
		Name:            "MacBook Pro 16 M3 Max",
		Description:     "Most powerful MacBook with M3 Max chip, Liquid Retina XDR display, and all-day battery.",
		Brand:           "Apple",
		Category:        "electronics",
		Subcategory:     "laptops",
		OriginalPrice:   399900,
		DiscountedPrice: 379900,
		ImageURL:        "https://picsum.photos/seed/macbookpro1/800/800",
		Stock:           12,
		RatingAverage:   4.9,
		RatingCount:     892,
	},
	{
		ID:              "elec-030",
		Name:            "Sony WH-1000XM5",
		Description:     "Industry-leading noise cancelling headphones with exceptional sound quality.",
		Brand:           "Sony",
		Category:        "electronics",
		Subcategory:     "audio",
		OriginalPrice:   34990,
		DiscountedPrice: 29990,
		ImageURL:        "https://picsum.photos/seed/sonyxm51/800/800",
		Stock:           84,
		RatingAverage:   4.8,
		RatingCount:     3241,
	},
	{
		ID:              "fash-001",
		Name:            "Classic Denim Jacket",
		Description:     "Timeless denim jacket in washed indigo, relaxed fit with button front.",
		Brand:           "Levi's",
		Category:        "fashion",
		Subcategory:     "jackets",
		OriginalPrice:   4999,
		DiscountedPrice: 3499,
		ImageURL:        "https://picsum.photos/seed/denimjacket1/800/800",
		Stock:           120,
		RatingAverage:   4.5,
		RatingCount:     876,
	},
	{
		ID:              "fash-010",
		Name:            "Running Sneakers Air Zoom",
		Description:     "Lightweight running shoes with responsive cushioning and breathable mesh.",
		Brand:           "Nike",
		Category:        "fashion",
		Subcategory:     "footwear",
		OriginalPrice:   8999,
		DiscountedPrice: 6999,
		ImageURL:        "https://picsum.photos/seed/airzoom1/800/800",
		Stock:           95,
		RatingAverage:   4.7,
		RatingCount:     1543,
	},
	{
		ID:              "beauty-001",
		Name:            "Vitamin C Face Serum",
		Description:     "Brightening serum with 20% vitamin C and hyaluronic acid for glowing skin.",
		Brand:           "Minimalist",
		Category:        "beauty",
		Subcategory:     "skincare",
		OriginalPrice:   699,
		DiscountedPrice: 549,
		ImageURL:        "https://picsum.photos/seed/vitcserum1/800/800",
		Stock:           240,
		RatingAverage:   4.4,
		RatingCount:     5621,
	},
	{
		ID:              "sports-001",
		Name:            "Yoga Mat Pro 6mm",
		Description:     "Non-slip yoga mat with extra cushioning and carrying strap.",
		Brand:           "Decathlon",
		Category:        "sports",
		Subcategory:     "fitness",
		OriginalPrice:   1499,
		DiscountedPrice: 999,
		ImageURL:        "https://picsum.photos/seed/yogamat1/800/800",
		Stock:           180,
		RatingAverage:   4.3,
		RatingCount:     2310,
	},
	{
		ID:              "sports-010",
		Name:            "Adjustable Dumbbell Set 20kg",
		Description:     "Space-saving adjustable dumbbells with quick-change weight plates.",
		Brand:           "Kore",
		Category:        "sports",
		Subcategory:     "fitness",
		OriginalPrice:   5999,
		DiscountedPrice: 4499,
		ImageURL:        "https://picsum.photos/seed/dumbbell1/800/800",
		Stock:           42,
		RatingAverage:   4.5,
		RatingCount:     987,
	},
	{
		ID:              "home-001",
		Name:            "Ceramic Dinner Set 24pc",
		Description:     "Hand-glazed ceramic dinner set for six, dishwasher and microwave safe.",
		Brand:           "Clay Craft",
		Category:        "home",
		Subcategory:     "kitchen",
		OriginalPrice:   3999,
		DiscountedPrice: 2799,
		ImageURL:        "https://picsum.photos/seed/dinnerset1/800/800",
		Stock:           58,
		RatingAverage:   4.6,
		RatingCount:     1204,
	},
	{
		ID:              "home-010",
		Name:            "Memory Foam Pillow",
		Description:     "Contour memory foam pillow with cooling gel layer and washable cover.",
		Brand:           "Sleepyhead",
		Category:        "home",
		Subcategory:     "bedroom",
		OriginalPrice:   1999,
		DiscountedPrice: 1299,
		ImageURL:        "https://picsum.photos/seed/pillow1/800/800",
		Stock:           220,
		RatingAverage:   4.4,
		RatingCount:     3452,
	},
}

// Seed upserts the demo catalog into the repository.
func Seed(ctx context.Context, repo Repository) error {
	for i := range SeedProducts {
		p := SeedProducts[i]
		if err := repo.Upsert(ctx, &p); err != nil {
			return fmt.Errorf("seed %s: %w", p.ID, err)
		}
	}
	return nil
}
