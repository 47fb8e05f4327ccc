package adapters

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront_backend/internal/feature/catalog/domain/entity"
)

// Models returns the tables owned by the catalog feature.
func Models() []any {
	return []any{&entity.Product{}}
}

// SeedProducts returns the fixed catalog loaded at startup.
func SeedProducts() []entity.Product {
	return []entity.Product{
		{
			ID:          "1",
			Title:       "The Great Gatsby",
			Author:      "F. Scott Fitzgerald",
			Price:       decimal.RequireFromString("12.99"),
			Description: "A classic tale of ambition and the American Dream in the Jazz Age.",
			Image:       "/book-great-gatsby.jpg",
			Stock:       50,
		},
		{
			ID:          "2",
			Title:       "To Kill a Mockingbird",
			Author:      "Harper Lee",
			Price:       decimal.RequireFromString("14.99"),
			Description: "A gripping tale of racial injustice and childhood innocence.",
			Image:       "/book-mockingbird.jpg",
			Stock:       40,
		},
		{
			ID:          "3",
			Title:       "1984",
			Author:      "George Orwell",
			Price:       decimal.RequireFromString("13.99"),
			Description: "A dystopian novel about totalitarianism and surveillance.",
			Image:       "/book-1984.jpg",
			Stock:       45,
		},
		{
			ID:          "4",
			Title:       "Pride and Prejudice",
			Author:      "Jane Austen",
			Price:       decimal.RequireFromString("11.99"),
			Description: "A romantic novel of wit, social commentary, and timeless love.",
			Image:       "/book-pride-prejudice.jpg",
			Stock:       55,
		},
		{
			ID:          "5",
			Title:       "The Catcher in the Rye",
			Author:      "J.D. Salinger",
			Price:       decimal.RequireFromString("13.99"),
			Description: "A story of teenage rebellion and alienation in post-war America.",
			Image:       "/book-catcher-rye.jpg",
			Stock:       35,
		},
		{
			ID:          "6",
			Title:       "Brave New World",
			Author:      "Aldous Huxley",
			Price:       decimal.RequireFromString("14.99"),
			Description: "A futuristic society controlled through pleasure and conditioning.",
			Image:       "/book-brave-new-world.jpg",
			Stock:       42,
		},
	}
}

// Seed upserts products, resetting price and stock of existing rows.
func Seed(ctx context.Context, db *gorm.DB, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	return nil
}
