package repository

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"catalog-admin/internal/domain"

	"github.com/google/uuid"
)

// Categories are the predefined product categories used by the seed data
var Categories = []string{
	"Eletrônicos",
	"Informática",
	"Celulares",
	"Acessórios",
	"Periféricos",
	"Áudio",
	"Vídeo",
	"Gaming",
	"Câmeras",
	"Smart Home",
}

// SeedProducts generates count products relative to now. The same seed
// always yields the same catalog. A negative count yields an empty catalog.
func SeedProducts(count int, seed int64, now time.Time) []domain.Product {
	if count < 0 {
		count = 0
	}

	rng := rand.New(rand.NewSource(seed))
	products := make([]domain.Product, 0, count)

	for i := 0; i < count; i++ {
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			id = uuid.New()
		}

		products = append(products, domain.Product{
			ID:          id.String(),
			Name:        fmt.Sprintf("Produto %d", i+1),
			Description: fmt.Sprintf("Descrição detalhada do produto %d. Este é um produto de alta qualidade com várias características e benefícios.", i+1),
			Price:       math.Round((rng.Float64()*990+10)*100) / 100,
			ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%d/200/200", i),
			Category:    Categories[rng.Intn(len(Categories))],
			Stock:       rng.Intn(100),
			CreatedAt:   randomDate(rng, now),
			UpdatedAt:   randomDate(rng, now),
		})
	}

	return products
}

// randomDate returns a moment within the 30 days before now
func randomDate(rng *rand.Rand, now time.Time) time.Time {
	return now.AddDate(0, 0, -rng.Intn(30)).UTC()
}
