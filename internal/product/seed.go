package product

import (
	"context"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

var seedCatalog = []CreateProductCommand{
	{
		Name:        "Kit Estimulación Cognitiva",
		Description: "Conjunto de juegos diseñados para estimular memoria, atención y concentración en niños pequeños.",
		Price:       "18500",
		ImageURL:    "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?auto=format&fit=crop&w=800&h=400",
		Type:        TypePhysical,
		AgeRange:    "3-8",
		Category:    "Estimulación Cognitiva",
		Stock:       intPtr(12),
	},
	{
		Name:        "Set Terapia Ocupacional",
		Description: "Herramientas especializadas para el desarrollo de habilidades motoras finas y coordinación.",
		Price:       "35800",
		ImageURL:    "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?auto=format&fit=crop&w=800&h=400",
		Type:        TypePhysical,
		AgeRange:    "4-12",
		Category:    "Terapia Ocupacional",
		Stock:       intPtr(8),
	},
	{
		Name:        "Juego Mesa Habilidades Sociales",
		Description: "Dinámico juego para desarrollar empatía, comunicación y trabajo en equipo.",
		Price:       "24300",
		ImageURL:    "https://images.unsplash.com/photo-1606092195730-5d7b9af1efc5?auto=format&fit=crop&w=800&h=400",
		Type:        TypePhysical,
		AgeRange:    "7-15",
		Category:    "Habilidades Sociales",
		Stock:       intPtr(15),
	},
	{
		Name:        "Actividades Lectoescritura Digital",
		Description: "Plataforma interactiva para el aprendizaje de lectura y escritura a través del juego.",
		Price:       "12900",
		ImageURL:    "https://images.unsplash.com/photo-1513475382585-d06e58bcb0e0?auto=format&fit=crop&w=800&h=400",
		Type:        TypeDigital,
		AgeRange:    "5-10",
		Category:    "Lectoescritura",
	},
	{
		Name:        "Programa Inteligencia Emocional",
		Description: "Curso digital completo para el desarrollo de habilidades emocionales y autoconocimiento.",
		Price:       "15600",
		ImageURL:    "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?auto=format&fit=crop&w=800&h=400",
		Type:        TypeDigital,
		AgeRange:    "6-14",
		Category:    "Inteligencia Emocional",
	},
	{
		Name:        "App Matemáticas Adaptativa",
		Description: "Aplicación que se adapta al ritmo de aprendizaje para fortalecer habilidades matemáticas.",
		Price:       "9800",
		ImageURL:    "https://images.unsplash.com/photo-1509228627152-72ae9ae6848d?auto=format&fit=crop&w=800&h=400",
		Type:        TypeDigital,
		AgeRange:    "8-16",
		Category:    "Matemáticas",
	},
}

// SeedCatalog inserts the starter catalog when the store holds no products.
// It returns the number of products created.
func (s *service) SeedCatalog(ctx context.Context) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, cmd := range seedCatalog {
		if _, err := s.Create(ctx, cmd); err != nil {
			return 0, err
		}
	}

	logger.FromCtx(ctx).Info("catalog seeded", zap.Int("count", len(seedCatalog)))
	return len(seedCatalog), nil
}
