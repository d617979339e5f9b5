package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

type NumeroGanadorRepository struct {
	db *gorm.DB
}

func NewNumeroGanadorRepository(db *gorm.DB) *NumeroGanadorRepository {
	return &NumeroGanadorRepository{db: db}
}

func (r *NumeroGanadorRepository) Create(ctx context.Context, n domain.NumeroGanador) error {
	if err := r.db.WithContext(ctx).Create(&n).Error; err != nil {
		return traducir(err, "numero ganador", "insertar")
	}
	return nil
}

func (r *NumeroGanadorRepository) FindByID(ctx context.Context, id domain.NumeroGanadorID) (domain.NumeroGanador, error) {
	var n domain.NumeroGanador
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return domain.NumeroGanador{}, traducir(err, "numero ganador", "buscar id")
	}
	return n, nil
}

func (r *NumeroGanadorRepository) FindByClave(ctx context.Context, rifa domain.RifaID, sorteo, nivel int) (domain.NumeroGanador, error) {
	var n domain.NumeroGanador
	if err := r.db.WithContext(ctx).
		Where("rifa_id = ? AND sorteo = ? AND nivel = ?", rifa, sorteo, nivel).
		Take(&n).Error; err != nil {
		return domain.NumeroGanador{}, traducir(err, "numero ganador", "buscar clave")
	}
	return n, nil
}

func (r *NumeroGanadorRepository) ActualizarNumero(ctx context.Context, id domain.NumeroGanadorID, numero string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.NumeroGanador{}).
		Where("id = ?", id).
		Update("numero", numero)
	if res.Error != nil {
		return fmt.Errorf("gorm numero ganador: actualizar: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("gorm numero ganador: actualizar: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *NumeroGanadorRepository) ListByRifa(ctx context.Context, rifa domain.RifaID) ([]domain.NumeroGanador, error) {
	var numeros []domain.NumeroGanador
	if err := r.db.WithContext(ctx).
		Where("rifa_id = ?", rifa).
		Order("sorteo ASC, nivel ASC").
		Find(&numeros).Error; err != nil {
		return nil, fmt.Errorf("gorm numero ganador: listar rifa: %w", err)
	}
	return numeros, nil
}

var _ domain.NumeroGanadorRepository = (*NumeroGanadorRepository)(nil)
