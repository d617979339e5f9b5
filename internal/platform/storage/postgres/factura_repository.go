package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

type FacturaRepository struct {
	db *gorm.DB
}

func NewFacturaRepository(db *gorm.DB) *FacturaRepository {
	return &FacturaRepository{db: db}
}

// Create guarda solo la cabecera; las ventas se insertan con VentaRepository.BulkCreate.
func (r *FacturaRepository) Create(ctx context.Context, f domain.Factura) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&f).Error; err != nil {
		return traducir(err, "factura", "insertar")
	}
	return nil
}

func (r *FacturaRepository) FindByID(ctx context.Context, id domain.FacturaID) (domain.Factura, error) {
	var f domain.Factura
	if err := r.db.WithContext(ctx).
		Preload("Ventas", func(db *gorm.DB) *gorm.DB {
			return db.Order("rifa_id ASC, numero ASC")
		}).
		First(&f, "id = ?", id).Error; err != nil {
		return domain.Factura{}, traducir(err, "factura", "buscar id")
	}
	return f, nil
}

var _ domain.FacturaRepository = (*FacturaRepository)(nil)
