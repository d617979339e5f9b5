package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

// TransaccionRepository solo inserta y lee; los asientos del libro no se modifican.
type TransaccionRepository struct {
	db *gorm.DB
}

func NewTransaccionRepository(db *gorm.DB) *TransaccionRepository {
	return &TransaccionRepository{db: db}
}

func (r *TransaccionRepository) Create(ctx context.Context, t domain.Transaccion) error {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return traducir(err, "transaccion", "insertar")
	}
	return nil
}

func (r *TransaccionRepository) ListByUsuario(ctx context.Context, id domain.UsuarioID) ([]domain.Transaccion, error) {
	var movimientos []domain.Transaccion
	if err := r.db.WithContext(ctx).
		Where("usuario_id = ?", id).
		Order("creado_en ASC, id ASC").
		Find(&movimientos).Error; err != nil {
		return nil, fmt.Errorf("gorm transaccion: listar usuario: %w", err)
	}
	return movimientos, nil
}

func (r *TransaccionRepository) ListByReferencia(ctx context.Context, referencia string) ([]domain.Transaccion, error) {
	var movimientos []domain.Transaccion
	if err := r.db.WithContext(ctx).
		Where("referencia_id = ?", referencia).
		Order("creado_en ASC, id ASC").
		Find(&movimientos).Error; err != nil {
		return nil, fmt.Errorf("gorm transaccion: listar referencia: %w", err)
	}
	return movimientos, nil
}

var _ domain.TransaccionRepository = (*TransaccionRepository)(nil)
