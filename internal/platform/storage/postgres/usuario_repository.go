package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

type UsuarioRepository struct {
	db *gorm.DB
}

func NewUsuarioRepository(db *gorm.DB) *UsuarioRepository {
	return &UsuarioRepository{db: db}
}

func (r *UsuarioRepository) Create(ctx context.Context, u domain.Usuario) error {
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		return traducir(err, "usuario", "insertar")
	}
	return nil
}

func (r *UsuarioRepository) FindByID(ctx context.Context, id domain.UsuarioID) (domain.Usuario, error) {
	var u domain.Usuario
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return domain.Usuario{}, traducir(err, "usuario", "buscar id")
	}
	return u, nil
}

func (r *UsuarioRepository) FindByIDParaActualizar(ctx context.Context, id domain.UsuarioID) (domain.Usuario, error) {
	var u domain.Usuario
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&u, "id = ?", id).Error; err != nil {
		return domain.Usuario{}, traducir(err, "usuario", "bloquear id")
	}
	return u, nil
}

func (r *UsuarioRepository) ActualizarSaldo(ctx context.Context, id domain.UsuarioID, saldo decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Usuario{}).
		Where("id = ?", id).
		Update("saldo", saldo)
	if res.Error != nil {
		return fmt.Errorf("gorm usuario: actualizar saldo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("gorm usuario: actualizar saldo: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *UsuarioRepository) ListByRol(ctx context.Context, rol domain.Rol) ([]domain.Usuario, error) {
	var usuarios []domain.Usuario
	q := r.db.WithContext(ctx).Order("nombre ASC")
	if rol != "" {
		q = q.Where("rol = ?", rol)
	}
	if err := q.Find(&usuarios).Error; err != nil {
		return nil, fmt.Errorf("gorm usuario: listar: %w", err)
	}
	return usuarios, nil
}

var _ domain.UsuarioRepository = (*UsuarioRepository)(nil)
