package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

type AreaRepository struct {
	db *gorm.DB
}

func NewAreaRepository(db *gorm.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

func (r *AreaRepository) Create(ctx context.Context, a domain.Area) error {
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return traducir(err, "area", "insertar")
	}
	return nil
}

func (r *AreaRepository) FindByID(ctx context.Context, id domain.AreaID) (domain.Area, error) {
	var a domain.Area
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return domain.Area{}, traducir(err, "area", "buscar id")
	}
	return a, nil
}

func (r *AreaRepository) List(ctx context.Context) ([]domain.Area, error) {
	var areas []domain.Area
	if err := r.db.WithContext(ctx).Order("nombre ASC").Find(&areas).Error; err != nil {
		return nil, fmt.Errorf("gorm area: listar: %w", err)
	}
	return areas, nil
}

type TipoRifaRepository struct {
	db *gorm.DB
}

func NewTipoRifaRepository(db *gorm.DB) *TipoRifaRepository {
	return &TipoRifaRepository{db: db}
}

func (r *TipoRifaRepository) Create(ctx context.Context, t domain.TipoRifa) error {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return traducir(err, "tipo rifa", "insertar")
	}
	return nil
}

func (r *TipoRifaRepository) FindByID(ctx context.Context, id domain.TipoRifaID) (domain.TipoRifa, error) {
	var t domain.TipoRifa
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return domain.TipoRifa{}, traducir(err, "tipo rifa", "buscar id")
	}
	return t, nil
}

func (r *TipoRifaRepository) List(ctx context.Context) ([]domain.TipoRifa, error) {
	var tipos []domain.TipoRifa
	if err := r.db.WithContext(ctx).Order("nombre ASC").Find(&tipos).Error; err != nil {
		return nil, fmt.Errorf("gorm tipo rifa: listar: %w", err)
	}
	return tipos, nil
}

// OpcionPremioRepository guarda la tabla de premios por tipo, area, monto apostado y cifras.
type OpcionPremioRepository struct {
	db *gorm.DB
}

func NewOpcionPremioRepository(db *gorm.DB) *OpcionPremioRepository {
	return &OpcionPremioRepository{db: db}
}

func (r *OpcionPremioRepository) Reemplazar(ctx context.Context, tipo domain.TipoRifaID, area domain.AreaID, monto decimal.Decimal, cifras int, opciones []domain.OpcionPremio) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("tipo_rifa_id = ? AND area_id = ? AND monto = ? AND cifras = ?", tipo, area, monto, cifras).
			Delete(&domain.OpcionPremio{}).Error; err != nil {
			return fmt.Errorf("gorm premios: borrar combinacion: %w", err)
		}
		if len(opciones) == 0 {
			return nil
		}
		if err := tx.Create(&opciones).Error; err != nil {
			return traducir(err, "premios", "insertar")
		}
		return nil
	})
}

func (r *OpcionPremioRepository) Buscar(ctx context.Context, tipo domain.TipoRifaID, area domain.AreaID, monto decimal.Decimal, cifras, nivel int) (domain.OpcionPremio, error) {
	var o domain.OpcionPremio
	if err := r.db.WithContext(ctx).
		Where("tipo_rifa_id = ? AND area_id = ? AND monto = ? AND cifras = ? AND nivel = ?", tipo, area, monto, cifras, nivel).
		Take(&o).Error; err != nil {
		return domain.OpcionPremio{}, traducir(err, "premios", "buscar")
	}
	return o, nil
}

func (r *OpcionPremioRepository) ListByTipo(ctx context.Context, tipo domain.TipoRifaID) ([]domain.OpcionPremio, error) {
	var opciones []domain.OpcionPremio
	if err := r.db.WithContext(ctx).
		Where("tipo_rifa_id = ?", tipo).
		Order("area_id ASC, monto ASC, cifras ASC, nivel ASC").
		Find(&opciones).Error; err != nil {
		return nil, fmt.Errorf("gorm premios: listar tipo: %w", err)
	}
	return opciones, nil
}

type RifaRepository struct {
	db *gorm.DB
}

func NewRifaRepository(db *gorm.DB) *RifaRepository {
	return &RifaRepository{db: db}
}

func (r *RifaRepository) Create(ctx context.Context, rifa domain.Rifa) error {
	if err := r.db.WithContext(ctx).Create(&rifa).Error; err != nil {
		return traducir(err, "rifa", "insertar")
	}
	return nil
}

func (r *RifaRepository) FindByID(ctx context.Context, id domain.RifaID) (domain.Rifa, error) {
	var rifa domain.Rifa
	if err := r.db.WithContext(ctx).First(&rifa, "id = ?", id).Error; err != nil {
		return domain.Rifa{}, traducir(err, "rifa", "buscar id")
	}
	return rifa, nil
}

func (r *RifaRepository) ListDesde(ctx context.Context, desde time.Time) ([]domain.Rifa, error) {
	var rifas []domain.Rifa
	if err := r.db.WithContext(ctx).
		Where("fecha_hora_juego >= ?", desde).
		Order("fecha_hora_juego ASC").
		Find(&rifas).Error; err != nil {
		return nil, fmt.Errorf("gorm rifa: listar desde: %w", err)
	}
	return rifas, nil
}

var (
	_ domain.AreaRepository         = (*AreaRepository)(nil)
	_ domain.TipoRifaRepository     = (*TipoRifaRepository)(nil)
	_ domain.OpcionPremioRepository = (*OpcionPremioRepository)(nil)
	_ domain.RifaRepository         = (*RifaRepository)(nil)
)
