package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

// GanadorRepository guarda los premios candidatos generados por el cruce.
type GanadorRepository struct {
	db *gorm.DB
}

func NewGanadorRepository(db *gorm.DB) *GanadorRepository {
	return &GanadorRepository{db: db}
}

func (r *GanadorRepository) BulkCreate(ctx context.Context, ganadores []domain.Ganador) (int64, error) {
	if len(ganadores) == 0 {
		return 0, nil
	}
	// Filas con la misma clave (rifa, comprador, factura, numero, nivel) se ignoran.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ganadores)
	if res.Error != nil {
		return 0, fmt.Errorf("gorm ganadores: insertar lote: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GanadorRepository) DeleteByNumeroGanador(ctx context.Context, id domain.NumeroGanadorID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("numero_ganador_id = ?", id).
		Delete(&domain.Ganador{})
	if res.Error != nil {
		return 0, fmt.Errorf("gorm ganadores: borrar por numero ganador: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GanadorRepository) FindByClave(ctx context.Context, c domain.GanadorClave) (domain.Ganador, error) {
	var g domain.Ganador
	if err := r.db.WithContext(ctx).
		Where("rifa_id = ? AND comprador_id = ? AND factura_id = ? AND numero = ? AND nivel = ?",
			c.RifaID, c.CompradorID, c.FacturaID, c.Numero, c.Nivel).
		Take(&g).Error; err != nil {
		return domain.Ganador{}, traducir(err, "ganadores", "buscar clave")
	}
	return g, nil
}

func (r *GanadorRepository) MarcarPagado(ctx context.Context, id domain.GanadorID, por domain.UsuarioID, en time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Ganador{}).
		Where("id = ? AND pagada = ?", id, false).
		Updates(map[string]any{
			"pagada":          true,
			"fecha_hora_pago": en,
			"pagado_por_id":   por,
		})
	if res.Error != nil {
		return false, fmt.Errorf("gorm ganadores: marcar pagado: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *GanadorRepository) ListByNumeroGanador(ctx context.Context, id domain.NumeroGanadorID) ([]domain.Ganador, error) {
	var ganadores []domain.Ganador
	if err := r.db.WithContext(ctx).
		Where("numero_ganador_id = ?", id).
		Order("nivel ASC, id ASC").
		Find(&ganadores).Error; err != nil {
		return nil, fmt.Errorf("gorm ganadores: listar por numero ganador: %w", err)
	}
	return ganadores, nil
}

func (r *GanadorRepository) ListByRifa(ctx context.Context, rifa domain.RifaID) ([]domain.Ganador, error) {
	var ganadores []domain.Ganador
	if err := r.db.WithContext(ctx).
		Where("rifa_id = ?", rifa).
		Order("nivel ASC, id ASC").
		Find(&ganadores).Error; err != nil {
		return nil, fmt.Errorf("gorm ganadores: listar rifa: %w", err)
	}
	return ganadores, nil
}

func (r *GanadorRepository) ListPendientesPorComprador(ctx context.Context, comprador domain.UsuarioID) ([]domain.Ganador, error) {
	var ganadores []domain.Ganador
	if err := r.db.WithContext(ctx).
		Where("comprador_id = ? AND pagada = ?", comprador, false).
		Order("fecha ASC, id ASC").
		Find(&ganadores).Error; err != nil {
		return nil, fmt.Errorf("gorm ganadores: pendientes comprador: %w", err)
	}
	return ganadores, nil
}

func (r *GanadorRepository) ListPendientesPorVendedor(ctx context.Context, vendedor domain.UsuarioID) ([]domain.Ganador, error) {
	var ganadores []domain.Ganador
	if err := r.db.WithContext(ctx).
		Joins("JOIN factura ON factura.id = ganadores.factura_id").
		Where("factura.vendedor_id = ? AND ganadores.pagada = ?", vendedor, false).
		Order("ganadores.fecha ASC, ganadores.id ASC").
		Find(&ganadores).Error; err != nil {
		return nil, fmt.Errorf("gorm ganadores: pendientes vendedor: %w", err)
	}
	return ganadores, nil
}

var _ domain.GanadorRepository = (*GanadorRepository)(nil)
