package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

// VentaRepository filtra por estado activa en todas las consultas usadas por el cruce y los pagos.
type VentaRepository struct {
	db *gorm.DB
}

func NewVentaRepository(db *gorm.DB) *VentaRepository {
	return &VentaRepository{db: db}
}

func (r *VentaRepository) BulkCreate(ctx context.Context, ventas []domain.Venta) error {
	if len(ventas) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&ventas, 200).Error; err != nil {
		return traducir(err, "venta", "insertar lote")
	}
	return nil
}

func (r *VentaRepository) FindByID(ctx context.Context, id domain.VentaID) (domain.Venta, error) {
	var v domain.Venta
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return domain.Venta{}, traducir(err, "venta", "buscar id")
	}
	return v, nil
}

func (r *VentaRepository) FindActivaPorFacturaNumero(ctx context.Context, factura domain.FacturaID, numero string) (domain.Venta, error) {
	var v domain.Venta
	if err := r.db.WithContext(ctx).
		Where("factura_id = ? AND numero = ? AND estado = ?", factura, numero, domain.VentaActiva).
		Take(&v).Error; err != nil {
		return domain.Venta{}, traducir(err, "venta", "buscar factura numero")
	}
	return v, nil
}

func (r *VentaRepository) ListActivasPorRifa(ctx context.Context, rifa domain.RifaID) ([]domain.Venta, error) {
	var ventas []domain.Venta
	if err := r.db.WithContext(ctx).
		Where("rifa_id = ? AND estado = ?", rifa, domain.VentaActiva).
		Order("id ASC").
		Find(&ventas).Error; err != nil {
		return nil, fmt.Errorf("gorm venta: listar activas: %w", err)
	}
	return ventas, nil
}

// MarcarEliminada devuelve false cuando la venta ya estaba eliminada o pagada.
func (r *VentaRepository) MarcarEliminada(ctx context.Context, id domain.VentaID, en time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Venta{}).
		Where("id = ? AND estado = ? AND pagada = ?", id, domain.VentaActiva, false).
		Updates(map[string]any{
			"estado":       domain.VentaEliminada,
			"eliminada_en": en,
		})
	if res.Error != nil {
		return false, fmt.Errorf("gorm venta: eliminar: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *VentaRepository) MarcarPagada(ctx context.Context, id domain.VentaID, en time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Venta{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"pagada":     true,
			"fecha_pago": en,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm venta: marcar pagada: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("gorm venta: marcar pagada: %w", domain.ErrNotFound)
	}
	return nil
}

var _ domain.VentaRepository = (*VentaRepository)(nil)
