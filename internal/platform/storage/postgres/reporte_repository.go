package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

// ReporteRepository concentra las agregaciones del tablero. Solo cuentan ventas activas.
type ReporteRepository struct {
	db *gorm.DB
}

func NewReporteRepository(db *gorm.DB) *ReporteRepository {
	return &ReporteRepository{db: db}
}

type agregado struct {
	Cantidad int64
	Total    decimal.Decimal
}

func (r *ReporteRepository) ventas(ctx context.Context, filtro func(*gorm.DB) *gorm.DB) (agregado, error) {
	var a agregado
	err := r.db.WithContext(ctx).
		Model(&domain.Venta{}).
		Select("COUNT(*) AS cantidad, COALESCE(SUM(total), 0) AS total").
		Where("estado = ?", domain.VentaActiva).
		Scopes(filtro).
		Scan(&a).Error
	return a, err
}

func porColumna(columna string, valor any) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if columna == "" {
			return db
		}
		return db.Where(columna+" = ?", valor)
	}
}

func (r *ReporteRepository) premios(ctx context.Context, where string, args ...any) (agregado, error) {
	var a agregado
	err := r.db.WithContext(ctx).
		Model(&domain.Ganador{}).
		Select("COUNT(*) AS cantidad, COALESCE(SUM(premio), 0) AS total").
		Where(where, args...).
		Scan(&a).Error
	return a, err
}

func (r *ReporteRepository) ResumenGeneral(ctx context.Context) (domain.ResumenGeneral, error) {
	ventas, err := r.ventas(ctx, porColumna("", nil))
	if err != nil {
		return domain.ResumenGeneral{}, fmt.Errorf("gorm reportes: ventas: %w", err)
	}
	pagados, err := r.premios(ctx, "pagada = ?", true)
	if err != nil {
		return domain.ResumenGeneral{}, fmt.Errorf("gorm reportes: premios pagados: %w", err)
	}
	pendientes, err := r.premios(ctx, "pagada = ?", false)
	if err != nil {
		return domain.ResumenGeneral{}, fmt.Errorf("gorm reportes: premios pendientes: %w", err)
	}

	var saldo struct {
		Saldo decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&domain.Usuario{}).
		Select("COALESCE(SUM(saldo), 0) AS saldo").
		Where("rol = ?", domain.RolCliente).
		Scan(&saldo).Error; err != nil {
		return domain.ResumenGeneral{}, fmt.Errorf("gorm reportes: saldo clientes: %w", err)
	}

	return domain.ResumenGeneral{
		Ventas:           ventas.Cantidad,
		TotalVendido:     ventas.Total,
		PremiosGenerados: pagados.Cantidad + pendientes.Cantidad,
		PremiosPagados:   pagados.Cantidad,
		MontoPagado:      pagados.Total,
		MontoPendiente:   pendientes.Total,
		SaldoClientes:    saldo.Saldo,
	}, nil
}

func (r *ReporteRepository) ResumenRifa(ctx context.Context, id domain.RifaID) (domain.ResumenRifa, error) {
	ventas, err := r.ventas(ctx, porColumna("rifa_id", id))
	if err != nil {
		return domain.ResumenRifa{}, fmt.Errorf("gorm reportes: ventas rifa: %w", err)
	}
	pagados, err := r.premios(ctx, "rifa_id = ? AND pagada = ?", id, true)
	if err != nil {
		return domain.ResumenRifa{}, fmt.Errorf("gorm reportes: pagados rifa: %w", err)
	}
	pendientes, err := r.premios(ctx, "rifa_id = ? AND pagada = ?", id, false)
	if err != nil {
		return domain.ResumenRifa{}, fmt.Errorf("gorm reportes: pendientes rifa: %w", err)
	}

	return domain.ResumenRifa{
		RifaID:         id,
		Ventas:         ventas.Cantidad,
		TotalVendido:   ventas.Total,
		Ganadores:      pagados.Cantidad + pendientes.Cantidad,
		MontoPagado:    pagados.Total,
		MontoPendiente: pendientes.Total,
	}, nil
}

func (r *ReporteRepository) ResumenVendedor(ctx context.Context, id domain.UsuarioID) (domain.ResumenVendedor, error) {
	var facturas int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Factura{}).
		Where("vendedor_id = ?", id).
		Count(&facturas).Error; err != nil {
		return domain.ResumenVendedor{}, fmt.Errorf("gorm reportes: facturas vendedor: %w", err)
	}

	ventas, err := r.ventas(ctx, porColumna("vendedor_id", id))
	if err != nil {
		return domain.ResumenVendedor{}, fmt.Errorf("gorm reportes: ventas vendedor: %w", err)
	}

	var pagados agregado
	if err := r.db.WithContext(ctx).
		Model(&domain.Ganador{}).
		Select("COUNT(*) AS cantidad, COALESCE(SUM(ganadores.premio), 0) AS total").
		Joins("JOIN factura ON factura.id = ganadores.factura_id").
		Where("factura.vendedor_id = ? AND ganadores.pagada = ?", id, true).
		Scan(&pagados).Error; err != nil {
		return domain.ResumenVendedor{}, fmt.Errorf("gorm reportes: pagados vendedor: %w", err)
	}

	return domain.ResumenVendedor{
		VendedorID:     id,
		Facturas:       facturas,
		Ventas:         ventas.Cantidad,
		TotalVendido:   ventas.Total,
		PremiosPagados: pagados.Cantidad,
		MontoPagado:    pagados.Total,
	}, nil
}

var _ domain.ReporteRepository = (*ReporteRepository)(nil)
