// Paquete migrations centraliza las versiones gormigrate aplicadas al iniciar.
package migrations

import (
	"fmt"

	gormigrate "github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

func Run(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("migrations: db nulo")
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202601150001_catalogo",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&domain.Area{},
					&domain.Usuario{},
					&domain.TipoRifa{},
					&domain.OpcionPremio{},
					&domain.Rifa{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("rifa", "opciones_premios", "tipo_rifa", "usuario", "area")
			},
		},
		{
			ID: "202601150002_ventas_y_premios",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&domain.Factura{},
					&domain.Venta{},
					&domain.NumeroGanador{},
					&domain.Ganador{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("ganadores", "numero_ganadores", "venta", "factura")
			},
		},
		{
			ID: "202601150003_transacciones",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&domain.Transaccion{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("transaccion")
			},
		},
		{
			// La clave del premio candidato incluye la rifa: una factura puede repetir numero entre rifas.
			ID: "202601200004_clave_ganador_por_rifa",
			Migrate: func(tx *gorm.DB) error {
				m := tx.Migrator()
				if m.HasIndex(&domain.Ganador{}, "uq_ganador_clave") {
					if err := m.DropIndex(&domain.Ganador{}, "uq_ganador_clave"); err != nil {
						return err
					}
				}
				if !m.HasIndex(&domain.Ganador{}, "uq_ganador_rifa_clave") {
					return m.CreateIndex(&domain.Ganador{}, "uq_ganador_rifa_clave")
				}
				return nil
			},
		},
	})

	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migrations: fallo al aplicar: %w", err)
	}

	return nil
}
