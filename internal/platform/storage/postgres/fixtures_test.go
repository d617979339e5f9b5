package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/ids"
	"github.com/marcelojr/rifaparatodos/internal/platform/storage/sqlitetest"
)

var gen = ids.NewGenerator()

func setupPostgres(t *testing.T) *gorm.DB {
	return sqlitetest.Open(t)
}

func dinero(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type escenario struct {
	comprador domain.Usuario
	vendedor  domain.Usuario
	rifa      domain.Rifa
	factura   domain.Factura
}

// nuevoEscenario crea comprador, vendedor, tipo, rifa y una factura vacia.
func nuevoEscenario(t *testing.T, db *gorm.DB) escenario {
	t.Helper()
	ctx := context.Background()
	store := NewStore(db)

	e := escenario{
		comprador: domain.Usuario{ID: domain.UsuarioID(gen.New()), Nombre: "Ana", Rol: domain.RolCliente, Activo: true},
		vendedor:  domain.Usuario{ID: domain.UsuarioID(gen.New()), Nombre: "Beto", Rol: domain.RolVendedor, Activo: true},
	}
	require.NoError(t, store.Usuarios().Create(ctx, e.comprador))
	require.NoError(t, store.Usuarios().Create(ctx, e.vendedor))

	tipo := domain.TipoRifa{ID: domain.TipoRifaID(gen.New()), Nombre: "Triple " + gen.New(), Cifras: 4}
	require.NoError(t, store.TiposRifa().Create(ctx, tipo))

	e.rifa = domain.Rifa{
		ID:             domain.RifaID(gen.New()),
		TipoRifaID:     tipo.ID,
		Nombre:         "Noche",
		FechaHoraJuego: time.Date(2026, 1, 10, 20, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Rifas().Create(ctx, e.rifa))

	e.factura = domain.Factura{
		ID:          domain.FacturaID(gen.New()),
		CompradorID: e.comprador.ID,
		VendedorID:  e.vendedor.ID,
		Total:       dinero("20"),
	}
	require.NoError(t, store.Facturas().Create(ctx, e.factura))

	return e
}

func (e escenario) venta(numero, monto string) domain.Venta {
	return domain.Venta{
		ID:          domain.VentaID(gen.New()),
		FacturaID:   e.factura.ID,
		CompradorID: e.comprador.ID,
		VendedorID:  e.vendedor.ID,
		RifaID:      e.rifa.ID,
		Numero:      numero,
		Monto:       dinero(monto),
		Total:       dinero(monto),
		Estado:      domain.VentaActiva,
	}
}

func (e escenario) ganador(v domain.Venta, numeroGanador domain.NumeroGanadorID, nivel int, premio string) domain.Ganador {
	return domain.Ganador{
		ID:              domain.GanadorID(gen.New()),
		CompradorID:     v.CompradorID,
		FacturaID:       v.FacturaID,
		VentaID:         v.ID,
		Numero:          v.Numero,
		Nivel:           nivel,
		Fecha:           e.rifa.FechaHoraJuego,
		Premio:          dinero(premio),
		NumeroGanadorID: numeroGanador,
		RifaID:          v.RifaID,
	}
}
