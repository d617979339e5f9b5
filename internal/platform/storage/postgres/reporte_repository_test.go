package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

func TestReporteRepository_Resumenes_DebenContarSoloVentasActivas(t *testing.T) {
	db := setupPostgres(t)
	e := nuevoEscenario(t, db)
	store := NewStore(db)
	ctx := context.Background()

	v1 := e.venta("1234", "10")
	v2 := e.venta("34", "5")
	v3 := e.venta("7777", "8")
	require.NoError(t, store.Ventas().BulkCreate(ctx, []domain.Venta{v1, v2, v3}))
	_, err := store.Ventas().MarcarEliminada(ctx, v3.ID, time.Now().UTC())
	require.NoError(t, err)

	ng := nuevoNumeroGanador(t, store, e.rifa.ID, "1234")
	g1 := e.ganador(v1, ng.ID, 1, "500")
	g2 := e.ganador(v2, ng.ID, 3, "20")
	_, err = store.Ganadores().BulkCreate(ctx, []domain.Ganador{g1, g2})
	require.NoError(t, err)
	_, err = store.Ganadores().MarcarPagado(ctx, g1.ID, e.vendedor.ID, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, store.Usuarios().ActualizarSaldo(ctx, e.comprador.ID, dinero("42.50")))

	repo := store.Reportes()

	general, err := repo.ResumenGeneral(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), general.Ventas)
	assert.True(t, dinero("15").Equal(general.TotalVendido))
	assert.Equal(t, int64(2), general.PremiosGenerados)
	assert.Equal(t, int64(1), general.PremiosPagados)
	assert.True(t, dinero("500").Equal(general.MontoPagado))
	assert.True(t, dinero("20").Equal(general.MontoPendiente))
	assert.True(t, dinero("42.50").Equal(general.SaldoClientes))

	rifa, err := repo.ResumenRifa(ctx, e.rifa.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rifa.Ventas)
	assert.Equal(t, int64(2), rifa.Ganadores)
	assert.True(t, dinero("20").Equal(rifa.MontoPendiente))

	vendedor, err := repo.ResumenVendedor(ctx, e.vendedor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), vendedor.Facturas)
	assert.Equal(t, int64(2), vendedor.Ventas)
	assert.Equal(t, int64(1), vendedor.PremiosPagados)
	assert.True(t, dinero("500").Equal(vendedor.MontoPagado))
}

func TestReporteRepository_ResumenGeneral_CuandoVacio_DebeDevolverCeros(t *testing.T) {
	db := setupPostgres(t)

	general, err := NewReporteRepository(db).ResumenGeneral(context.Background())
	require.NoError(t, err)
	assert.Zero(t, general.Ventas)
	assert.True(t, general.TotalVendido.IsZero())
	assert.True(t, general.SaldoClientes.IsZero())
}

func TestTransaccionRepository_ListByReferencia(t *testing.T) {
	db := setupPostgres(t)
	repo := NewTransaccionRepository(db)
	ctx := context.Background()

	ref := gen.New()
	usuario := domain.UsuarioID(gen.New())
	require.NoError(t, repo.Create(ctx, domain.Transaccion{
		ID:            domain.TransaccionID(gen.New()),
		UsuarioID:     usuario,
		Tipo:          domain.TransaccionRetiro,
		Monto:         dinero("500"),
		SaldoAnterior: dinero("0"),
		SaldoNuevo:    dinero("-500"),
		ReferenciaID:  &ref,
		CreadoEn:      time.Now().UTC(),
	}))

	porRef, err := repo.ListByReferencia(ctx, ref)
	require.NoError(t, err)
	require.Len(t, porRef, 1)
	assert.True(t, dinero("-500").Equal(porRef[0].SaldoNuevo))

	porUsuario, err := repo.ListByUsuario(ctx, usuario)
	require.NoError(t, err)
	assert.Len(t, porUsuario, 1)
}
