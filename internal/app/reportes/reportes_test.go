package reportes

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/rifaparatodos/internal/app/apptest"
	"github.com/marcelojr/rifaparatodos/internal/domain"
	redisstore "github.com/marcelojr/rifaparatodos/internal/platform/storage/redis"
)

func nuevoContador(t *testing.T) *redisstore.Contador {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return redisstore.NewContador(client, "contador")
}

func TestCentavos_DebeConvertirSinPerderPrecision(t *testing.T) {
	assert.Equal(t, int64(1050), ACentavos(apptest.Dinero("10.50")))
	assert.Equal(t, int64(1), ACentavos(apptest.Dinero("0.005")))
	assert.True(t, apptest.Dinero("10.50").Equal(DesdeCentavos(1050)))
	assert.True(t, apptest.Dinero("-0.25").Equal(DesdeCentavos(-25)))
}

func TestService_PorRifa_DebeContarSoloVentasActivas(t *testing.T) {
	env := apptest.Nuevo(t)
	ctx := context.Background()
	tipo := env.TipoRifa(t, "Cuatro", 4)
	rifa := env.Rifa(t, tipo.ID, env.Reloj.Ahora().Add(-time.Hour))
	vendedor := env.Usuario(t, "Vendedor", domain.RolVendedor, "")
	cliente := env.Usuario(t, "Cliente", domain.RolCliente, "")
	_, ventas := env.Factura(t, vendedor.ID, cliente.ID, rifa.ID,
		apptest.Linea{Numero: "12", Monto: "2.00"},
		apptest.Linea{Numero: "34", Monto: "3.00"},
	)
	ok, err := env.Store.Ventas().MarcarEliminada(ctx, ventas[0].ID, env.Reloj.Ahora())
	require.NoError(t, err)
	require.True(t, ok)
	env.Ganador(t, ventas[1], 3, "50")

	svc := NewService(env.Store.Reportes(), env.Store.Rifas(), nil)

	resumen, err := svc.PorRifa(ctx, rifa.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resumen.Ventas)
	assert.True(t, apptest.Dinero("3").Equal(resumen.TotalVendido))
	assert.Equal(t, int64(1), resumen.Ganadores)
	assert.True(t, apptest.Dinero("50").Equal(resumen.MontoPendiente))

	_, err = svc.PorRifa(ctx, "01HNOEXISTE000000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_PorVendedor_CuandoVendedorAjeno_DebeProhibir(t *testing.T) {
	env := apptest.Nuevo(t)
	svc := NewService(env.Store.Reportes(), env.Store.Rifas(), nil)
	propio := env.Usuario(t, "Vendedor", domain.RolVendedor, "")
	ajeno := env.Usuario(t, "Otro", domain.RolVendedor, "")

	_, err := svc.PorVendedor(context.Background(), domain.Actor{ID: propio.ID, Rol: propio.Rol}, ajeno.ID)
	assert.ErrorIs(t, err, domain.ErrProhibido)

	resumen, err := svc.PorVendedor(context.Background(), domain.Actor{ID: propio.ID, Rol: propio.Rol}, propio.ID)
	require.NoError(t, err)
	assert.Equal(t, propio.ID, resumen.VendedorID)
}

func TestService_EnVivo_DebeLeerContadores(t *testing.T) {
	env := apptest.Nuevo(t)
	ctx := context.Background()
	tipo := env.TipoRifa(t, "Cuatro", 4)
	rifa := env.Rifa(t, tipo.ID, env.Reloj.Ahora())
	contador := nuevoContador(t)
	svc := NewService(env.Store.Reportes(), env.Store.Rifas(), contador)

	_, err := contador.Incrementar(ctx, ClaveVentas(rifa.ID), 3)
	require.NoError(t, err)
	_, err = contador.Incrementar(ctx, ClaveVendidoCentavos(rifa.ID), 750)
	require.NoError(t, err)
	_, err = contador.Incrementar(ctx, ClaveMontoPagadoCentavos(rifa.ID), 5000)
	require.NoError(t, err)

	vivo, err := svc.EnVivo(ctx, rifa.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), vivo.Ventas)
	assert.True(t, apptest.Dinero("7.50").Equal(vivo.TotalVendido))
	assert.True(t, apptest.Dinero("50").Equal(vivo.MontoPagado))
	assert.Zero(t, vivo.Ganadores)
}

func TestService_EnVivo_CuandoSinContador_DebeDevolverCeros(t *testing.T) {
	env := apptest.Nuevo(t)
	tipo := env.TipoRifa(t, "Cuatro", 4)
	rifa := env.Rifa(t, tipo.ID, env.Reloj.Ahora())
	svc := NewService(env.Store.Reportes(), env.Store.Rifas(), nil)

	vivo, err := svc.EnVivo(context.Background(), rifa.ID)
	require.NoError(t, err)
	assert.Zero(t, vivo.Ventas)
	assert.True(t, vivo.TotalVendido.IsZero())
}
