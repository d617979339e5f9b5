package sorteo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/rifaparatodos/internal/app/apptest"
	"github.com/marcelojr/rifaparatodos/internal/domain"
)

var gestor = domain.Actor{ID: "01HSUPERVISOR0000000000000", Rol: domain.RolSupervisor}

type escenario struct {
	env       *apptest.Entorno
	svc       *Service
	tipo      domain.TipoRifa
	rifa      domain.Rifa
	vendedor  domain.Usuario
	comprador domain.Usuario
}

// nuevoEscenario arma una rifa de 4 cifras jugada hace una hora con tabla general para $1.00.
func nuevoEscenario(t *testing.T) *escenario {
	env := apptest.Nuevo(t)
	tipo := env.TipoRifa(t, "Cuatro cifras", 4)
	rifa := env.Rifa(t, tipo.ID, env.Reloj.Ahora().Add(-time.Hour))
	env.Premios(t, tipo.ID, "", "1.00", 4, "4500", "300", "50", "5")
	return &escenario{
		env:       env,
		svc:       NewService(env.Store, env.Publicador, env.Reloj, env.IDs),
		tipo:      tipo,
		rifa:      rifa,
		vendedor:  env.Usuario(t, "Vendedor", domain.RolVendedor, ""),
		comprador: env.Usuario(t, "Cliente", domain.RolCliente, ""),
	}
}

func (e *escenario) declarar(t *testing.T, sorteo, nivel int, numero string) Resultado {
	t.Helper()
	res, err := e.svc.DeclararNumero(context.Background(), gestor, Declaracion{RifaID: e.rifa.ID, Sorteo: sorteo, Nivel: nivel, Numero: numero})
	require.NoError(t, err)
	return res
}

func TestNivelPara(t *testing.T) {
	ganador := domain.NumeroGanador{Numero: "1234", Nivel: 1}

	casos := []struct {
		numero string
		nivel  int
		ok     bool
	}{
		{"1234", 1, true},
		{"234", 2, true},
		{"34", 3, true},
		{"4", 4, true},
		{"99", 0, false},
		{"123", 0, false},
		{"01234", 0, false},
		{"", 0, false},
	}
	for _, c := range casos {
		nivel, ok := NivelPara(ganador, c.numero)
		assert.Equal(t, c.ok, ok, c.numero)
		assert.Equal(t, c.nivel, nivel, c.numero)
	}
}

func TestNivelPara_CuandoPasaDelUltimoNivel_NoDebeGenerarPremio(t *testing.T) {
	ganador := domain.NumeroGanador{Numero: "1234", Nivel: 8}

	nivel, ok := NivelPara(ganador, "34")
	assert.True(t, ok)
	assert.Equal(t, 10, nivel)

	_, ok = NivelPara(ganador, "4")
	assert.False(t, ok)
}

func TestCruzar_DebeIgnorarVentasEliminadasYDeOtraRifa(t *testing.T) {
	ganador := domain.NumeroGanador{RifaID: "R1", Numero: "1234", Nivel: 1}
	ventas := []domain.Venta{
		{ID: "a", RifaID: "R1", Numero: "34", Estado: domain.VentaActiva},
		{ID: "b", RifaID: "R1", Numero: "34", Estado: domain.VentaEliminada},
		{ID: "c", RifaID: "R2", Numero: "1234", Estado: domain.VentaActiva},
		{ID: "d", RifaID: "R1", Numero: "99", Estado: domain.VentaActiva},
	}

	out := Cruzar(ganador, ventas)
	require.Len(t, out, 1)
	assert.Equal(t, domain.VentaID("a"), out[0].Venta.ID)
	assert.Equal(t, 3, out[0].Nivel)
}

func TestService_DeclararNumero_CuandoSufijoCoincide_DebeGenerarPremioDelNivel(t *testing.T) {
	e := nuevoEscenario(t)
	_, ventas := e.env.Factura(t, e.vendedor.ID, e.comprador.ID, e.rifa.ID,
		apptest.Linea{Numero: "34", Monto: "1.00"},
		apptest.Linea{Numero: "99", Monto: "1.00"},
	)

	res := e.declarar(t, 1, 1, "1234")
	assert.False(t, res.Revisado)
	assert.Equal(t, int64(1), res.Generados)

	ganadores, err := e.svc.ListarGanadores(context.Background(), e.rifa.ID)
	require.NoError(t, err)
	require.Len(t, ganadores, 1)
	g := ganadores[0]
	assert.Equal(t, ventas[0].ID, g.VentaID)
	assert.Equal(t, 3, g.Nivel)
	assert.True(t, apptest.Dinero("50").Equal(g.Premio), g.Premio.String())
	assert.Equal(t, res.Numero.ID, g.NumeroGanadorID)
	assert.False(t, g.Pagada)

	eventos := e.env.Publicador.Eventos()
	require.Len(t, eventos, 1)
	assert.Equal(t, domain.EventoGanadoresGenerados, eventos[0].Tipo)
	assert.Equal(t, int64(1), eventos[0].Cantidad)
}

func TestService_DeclararNumero_CuandoAreaTieneTabla_DebePreferirla(t *testing.T) {
	e := nuevoEscenario(t)
	norte := e.env.Area(t, "Norte")
	e.env.Premios(t, e.tipo.ID, norte.ID, "1.00", 4, "9000", "600", "80")
	delNorte := e.env.Usuario(t, "Cliente norte", domain.RolCliente, norte.ID)
	e.env.Factura(t, e.vendedor.ID, delNorte.ID, e.rifa.ID, apptest.Linea{Numero: "34", Monto: "1.00"})
	e.env.Factura(t, e.vendedor.ID, e.comprador.ID, e.rifa.ID, apptest.Linea{Numero: "34", Monto: "1.00"})

	e.declarar(t, 1, 1, "1234")

	ganadores, err := e.svc.ListarGanadores(context.Background(), e.rifa.ID)
	require.NoError(t, err)
	require.Len(t, ganadores, 2)
	premios := map[domain.UsuarioID]string{}
	for _, g := range ganadores {
		premios[g.CompradorID] = g.Premio.StringFixed(2)
	}
	assert.Equal(t, "80.00", premios[delNorte.ID])
	assert.Equal(t, "50.00", premios[e.comprador.ID])
}

func TestService_DeclararNumero_CuandoSinTabla_DebeGenerarPremioCero(t *testing.T) {
	e := nuevoEscenario(t)
	e.env.Factura(t, e.vendedor.ID, e.comprador.ID, e.rifa.ID, apptest.Linea{Numero: "1234", Monto: "2.00"})

	e.declarar(t, 1, 1, "1234")

	ganadores, err := e.svc.ListarGanadores(context.Background(), e.rifa.ID)
	require.NoError(t, err)
	require.Len(t, ganadores, 1)
	assert.True(t, ganadores[0].Premio.IsZero())
}

func TestService_DeclararNumero_CuandoVentaEliminada_NoDebeGenerarPremio(t *testing.T) {
	e := nuevoEscenario(t)
	_, ventas := e.env.Factura(t, e.vendedor.ID, e.comprador.ID, e.rifa.ID, apptest.Linea{Numero: "34", Monto: "1.00"})
	ok, err := e.env.Store.Ventas().MarcarEliminada(context.Background(), ventas[0].ID, e.env.Reloj.Ahora())
	require.NoError(t, err)
	require.True(t, ok)

	res := e.declarar(t, 1, 1, "1234")
	assert.Equal(t, int64(0), res.Generados)
}

func TestService_Revalidar_CuandoSeRepite_DebeSerIdempotente(t *testing.T) {
	e := nuevoEscenario(t)
	e.env.Factura(t, e.vendedor.ID, e.comprador.ID, e.rifa.ID,
		apptest.Linea{Numero: "4", Monto: "1.00"},
		apptest.Linea{Numero: "234", Monto: "1.00"},
	)
	res := e.declarar(t, 1, 1, "1234")
	require.Equal(t, int64(2), res.Generados)

	for i := 0; i < 2; i++ {
		rev, err := e.svc.Revalidar(context.Background(), res.Numero.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), rev.Eliminados)
		assert.Equal(t, int64(2), rev.Generados)
	}

	ganadores, err := e.svc.ListarGanadores(context.Background(), e.rifa.ID)
	require.NoError(t, err)
	assert.Len(t, ganadores, 2)
}

func TestService_DeclararNumero_CuandoSeCorrige_DebeReemplazarPremios(t *testing.T) {
	e := nuevoEscenario(t)
	_, ventas := e.env.Factura(t, e.vendedor.ID, e.comprador.ID, e.rifa.ID,
		apptest.Linea{Numero: "34", Monto: "1.00"},
		apptest.Linea{Numero: "78", Monto: "1.00"},
	)
	primero := e.declarar(t, 1, 1, "1234")

	corregido := e.declarar(t, 1, 1, "5678")
	assert.True(t, corregido.Revisado)
	assert.Equal(t, primero.Numero.ID, corregido.Numero.ID)
	assert.Equal(t, int64(1), corregido.Eliminados)
	assert.Equal(t, int64(1), corregido.Generados)

	ganadores, err := e.svc.ListarGanadores(context.Background(), e.rifa.ID)
	require.NoError(t, err)
	require.Len(t, ganadores, 1)
	assert.Equal(t, ventas[1].ID, ganadores[0].VentaID)

	numeros, err := e.svc.ListarNumeros(context.Background(), e.rifa.ID)
	require.NoError(t, err)
	require.Len(t, numeros, 1)
	assert.Equal(t, "5678", numeros[0].Numero)
}

func TestService_DeclararNumero_CuandoFacturaRepiteNumeroEnDosRifas_DebePremiarAmbas(t *testing.T) {
	e := nuevoEscenario(t)
	otra := e.env.Rifa(t, e.tipo.ID, e.env.Reloj.Ahora().Add(-time.Hour))
	_, ventas := e.env.Factura(t, e.vendedor.ID, e.comprador.ID, e.rifa.ID,
		apptest.Linea{Numero: "1234", Monto: "1.00"},
		apptest.Linea{RifaID: otra.ID, Numero: "1234", Monto: "1.00"},
	)

	primera := e.declarar(t, 1, 1, "1234")
	segunda, err := e.svc.DeclararNumero(context.Background(), gestor, Declaracion{RifaID: otra.ID, Sorteo: 1, Nivel: 1, Numero: "1234"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), primera.Generados)
	assert.Equal(t, int64(1), segunda.Generados)

	enPrimera, err := e.svc.ListarGanadores(context.Background(), e.rifa.ID)
	require.NoError(t, err)
	require.Len(t, enPrimera, 1)
	enOtra, err := e.svc.ListarGanadores(context.Background(), otra.ID)
	require.NoError(t, err)
	require.Len(t, enOtra, 1)

	assert.Equal(t, ventas[0].ID, enPrimera[0].VentaID)
	assert.Equal(t, ventas[1].ID, enOtra[0].VentaID)
	assert.True(t, apptest.Dinero("4500").Equal(enOtra[0].Premio), enOtra[0].Premio.String())
	assert.NotEqual(t, enPrimera[0].Clave(), enOtra[0].Clave())
}

func TestService_DeclararNumero_CuandoCorreccionLiberaClave_DebeRecuperarPremioDeOtroSorteo(t *testing.T) {
	e := nuevoEscenario(t)
	_, ventas := e.env.Factura(t, e.vendedor.ID, e.comprador.ID, e.rifa.ID, apptest.Linea{Numero: "34", Monto: "1.00"})

	primero := e.declarar(t, 1, 1, "1234")
	require.Equal(t, int64(1), primero.Generados)
	segundo := e.declarar(t, 2, 1, "5634")
	require.Equal(t, int64(0), segundo.Generados)

	corregido := e.declarar(t, 1, 1, "9999")
	assert.Equal(t, int64(1), corregido.Eliminados)
	assert.Equal(t, int64(1), corregido.Generados)

	ganadores, err := e.svc.ListarGanadores(context.Background(), e.rifa.ID)
	require.NoError(t, err)
	require.Len(t, ganadores, 1)
	assert.Equal(t, ventas[0].ID, ganadores[0].VentaID)
	assert.Equal(t, segundo.Numero.ID, ganadores[0].NumeroGanadorID)
	assert.Equal(t, 3, ganadores[0].Nivel)
	assert.True(t, apptest.Dinero("50").Equal(ganadores[0].Premio), ganadores[0].Premio.String())
}

func TestService_Revalidar_CuandoOtroSorteoTieneLaClave_NoDebeDuplicarPremio(t *testing.T) {
	e := nuevoEscenario(t)
	e.env.Factura(t, e.vendedor.ID, e.comprador.ID, e.rifa.ID, apptest.Linea{Numero: "34", Monto: "1.00"})
	primero := e.declarar(t, 1, 1, "1234")
	e.declarar(t, 2, 1, "5634")

	rev, err := e.svc.Revalidar(context.Background(), primero.Numero.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev.Eliminados)
	assert.Equal(t, int64(1), rev.Generados)

	ganadores, err := e.svc.ListarGanadores(context.Background(), e.rifa.ID)
	require.NoError(t, err)
	require.Len(t, ganadores, 1)
	assert.Equal(t, primero.Numero.ID, ganadores[0].NumeroGanadorID)
}

func TestService_DeclararNumero_CuandoHayPremioPagado_DebeRechazarCorreccion(t *testing.T) {
	e := nuevoEscenario(t)
	e.env.Factura(t, e.vendedor.ID, e.comprador.ID, e.rifa.ID, apptest.Linea{Numero: "34", Monto: "1.00"})
	e.declarar(t, 1, 1, "1234")

	ganadores, err := e.svc.ListarGanadores(context.Background(), e.rifa.ID)
	require.NoError(t, err)
	require.Len(t, ganadores, 1)
	ok, err := e.env.Store.Ganadores().MarcarPagado(context.Background(), ganadores[0].ID, e.vendedor.ID, e.env.Reloj.Ahora())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = e.svc.DeclararNumero(context.Background(), gestor, Declaracion{RifaID: e.rifa.ID, Sorteo: 1, Nivel: 1, Numero: "9999"})
	assert.ErrorIs(t, err, ErrNumeroConPagos)
	assert.ErrorIs(t, err, domain.ErrConflicto)

	numeros, err := e.svc.ListarNumeros(context.Background(), e.rifa.ID)
	require.NoError(t, err)
	assert.Equal(t, "1234", numeros[0].Numero)
}

func TestService_DeclararNumero_Validaciones(t *testing.T) {
	e := nuevoEscenario(t)
	ctx := context.Background()

	casos := map[string]Declaracion{
		"letras":      {RifaID: e.rifa.ID, Sorteo: 1, Nivel: 1, Numero: "12a4"},
		"vacio":       {RifaID: e.rifa.ID, Sorteo: 1, Nivel: 1, Numero: ""},
		"nivel cero":  {RifaID: e.rifa.ID, Sorteo: 1, Nivel: 0, Numero: "1234"},
		"nivel once":  {RifaID: e.rifa.ID, Sorteo: 1, Nivel: 11, Numero: "1234"},
		"sorteo cero": {RifaID: e.rifa.ID, Sorteo: 0, Nivel: 1, Numero: "1234"},
		"demasiadas":  {RifaID: e.rifa.ID, Sorteo: 1, Nivel: 1, Numero: "12345"},
		"sin rifa":    {Sorteo: 1, Nivel: 1, Numero: "1234"},
	}
	for nombre, d := range casos {
		_, err := e.svc.DeclararNumero(ctx, gestor, d)
		assert.ErrorIs(t, err, domain.ErrValidacion, nombre)
	}
}

func TestService_DeclararNumero_CuandoRifaNoExiste_DebeDevolverNotFound(t *testing.T) {
	e := nuevoEscenario(t)

	_, err := e.svc.DeclararNumero(context.Background(), gestor, Declaracion{RifaID: "01HNOEXISTE000000000000000", Sorteo: 1, Nivel: 1, Numero: "1234"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_DeclararNumero_CuandoRifaNoSeJuega_DebeFallar(t *testing.T) {
	e := nuevoEscenario(t)
	futura := e.env.Rifa(t, e.tipo.ID, e.env.Reloj.Ahora().Add(24*time.Hour))

	_, err := e.svc.DeclararNumero(context.Background(), gestor, Declaracion{RifaID: futura.ID, Sorteo: 1, Nivel: 1, Numero: "1234"})
	assert.ErrorIs(t, err, ErrRifaSinJugar)
}

func TestService_DeclararNumero_CuandoPublicadorFalla_DebeConfirmarIgual(t *testing.T) {
	e := nuevoEscenario(t)
	e.env.Publicador.Err = assert.AnError
	e.env.Factura(t, e.vendedor.ID, e.comprador.ID, e.rifa.ID, apptest.Linea{Numero: "34", Monto: "1.00"})

	res := e.declarar(t, 1, 1, "1234")
	assert.Equal(t, int64(1), res.Generados)
}
