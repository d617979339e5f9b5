package saldos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/rifaparatodos/internal/app/apptest"
	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/antifraude"
)

func nuevoServicio(t *testing.T) (*Service, *apptest.Entorno) {
	env := apptest.Nuevo(t)
	libro := NewLibro(env.Reloj, env.IDs)
	return NewService(env.Store, libro, antifraude.NewNoop()), env
}

func TestService_Recargar_DebeActualizarSaldoYEscribirAsiento(t *testing.T) {
	svc, env := nuevoServicio(t)
	ctx := context.Background()
	admin := env.Usuario(t, "Admin", domain.RolAdministrador, "")
	cliente := env.Usuario(t, "Cliente", domain.RolCliente, "")
	actor := domain.Actor{ID: admin.ID, Rol: admin.Rol}

	asiento, err := svc.Recargar(ctx, actor, cliente.ID, apptest.Dinero("100"), "")
	require.NoError(t, err)

	assert.Equal(t, domain.TransaccionRecarga, asiento.Tipo)
	assert.True(t, asiento.SaldoAnterior.IsZero())
	assert.True(t, apptest.Dinero("100").Equal(asiento.SaldoNuevo))
	require.NotNil(t, asiento.RealizadoPorID)
	assert.Equal(t, admin.ID, *asiento.RealizadoPorID)
	assert.Equal(t, "Recarga de saldo", asiento.Descripcion)
	assert.True(t, apptest.Dinero("100").Equal(env.Saldo(t, cliente.ID)))
}

func TestService_Retirar_CuandoSaldoInsuficiente_DebeFallarSinAsiento(t *testing.T) {
	svc, env := nuevoServicio(t)
	ctx := context.Background()
	admin := env.Usuario(t, "Admin", domain.RolAdministrador, "")
	cliente := env.Usuario(t, "Cliente", domain.RolCliente, "")
	actor := domain.Actor{ID: admin.ID, Rol: admin.Rol}

	_, err := svc.Recargar(ctx, actor, cliente.ID, apptest.Dinero("30"), "")
	require.NoError(t, err)

	_, err = svc.Retirar(ctx, actor, cliente.ID, apptest.Dinero("30.01"), "")
	assert.ErrorIs(t, err, ErrSaldoInsuficiente)

	movimientos, err := svc.Movimientos(ctx, actor, cliente.ID)
	require.NoError(t, err)
	assert.Len(t, movimientos, 1)
	assert.True(t, apptest.Dinero("30").Equal(env.Saldo(t, cliente.ID)))
}

func TestService_Retirar_CuandoAlcanza_DebeEncadenarSaldos(t *testing.T) {
	svc, env := nuevoServicio(t)
	ctx := context.Background()
	admin := env.Usuario(t, "Admin", domain.RolAdministrador, "")
	cliente := env.Usuario(t, "Cliente", domain.RolCliente, "")
	actor := domain.Actor{ID: admin.ID, Rol: admin.Rol}

	_, err := svc.Recargar(ctx, actor, cliente.ID, apptest.Dinero("50"), "")
	require.NoError(t, err)
	_, err = svc.Retirar(ctx, actor, cliente.ID, apptest.Dinero("20.50"), "cobro en caja")
	require.NoError(t, err)

	movimientos, err := svc.Movimientos(ctx, domain.Actor{ID: cliente.ID, Rol: cliente.Rol}, cliente.ID)
	require.NoError(t, err)
	require.Len(t, movimientos, 2)
	for i := 1; i < len(movimientos); i++ {
		assert.True(t, movimientos[i-1].SaldoNuevo.Equal(movimientos[i].SaldoAnterior))
	}
	assert.Equal(t, "cobro en caja", movimientos[1].Descripcion)
	assert.True(t, apptest.Dinero("29.50").Equal(env.Saldo(t, cliente.ID)))
}

func TestService_Recargar_CuandoMontoNoPositivo_DebeFallar(t *testing.T) {
	svc, env := nuevoServicio(t)
	cliente := env.Usuario(t, "Cliente", domain.RolCliente, "")

	_, err := svc.Recargar(context.Background(), domain.Actor{ID: "a", Rol: domain.RolAdministrador}, cliente.ID, apptest.Dinero("0"), "")

	assert.ErrorIs(t, err, domain.ErrValidacion)
}

func TestService_Recargar_CuandoUsuarioNoExiste_DebeDevolverNotFound(t *testing.T) {
	svc, _ := nuevoServicio(t)

	_, err := svc.Recargar(context.Background(), domain.Actor{ID: "a", Rol: domain.RolAdministrador}, "inexistente", apptest.Dinero("1"), "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Movimientos_CuandoLibroAjeno_DebeProhibir(t *testing.T) {
	svc, env := nuevoServicio(t)
	a := env.Usuario(t, "A", domain.RolCliente, "")
	b := env.Usuario(t, "B", domain.RolCliente, "")

	_, err := svc.Movimientos(context.Background(), domain.Actor{ID: a.ID, Rol: a.Rol}, b.ID)

	assert.ErrorIs(t, err, domain.ErrProhibido)
}

func TestLibro_Aplicar_CuandoPermiteNegativo_DebeDejarSaldoBajoCero(t *testing.T) {
	env := apptest.Nuevo(t)
	libro := NewLibro(env.Reloj, env.IDs)
	cliente := env.Usuario(t, "Cliente", domain.RolCliente, "")
	ctx := context.Background()

	var asiento domain.Transaccion
	err := env.Store.Ejecutar(ctx, func(tx domain.Tx) error {
		var err error
		asiento, err = libro.Aplicar(ctx, tx, Movimiento{
			UsuarioID:        cliente.ID,
			Tipo:             domain.TransaccionRetiro,
			Monto:            apptest.Dinero("500"),
			PermitirNegativo: true,
		})
		return err
	})
	require.NoError(t, err)

	assert.True(t, apptest.Dinero("-500").Equal(asiento.SaldoNuevo))
	assert.True(t, env.Reloj.Ahora().Equal(asiento.CreadoEn))
	assert.True(t, apptest.Dinero("-500").Equal(env.Saldo(t, cliente.ID)))
}
