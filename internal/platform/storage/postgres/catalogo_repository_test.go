package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

func TestOpcionPremioRepository_Reemplazar_CuandoYaExiste_DebeSustituirCombinacion(t *testing.T) {
	db := setupPostgres(t)
	repo := NewOpcionPremioRepository(db)
	ctx := context.Background()

	tipo := domain.TipoRifaID(gen.New())
	area := domain.AreaID(gen.New())
	opciones := func(premio string) []domain.OpcionPremio {
		var out []domain.OpcionPremio
		for nivel := 1; nivel <= 3; nivel++ {
			out = append(out, domain.OpcionPremio{
				TipoRifaID: tipo, AreaID: area, Monto: dinero("10"), Cifras: 4, Nivel: nivel, Premio: dinero(premio),
			})
		}
		return out
	}

	require.NoError(t, repo.Reemplazar(ctx, tipo, area, dinero("10"), 4, opciones("100")))
	require.NoError(t, repo.Reemplazar(ctx, tipo, area, dinero("10"), 4, opciones("250.50")))

	todas, err := repo.ListByTipo(ctx, tipo)
	require.NoError(t, err)
	assert.Len(t, todas, 3)

	got, err := repo.Buscar(ctx, tipo, area, dinero("10.00"), 4, 2)
	require.NoError(t, err)
	assert.True(t, dinero("250.50").Equal(got.Premio))
}

func TestOpcionPremioRepository_Buscar_CuandoNoConfigurado_DebeDevolverNotFound(t *testing.T) {
	db := setupPostgres(t)
	repo := NewOpcionPremioRepository(db)

	_, err := repo.Buscar(context.Background(), "tipo", "", dinero("5"), 3, 1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRifaRepository_ListDesde_DebeFiltrarPorFecha(t *testing.T) {
	db := setupPostgres(t)
	repo := NewRifaRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	vieja := domain.Rifa{ID: domain.RifaID(gen.New()), TipoRifaID: "t", Nombre: "vieja", FechaHoraJuego: base.Add(-48 * time.Hour)}
	nueva := domain.Rifa{ID: domain.RifaID(gen.New()), TipoRifaID: "t", Nombre: "nueva", FechaHoraJuego: base.Add(2 * time.Hour)}
	require.NoError(t, repo.Create(ctx, vieja))
	require.NoError(t, repo.Create(ctx, nueva))

	rifas, err := repo.ListDesde(ctx, base)
	require.NoError(t, err)
	require.Len(t, rifas, 1)
	assert.Equal(t, nueva.ID, rifas[0].ID)
}

func TestUsuarioRepository_ActualizarSaldo_DebePersistirYBloquear(t *testing.T) {
	db := setupPostgres(t)
	store := NewStore(db)
	ctx := context.Background()

	u := domain.Usuario{ID: domain.UsuarioID(gen.New()), Nombre: "Carla", Rol: domain.RolCliente, Activo: true}
	require.NoError(t, store.Usuarios().Create(ctx, u))

	err := store.Ejecutar(ctx, func(tx domain.Tx) error {
		bloqueado, err := tx.Usuarios().FindByIDParaActualizar(ctx, u.ID)
		if err != nil {
			return err
		}
		return tx.Usuarios().ActualizarSaldo(ctx, bloqueado.ID, bloqueado.Saldo.Add(dinero("75.25")))
	})
	require.NoError(t, err)

	got, err := store.Usuarios().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, dinero("75.25").Equal(got.Saldo))

	err = store.Usuarios().ActualizarSaldo(ctx, "inexistente", dinero("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUsuarioRepository_ListByRol(t *testing.T) {
	db := setupPostgres(t)
	repo := NewUsuarioRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, domain.Usuario{ID: domain.UsuarioID(gen.New()), Nombre: "V1", Rol: domain.RolVendedor}))
	require.NoError(t, repo.Create(ctx, domain.Usuario{ID: domain.UsuarioID(gen.New()), Nombre: "C1", Rol: domain.RolCliente}))

	vendedores, err := repo.ListByRol(ctx, domain.RolVendedor)
	require.NoError(t, err)
	require.Len(t, vendedores, 1)
	assert.Equal(t, "V1", vendedores[0].Nombre)

	todos, err := repo.ListByRol(ctx, "")
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}
