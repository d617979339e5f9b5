package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

// repositorios construye repositorios sobre el *gorm.DB recibido, sea la conexion o una transaccion.
type repositorios struct {
	db *gorm.DB
}

func (r repositorios) Usuarios() domain.UsuarioRepository { return NewUsuarioRepository(r.db) }

func (r repositorios) Areas() domain.AreaRepository { return NewAreaRepository(r.db) }

func (r repositorios) TiposRifa() domain.TipoRifaRepository { return NewTipoRifaRepository(r.db) }

func (r repositorios) Premios() domain.OpcionPremioRepository { return NewOpcionPremioRepository(r.db) }

func (r repositorios) Rifas() domain.RifaRepository { return NewRifaRepository(r.db) }

func (r repositorios) Facturas() domain.FacturaRepository { return NewFacturaRepository(r.db) }

func (r repositorios) Ventas() domain.VentaRepository { return NewVentaRepository(r.db) }

func (r repositorios) NumerosGanadores() domain.NumeroGanadorRepository {
	return NewNumeroGanadorRepository(r.db)
}

func (r repositorios) Ganadores() domain.GanadorRepository { return NewGanadorRepository(r.db) }

func (r repositorios) Transacciones() domain.TransaccionRepository {
	return NewTransaccionRepository(r.db)
}

// Store es la unidad de trabajo sobre GORM.
type Store struct {
	repositorios
}

func NewStore(db *gorm.DB) *Store {
	return &Store{repositorios{db: db}}
}

func (s *Store) Ejecutar(ctx context.Context, fn func(domain.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txStore{repositorios{db: tx}})
	})
}

func (s *Store) Reportes() *ReporteRepository {
	return NewReporteRepository(s.db)
}

type txStore struct {
	repositorios
}

// Anidada usa la transaccion anidada de GORM, que abre un SAVEPOINT.
func (t txStore) Anidada(ctx context.Context, fn func(domain.Tx) error) error {
	return t.db.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return fn(txStore{repositorios{db: sp}})
	})
}

var (
	_ domain.UnitOfWork = (*Store)(nil)
	_ domain.Tx         = txStore{}
)
