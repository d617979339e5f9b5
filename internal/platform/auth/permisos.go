package auth

import "github.com/marcelojr/rifaparatodos/internal/domain"

type Permiso string

const (
	PermisoCatalogo       Permiso = "catalogo"
	PermisoUsuarios       Permiso = "usuarios"
	PermisoVender         Permiso = "vender"
	PermisoDeclararNumero Permiso = "declarar_numero"
	PermisoPagarPremio    Permiso = "pagar_premio"
	PermisoCobrarPremio   Permiso = "cobrar_premio"
	PermisoSaldos         Permiso = "saldos"
	PermisoReportes       Permiso = "reportes"
	PermisoConsultar      Permiso = "consultar"
)

// Matriz asocia cada rol con los permisos que tiene.
type Matriz map[domain.Rol][]Permiso

func (m Matriz) Permite(rol domain.Rol, permiso Permiso) bool {
	for _, p := range m[rol] {
		if p == permiso {
			return true
		}
	}
	return false
}

func MatrizPorDefecto() Matriz {
	return Matriz{
		domain.RolAdministrador: {
			PermisoCatalogo, PermisoUsuarios, PermisoVender, PermisoDeclararNumero,
			PermisoPagarPremio, PermisoSaldos, PermisoReportes, PermisoConsultar,
		},
		domain.RolSupervisor: {
			PermisoUsuarios, PermisoDeclararNumero, PermisoPagarPremio,
			PermisoSaldos, PermisoReportes, PermisoConsultar,
		},
		domain.RolVendedor: {
			PermisoVender, PermisoPagarPremio, PermisoConsultar,
		},
		domain.RolCliente: {
			PermisoCobrarPremio, PermisoConsultar,
		},
	}
}
