// Emite un token de sesion para un usuario existente; util en desarrollo y para scripts de operacion.
package main

import (
	"flag"
	"fmt"

	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/auth"
	"github.com/marcelojr/rifaparatodos/internal/platform/clock"
	"github.com/marcelojr/rifaparatodos/internal/platform/config"
	"github.com/marcelojr/rifaparatodos/internal/platform/logger"
)

func main() {
	id := flag.String("id", "", "id del usuario")
	rol := flag.String("rol", string(domain.RolAdministrador), "rol del usuario")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracion invalida", "err", err)
	}

	actor := domain.Actor{ID: domain.UsuarioID(*id), Rol: domain.Rol(*rol)}
	if actor.ID == "" || !actor.Rol.Valido() {
		logger.Fatal("id y rol validos son obligatorios", "id", *id, "rol", *rol)
	}

	token, err := auth.NewEmisor(cfg.JWTSecret, cfg.SesionTTL, clock.NewSystemClock()).Emitir(actor)
	if err != nil {
		logger.Fatal("fallo al emitir token", "err", err)
	}
	fmt.Println(token)
}
