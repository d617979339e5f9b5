package sorteo

import (
	"strings"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

// Coincidencia es una venta que acierta un numero ganador en el nivel indicado.
type Coincidencia struct {
	Venta domain.Venta
	Nivel int
}

// NivelPara devuelve el nivel de premio de un numero vendido frente al numero ganador. El acierto
// completo conserva el nivel declarado y cada cifra faltante baja un nivel. false indica que no hay
// premio: el numero no es sufijo del ganador o el nivel pasa de NivelesPremio.
func NivelPara(ganador domain.NumeroGanador, numero string) (int, bool) {
	if numero == "" || !strings.HasSuffix(ganador.Numero, numero) {
		return 0, false
	}
	nivel := ganador.Nivel + len(ganador.Numero) - len(numero)
	if nivel < 1 || nivel > domain.NivelesPremio {
		return 0, false
	}
	return nivel, true
}

// Cruzar compara el numero ganador con las ventas activas de su rifa.
func Cruzar(ganador domain.NumeroGanador, ventas []domain.Venta) []Coincidencia {
	var out []Coincidencia
	for _, v := range ventas {
		if !v.Activa() || v.RifaID != ganador.RifaID {
			continue
		}
		if nivel, ok := NivelPara(ganador, v.Numero); ok {
			out = append(out, Coincidencia{Venta: v, Nivel: nivel})
		}
	}
	return out
}

func soloDigitos(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
