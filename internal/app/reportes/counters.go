package reportes

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

// Los montos se guardan en centavos para poder usar INCRBY.

func ClaveVentas(id domain.RifaID) string {
	return fmt.Sprintf("rifa:%s:ventas", id)
}

func ClaveVendidoCentavos(id domain.RifaID) string {
	return fmt.Sprintf("rifa:%s:vendido_centavos", id)
}

func ClaveGanadores(id domain.RifaID) string {
	return fmt.Sprintf("rifa:%s:ganadores", id)
}

func ClavePremiosPagados(id domain.RifaID) string {
	return fmt.Sprintf("rifa:%s:premios_pagados", id)
}

func ClaveMontoPagadoCentavos(id domain.RifaID) string {
	return fmt.Sprintf("rifa:%s:monto_pagado_centavos", id)
}

func ACentavos(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func DesdeCentavos(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
