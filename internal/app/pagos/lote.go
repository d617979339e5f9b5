package pagos

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

const (
	PoliticaTodoONada = "todo_o_nada"
	PoliticaParcial   = "parcial"
)

type EstadoItem string

const (
	ItemPagado    EstadoItem = "pagado"
	ItemOmitido   EstadoItem = "omitido"
	ItemFallido   EstadoItem = "fallido"
	ItemRevertido EstadoItem = "revertido"
)

type ItemLote struct {
	Clave  domain.GanadorClave `json:"clave"`
	Estado EstadoItem          `json:"estado"`
	Monto  decimal.Decimal     `json:"monto"`
	Error  string              `json:"error,omitempty"`
}

type ResultadoLote struct {
	Politica string          `json:"politica"`
	Pagados  int             `json:"pagados"`
	Total    decimal.Decimal `json:"total"`
	Items    []ItemLote      `json:"items"`
}

// ErrLote se devuelve cuando la politica todo_o_nada revierte el lote; Resultado conserva el detalle por item.
type ErrLote struct {
	Resultado ResultadoLote
	Causa     error
}

func (e *ErrLote) Error() string {
	return fmt.Sprintf("lote revertido: %v", e.Causa)
}

func (e *ErrLote) Unwrap() error { return e.Causa }

func (r *ResultadoLote) sumar(i int, monto decimal.Decimal) {
	r.Items[i].Estado = ItemPagado
	r.Items[i].Monto = monto
	r.Pagados++
	r.Total = r.Total.Add(monto)
}

func (r *ResultadoLote) fallar(i int, estado EstadoItem, err error) {
	r.Items[i].Estado = estado
	r.Items[i].Error = err.Error()
}

// revertir deja el reporte consistente con una transaccion deshecha.
func (r *ResultadoLote) revertir() {
	for i := range r.Items {
		if r.Items[i].Estado == ItemPagado {
			r.Items[i].Estado = ItemRevertido
		}
	}
	r.Pagados = 0
	r.Total = decimal.Zero
}
