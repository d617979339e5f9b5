package pagos

import "time"

// DiasVigencia es el plazo para cobrar un premio, en dias calendario desde el juego de la rifa.
const DiasVigencia = 8

// DiasTranscurridos cuenta dias calendario UTC entre el juego y ahora; la hora del dia no importa.
func DiasTranscurridos(juego, ahora time.Time) int {
	return int(inicioDelDia(ahora).Sub(inicioDelDia(juego)).Hours() / 24)
}

// Vencido compara dias calendario UTC, no horas transcurridas: un premio jugado a las 00:30 sigue
// vigente el octavo dia hasta las 23:59, y uno jugado a las 23:55 vence a las 00:00 del noveno dia
// aunque solo hayan pasado ocho dias y cinco minutos.
func Vencido(juego, ahora time.Time) bool {
	return DiasTranscurridos(juego, ahora) > DiasVigencia
}

func inicioDelDia(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
