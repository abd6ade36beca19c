package ui

import (
	"pet-health-console/internal/records"
	"pet-health-console/internal/state"
)

// Mensajes asíncronos del programa. Cada comando termina en exactamente uno.

type loginDoneMsg struct {
	user records.User
	err  error
}

type portfolioMsg struct {
	res state.PortfolioResult
	err error
}

type usersMsg struct {
	users []records.User
	err   error
}

// saveDoneMsg llega cuando el Save de un formulario terminó (éxito o no);
// los efectos (toast, refetch) quedaron encolados por los callbacks.
type saveDoneMsg struct{}

// actionDoneMsg llega cuando una acción confirmada (delete/complete) terminó.
type actionDoneMsg struct {
	success string // mensaje para el toast si err == nil
	refetch bool
	users   bool // recargar la lista de usuarios
	err     error
}

// toastExpiredMsg dispara el auto-dismiss; id cerca timers viejos.
type toastExpiredMsg struct{ id int64 }

// sessionInvalidMsg: el monitor detectó sesión inválida (vía el canal).
type sessionInvalidMsg struct{}

// loggedOutMsg: el usuario cerró sesión desde la UI. Distinto de
// sessionInvalidMsg para no re-suscribir un lector extra al canal del monitor.
type loggedOutMsg struct{}
