package state

import "time"

// ToastTTL es la duración fija de un toast antes del auto-dismiss.
const ToastTTL = 5 * time.Second

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Toast es el mensaje transitorio visible. ID es un token monótono: cada Show
// emite uno nuevo y los timers de dismiss viejos quedan cercados (un timer
// programado contra un toast ya reemplazado no voltea al vigente).
type Toast struct {
	ID       int64
	Message  string
	Severity Severity
}

// Toaster muestra un mensaje transitorio a la vez. Sin cola ni stacking:
// Show reemplaza lo que hubiera.
type Toaster struct {
	seq     int64
	current *Toast
}

func NewToaster() *Toaster {
	return &Toaster{}
}

// Show reemplaza el toast visible y devuelve el nuevo, cuyo ID debe usarse
// para programar el auto-dismiss (la capa de UI es dueña del timer).
func (t *Toaster) Show(message string, severity Severity) Toast {
	t.seq++
	toast := Toast{ID: t.seq, Message: message, Severity: severity}
	t.current = &toast
	return toast
}

// Dismiss oculta el toast solo si id corresponde al vigente; un id viejo es
// un no-op. id=0 descarta incondicionalmente (cierre manual).
func (t *Toaster) Dismiss(id int64) {
	if t.current == nil {
		return
	}
	if id != 0 && t.current.ID != id {
		return
	}
	t.current = nil
}

// Current devuelve el toast visible, si hay.
func (t *Toaster) Current() (Toast, bool) {
	if t.current == nil {
		return Toast{}, false
	}
	return *t.current, true
}
