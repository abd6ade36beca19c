package state

import (
	"context"
	"errors"
	"sync"

	"pet-health-console/internal/api"
)

var errFormClosed = errors.New("form is not open")

// FormHooks son las operaciones por entidad que necesita un formulario.
// Create y Update hacen el round trip contra el backend; Validate chequea
// presencia de campos requeridos (nada más: el resto lo valida el server).
type FormHooks[V any] struct {
	Defaults func() V
	Validate func(V) error
	Create   func(ctx context.Context, v V) error
	Update   func(ctx context.Context, id int64, v V) error
}

// FormCallbacks conectan el formulario con toasts y refetch del agregador.
// Por cada Save dispara exactamente uno de OnSuccess/OnError.
type FormCallbacks struct {
	OnSuccess func()
	OnError   func(msg string)
	Refetch   func()
}

// Form es el controlador de estado del formulario crear/editar de una
// entidad: abierto/cerrado, valores actuales, marcador de edición y flag de
// guardado en vuelo. Se instancia una vez por tipo de entidad.
//
// Save corre en una goroutine aparte del loop de la UI, así que todo el
// estado va detrás del mutex. El lock nunca se sostiene durante la llamada
// de red.
type Form[V any] struct {
	hooks     FormHooks[V]
	callbacks FormCallbacks

	mu        sync.Mutex
	open      bool
	editingID int64 // 0 = creando
	value     V
	saving    bool
}

func NewForm[V any](hooks FormHooks[V], callbacks FormCallbacks) *Form[V] {
	f := &Form[V]{hooks: hooks, callbacks: callbacks}
	if hooks.Defaults != nil {
		f.value = hooks.Defaults()
	}
	return f
}

// StartCreate resetea los campos a defaults, limpia el marcador de edición y
// abre el formulario.
func (f *Form[V]) StartCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hooks.Defaults != nil {
		f.value = f.hooks.Defaults()
	} else {
		var zero V
		f.value = zero
	}
	f.editingID = 0
	f.open = true
}

// StartEdit carga los campos desde un registro existente y marca su id.
func (f *Form[V]) StartEdit(id int64, v V) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
	f.editingID = id
	f.open = true
}

// Cancel cierra y resetea, descartando lo no guardado. Sin red.
func (f *Form[V]) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.editingID = 0
	if f.hooks.Defaults != nil {
		f.value = f.hooks.Defaults()
	}
}

// SetValue pisa los valores actuales (la UI lo llama al submit, después de
// armar V desde los inputs).
func (f *Form[V]) SetValue(v V) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
}

func (f *Form[V]) Value() V {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *Form[V]) Open() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *Form[V]) Saving() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saving
}

// Editing devuelve el id en edición; ok=false si se está creando.
func (f *Form[V]) Editing() (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editingID, f.editingID != 0
}

// Save valida localmente y hace create o update según el marcador de edición.
// Falla de validación => OnError, sin llamada de red, el formulario sigue
// abierto. Éxito => cierra, limpia marcador, OnSuccess y Refetch. Falla remota
// o de transporte => OnError con el mensaje del server cuando existe; el
// formulario queda abierto con los valores intactos para reintentar.
// saving vuelve a false en todo camino de salida.
func (f *Form[V]) Save(ctx context.Context) error {
	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return errFormClosed
	}
	if f.saving {
		// guard de UI: el submit está deshabilitado mientras saving=true,
		// esto solo cubre el double-dispatch
		f.mu.Unlock()
		return nil
	}

	if f.hooks.Validate != nil {
		if err := f.hooks.Validate(f.value); err != nil {
			f.mu.Unlock()
			f.callbacks.OnError(err.Error())
			return err
		}
	}

	f.saving = true
	id, v := f.editingID, f.value
	f.mu.Unlock()

	var err error
	if id != 0 {
		err = f.hooks.Update(ctx, id, v)
	} else {
		err = f.hooks.Create(ctx, v)
	}

	f.mu.Lock()
	f.saving = false
	if err != nil {
		f.mu.Unlock()
		f.callbacks.OnError(api.UserMessage(err))
		return err
	}

	f.open = false
	f.editingID = 0
	if f.hooks.Defaults != nil {
		f.value = f.hooks.Defaults()
	}
	f.mu.Unlock()

	f.callbacks.OnSuccess()
	f.callbacks.Refetch()
	return nil
}
