package ui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pet-health-console/internal/api"
	"pet-health-console/internal/appctx"
	"pet-health-console/internal/platform/logger"
	"pet-health-console/internal/records"
	"pet-health-console/internal/session"
	"pet-health-console/internal/state"
)

// opTimeout acota cada llamada al backend disparada desde la TUI.
const opTimeout = 10 * time.Second

type screen int

const (
	screenLogin screen = iota
	screenMain
)

type section int

const (
	secVaccines section = iota
	secMedications
	secDewormings
	secReviews
	secWeights
	secDocuments
	secUsers
)

var sectionTitles = []string{
	"Vaccines", "Medications", "Dewormings", "Visits", "Weight", "Documents", "Users",
}

// noteEntry es un efecto diferido encolado por los callbacks de formulario,
// que corren en la goroutine del comando y no pueden tocar el modelo.
type noteEntry struct {
	message  string
	severity state.Severity
	refetch  bool
}

type noteQueue struct {
	mu      sync.Mutex
	entries []noteEntry
}

func (q *noteQueue) push(e noteEntry) {
	q.mu.Lock()
	q.entries = append(q.entries, e)
	q.mu.Unlock()
}

func (q *noteQueue) drain() []noteEntry {
	q.mu.Lock()
	out := q.entries
	q.entries = nil
	q.mu.Unlock()
	return out
}

// uploadView es el mini formulario de adjuntar archivos a un documento:
// rutas locales separadas por coma.
type uploadView struct {
	doc   records.Document
	input textinput.Model
	busy  bool
}

// Options arma el modelo raíz. SessionInvalid lo alimenta el monitor de
// sesión desde su propia goroutine.
type Options struct {
	API            *api.Client
	Store          *appctx.Store
	Log            logger.Logger
	Monitor        *session.Monitor
	SessionInvalid <-chan struct{}
	RequestedPetID int64
}

// Model es el modelo raíz Bubble Tea de la consola.
type Model struct {
	client  *api.Client
	store   *appctx.Store
	log     logger.Logger
	monitor *session.Monitor
	agg     *state.Aggregator

	confirmer *state.Confirmer
	toaster   *state.Toaster
	forms     forms
	notes     *noteQueue

	invalidCh      <-chan struct{}
	requestedPetID int64

	screen screen
	width  int
	height int

	// login
	loginUser  textinput.Model
	loginPass  textinput.Model
	loginFocus int
	loggingIn  bool

	user records.User

	// datos cargados
	res     state.PortfolioResult
	loaded  bool
	loading bool
	users   []records.User

	// navegación
	section section
	cursor  int

	// overlays (a lo sumo uno activo)
	activeForm   *formView
	upload       *uploadView
	promptView   *prompt
	weightInput  textinput.Model
	promptFocus  int // 0 = confirmar, 1 = cancelar
	actionInFly  bool
}

func New(opts Options) *Model {
	m := &Model{
		client:         opts.API,
		store:          opts.Store,
		log:            opts.Log,
		monitor:        opts.Monitor,
		agg:            state.NewAggregator(opts.API, opts.Store),
		confirmer:      state.NewConfirmer(),
		toaster:        state.NewToaster(),
		notes:          &noteQueue{},
		invalidCh:      opts.SessionInvalid,
		requestedPetID: opts.RequestedPetID,
		screen:         screenLogin,
	}

	m.loginUser = textinput.New()
	m.loginUser.Placeholder = "username"
	m.loginUser.Focus()
	m.loginPass = textinput.New()
	m.loginPass.Placeholder = "password"
	m.loginPass.EchoMode = textinput.EchoPassword

	cb := state.FormCallbacks{
		OnSuccess: func() {
			m.notes.push(noteEntry{message: "changes saved", severity: state.SeveritySuccess})
		},
		OnError: func(msg string) {
			m.notes.push(noteEntry{message: msg, severity: state.SeverityError})
		},
		Refetch: func() {
			m.notes.push(noteEntry{refetch: true})
		},
	}
	m.forms = newForms(opts.API, m.selectedPetID, cb)

	if u, ok := opts.Monitor.Resume(); ok {
		m.user = u
		m.screen = screenMain
	}
	return m
}

// selectedPetID es el pet activo; los hooks de create lo consultan recién al
// momento del save, desde la goroutine del comando. Por eso lee solo el store
// (que tiene su propio lock) y no campos del modelo: el agregador persiste la
// selección en cada fetch, así que el store siempre refleja el pet visible.
func (m *Model) selectedPetID() int64 {
	if id, ok := m.store.SelectedPet(); ok {
		return id
	}
	return 0
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.waitInvalid()}
	if m.screen == screenMain {
		m.loading = true
		cmds = append(cmds, m.fetchPortfolio(m.requestedPetID))
	}
	return tea.Batch(cmds...)
}

// --- comandos ---

func (m *Model) waitInvalid() tea.Cmd {
	ch := m.invalidCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return sessionInvalidMsg{}
	}
}

func (m *Model) doLogin(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		u, err := m.monitor.Login(ctx, username, password)
		return loginDoneMsg{user: u, err: err}
	}
}

func (m *Model) fetchPortfolio(requestedID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		res, err := m.agg.Fetch(ctx, requestedID)
		return portfolioMsg{res: res, err: err}
	}
}

func (m *Model) selectPet(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		res, err := m.agg.SelectPet(ctx, id)
		return portfolioMsg{res: res, err: err}
	}
}

func (m *Model) loadUsers() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		us, err := m.client.ListUsers(ctx)
		return usersMsg{users: us, err: err}
	}
}

// submitForm vuelca los inputs al Form y dispara el Save en background.
// Los efectos llegan por la cola de notas; el mensaje solo despierta a Update.
func (m *Model) submitForm(fv *formView) tea.Cmd {
	fv.apply(fv.values())
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		_ = fv.save(ctx)
		return saveDoneMsg{}
	}
}

func (m *Model) runAction(a state.Action, weightKg float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		out, err := dispatch(ctx, m.client, a, weightKg)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if out.logout {
			m.monitor.Logout()
			return loggedOutMsg{}
		}
		return actionDoneMsg{success: out.success, refetch: out.refetch, users: out.users}
	}
}

func (m *Model) runUpload(uv *uploadView, parts []string) tea.Cmd {
	doc := uv.doc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		files, err := readFileParts(parts)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if _, err := m.client.UploadDocumentFiles(ctx, doc.PetID, doc.ID, files); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{success: "files uploaded", refetch: true}
	}
}

// showToast registra el toast y programa su auto-dismiss. El tick lleva el id
// del toast mostrado: si otro lo reemplazó antes de expirar, el Dismiss viejo
// no hace nada.
func (m *Model) showToast(message string, severity state.Severity) tea.Cmd {
	toast := m.toaster.Show(message, severity)
	return tea.Tick(state.ToastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: toast.ID}
	})
}
