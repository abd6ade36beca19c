package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pet-health-console/internal/records"
	"pet-health-console/internal/state"
)

// rowKind identifica qué registro vive en una fila de la tabla activa.
type rowKind int

const (
	rowVaccine rowKind = iota
	rowMedication
	rowDeworming
	rowReview
	rowWeight
	rowDocument
	rowFile
	rowUser
)

// rowRef es la fila seleccionable: kind + el registro correspondiente.
// En rowFile viajan documento y archivo juntos (el delete necesita ambos).
type rowRef struct {
	kind       rowKind
	vaccine    records.Vaccine
	medication records.Medication
	deworming  records.Deworming
	review     records.MedicalReview
	weight     records.WeightRecord
	document   records.Document
	file       records.DocumentFile
	user       records.User
}

// rows arma la lista de filas de la sección activa. En documentos los
// archivos van como filas indentadas debajo de su documento.
func (m *Model) rows() []rowRef {
	if m.section == secUsers {
		out := make([]rowRef, 0, len(m.users))
		for _, u := range m.users {
			out = append(out, rowRef{kind: rowUser, user: u})
		}
		return out
	}
	if !m.loaded || m.res.State != state.PortfolioLoaded {
		return nil
	}
	p := m.res.Portfolio
	var out []rowRef
	switch m.section {
	case secVaccines:
		for _, v := range p.Vaccines {
			out = append(out, rowRef{kind: rowVaccine, vaccine: v})
		}
	case secMedications:
		for _, md := range p.Medications {
			out = append(out, rowRef{kind: rowMedication, medication: md})
		}
	case secDewormings:
		for _, d := range p.Dewormings {
			out = append(out, rowRef{kind: rowDeworming, deworming: d})
		}
	case secReviews:
		for _, r := range p.Reviews {
			out = append(out, rowRef{kind: rowReview, review: r})
		}
	case secWeights:
		for _, w := range p.WeightHistory {
			out = append(out, rowRef{kind: rowWeight, weight: w})
		}
	case secDocuments:
		for _, d := range p.Documents {
			out = append(out, rowRef{kind: rowDocument, document: d})
			for _, f := range d.Files {
				out = append(out, rowRef{kind: rowFile, document: d, file: f})
			}
		}
	}
	return out
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loginDoneMsg:
		m.loggingIn = false
		if msg.err != nil {
			return m, m.showToast(userFacing(msg.err), state.SeverityError)
		}
		m.user = msg.user
		m.screen = screenMain
		m.loginPass.SetValue("")
		m.loading = true
		return m, m.fetchPortfolio(m.requestedPetID)

	case portfolioMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.showToast(userFacing(msg.err), state.SeverityError)
		}
		m.res = msg.res
		m.loaded = true
		m.requestedPetID = 0 // el flag de arranque solo aplica al primer fetch
		m.clampCursor()
		return m, nil

	case usersMsg:
		if msg.err != nil {
			return m, m.showToast(userFacing(msg.err), state.SeverityError)
		}
		m.users = msg.users
		m.clampCursor()
		return m, nil

	case saveDoneMsg:
		var cmds []tea.Cmd
		if m.activeForm != nil && !m.activeForm.isOpen() {
			m.activeForm = nil
		}
		for _, n := range m.notes.drain() {
			if n.refetch {
				if m.section == secUsers {
					cmds = append(cmds, m.loadUsers())
				} else {
					m.loading = true
					cmds = append(cmds, m.fetchPortfolio(0))
				}
				continue
			}
			if n.message != "" {
				cmds = append(cmds, m.showToast(n.message, n.severity))
			}
		}
		return m, tea.Batch(cmds...)

	case actionDoneMsg:
		m.actionInFly = false
		m.confirmer.Close()
		m.promptView = nil
		if m.upload != nil {
			if msg.err == nil {
				m.upload = nil
			} else {
				m.upload.busy = false
			}
		}
		if msg.err != nil {
			return m, m.showToast(userFacing(msg.err), state.SeverityError)
		}
		cmds := []tea.Cmd{}
		if msg.success != "" {
			cmds = append(cmds, m.showToast(msg.success, state.SeveritySuccess))
		}
		if msg.refetch {
			m.loading = true
			cmds = append(cmds, m.fetchPortfolio(0))
		}
		if msg.users {
			cmds = append(cmds, m.loadUsers())
		}
		return m, tea.Batch(cmds...)

	case toastExpiredMsg:
		m.toaster.Dismiss(msg.id)
		return m, nil

	case sessionInvalidMsg:
		m.monitor.Logout()
		m.resetToLogin()
		// re-suscribe: waitInvalid consume un solo aviso del canal
		return m, tea.Batch(
			m.showToast("session expired, please sign in again", state.SeverityWarning),
			m.waitInvalid(),
		)

	case loggedOutMsg:
		// logout voluntario: la sesión ya fue cerrada en runAction y el lector
		// del canal del monitor sigue vivo, no hay que re-suscribir
		m.resetToLogin()
		return m, m.showToast("signed out", state.SeveritySuccess)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) resetToLogin() {
	m.screen = screenLogin
	m.user = records.User{}
	m.res = state.PortfolioResult{}
	m.loaded = false
	m.users = nil
	m.activeForm = nil
	m.upload = nil
	m.promptView = nil
	m.actionInFly = false
	m.confirmer.Close()
	m.section = secVaccines
	m.cursor = 0
	m.loginUser.SetValue("")
	m.loginPass.SetValue("")
	m.loginFocus = 0
	m.loginUser.Focus()
	m.loginPass.Blur()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch {
	case m.screen == screenLogin:
		return m.handleLoginKey(msg)
	case m.promptView != nil:
		return m.handlePromptKey(msg)
	case m.activeForm != nil:
		return m.handleFormKey(msg)
	case m.upload != nil:
		return m.handleUploadKey(msg)
	}
	return m.handleMainKey(msg)
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loggingIn {
		return m, nil
	}
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.loginPass.Blur()
			return m, m.loginUser.Focus()
		}
		m.loginUser.Blur()
		return m, m.loginPass.Focus()
	case "enter":
		user := strings.TrimSpace(m.loginUser.Value())
		pass := m.loginPass.Value()
		if user == "" || pass == "" {
			return m, m.showToast("username and password are required", state.SeverityError)
		}
		m.loggingIn = true
		return m, m.doLogin(user, pass)
	}
	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.loginUser, cmd = m.loginUser.Update(msg)
	} else {
		m.loginPass, cmd = m.loginPass.Update(msg)
	}
	return m, cmd
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.actionInFly {
		return m, nil
	}
	switch msg.String() {
	case "esc", "n":
		m.confirmer.Close()
		m.promptView = nil
		return m, nil
	case "tab", "left", "right":
		m.promptFocus = 1 - m.promptFocus
		return m, nil
	case "enter", "y":
		if msg.String() == "enter" && m.promptFocus == 1 {
			m.confirmer.Close()
			m.promptView = nil
			return m, nil
		}
		a, ok := m.confirmer.Pending()
		if !ok {
			m.promptView = nil
			return m, nil
		}
		var kg float64
		if m.promptView.askWeight {
			kg = parseKg(m.weightInput.Value())
		}
		m.actionInFly = true
		return m, m.runAction(a, kg)
	}
	if m.promptView.askWeight {
		var cmd tea.Cmd
		m.weightInput, cmd = m.weightInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fv := m.activeForm
	if fv.saving() {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		fv.cancel()
		m.activeForm = nil
		return m, nil
	case "tab", "down":
		fv.focusNext(1)
		return m, nil
	case "shift+tab", "up":
		fv.focusNext(-1)
		return m, nil
	case "enter":
		if fv.focus < len(fv.inputs)-1 {
			fv.focusNext(1)
			return m, nil
		}
		return m, m.submitForm(fv)
	case "ctrl+s":
		return m, m.submitForm(fv)
	}
	var cmd tea.Cmd
	fv.inputs[fv.focus], cmd = fv.inputs[fv.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	uv := m.upload
	if uv.busy {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.upload = nil
		return m, nil
	case "enter":
		paths := strings.Split(uv.input.Value(), ",")
		uv.busy = true
		return m, m.runUpload(uv, paths)
	}
	var cmd tea.Cmd
	uv.input, cmd = uv.input.Update(msg)
	return m, cmd
}

func (m *Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "left", "h":
		return m.moveSection(-1)
	case "right", "l", "tab":
		return m.moveSection(1)

	case "up", "k":
		m.cursor--
		m.clampCursor()
		return m, nil
	case "down", "j":
		m.cursor++
		m.clampCursor()
		return m, nil

	case "[":
		return m.cyclePet(-1)
	case "]":
		return m.cyclePet(1)

	case "r":
		m.loading = true
		return m, m.fetchPortfolio(0)

	case "n":
		return m.openCreateForm()
	case "e", "enter":
		return m.openEditForm()
	case "d":
		return m.askDelete()
	case "c":
		return m.askComplete()
	case "u":
		return m.openUpload()

	case "N":
		m.activeForm = m.forms.pets.open(0, records.Pet{})
		return m, textinput.Blink
	case "E":
		if m.loaded && m.res.State == state.PortfolioLoaded {
			pet := m.res.Portfolio.Pet
			m.activeForm = m.forms.pets.open(pet.ID, pet)
			return m, textinput.Blink
		}
		return m, nil
	case "D":
		if m.loaded && m.res.State == state.PortfolioLoaded {
			return m.openPrompt(state.DeletePet{Pet: m.res.Portfolio.Pet})
		}
		return m, nil

	case "L":
		return m.openPrompt(state.Logout{})
	}
	return m, nil
}

func (m *Model) moveSection(delta int) (tea.Model, tea.Cmd) {
	last := secUsers
	if m.user.Role != records.RoleAdmin {
		last = secDocuments
	}
	n := int(last) + 1
	m.section = section((int(m.section) + delta + n) % n)
	m.cursor = 0
	if m.section == secUsers {
		return m, m.loadUsers()
	}
	return m, nil
}

func (m *Model) cyclePet(delta int) (tea.Model, tea.Cmd) {
	if !m.loaded || len(m.res.Pets) < 2 || m.res.State != state.PortfolioLoaded {
		return m, nil
	}
	cur := m.res.Portfolio.Pet.ID
	idx := 0
	for i, p := range m.res.Pets {
		if p.ID == cur {
			idx = i
			break
		}
	}
	next := m.res.Pets[(idx+delta+len(m.res.Pets))%len(m.res.Pets)]
	m.loading = true
	return m, m.selectPet(next.ID)
}

func (m *Model) openCreateForm() (tea.Model, tea.Cmd) {
	if m.section == secUsers {
		if m.user.Role != records.RoleAdmin {
			return m, nil
		}
		m.activeForm = m.forms.users.open(0, newUserValue())
		return m, textinput.Blink
	}
	if !m.loaded || m.res.State != state.PortfolioLoaded {
		return m, m.showToast("add a pet first", state.SeverityWarning)
	}
	switch m.section {
	case secVaccines:
		m.activeForm = m.forms.vaccines.open(0, records.Vaccine{})
	case secMedications:
		m.activeForm = m.forms.medications.open(0, records.Medication{})
	case secDewormings:
		m.activeForm = m.forms.dewormings.open(0, records.Deworming{})
	case secReviews:
		m.activeForm = m.forms.reviews.open(0, records.MedicalReview{})
	case secWeights:
		m.activeForm = m.forms.weights.open(0, records.WeightRecord{})
	case secDocuments:
		m.activeForm = m.forms.documents.open(0, records.Document{})
	}
	return m, textinput.Blink
}

func (m *Model) openEditForm() (tea.Model, tea.Cmd) {
	row, ok := m.currentRow()
	if !ok {
		return m, nil
	}
	switch row.kind {
	case rowVaccine:
		m.activeForm = m.forms.vaccines.open(row.vaccine.ID, row.vaccine)
	case rowMedication:
		m.activeForm = m.forms.medications.open(row.medication.ID, row.medication)
	case rowDeworming:
		m.activeForm = m.forms.dewormings.open(row.deworming.ID, row.deworming)
	case rowReview:
		m.activeForm = m.forms.reviews.open(row.review.ID, row.review)
	case rowWeight:
		m.activeForm = m.forms.weights.open(row.weight.ID, row.weight)
	case rowDocument:
		m.activeForm = m.forms.documents.open(row.document.ID, row.document)
	case rowUser:
		if m.user.Role != records.RoleAdmin {
			return m, nil
		}
		m.activeForm = m.forms.users.open(row.user.ID, wrapUser(row.user))
	default:
		return m, nil
	}
	return m, textinput.Blink
}

func (m *Model) askDelete() (tea.Model, tea.Cmd) {
	row, ok := m.currentRow()
	if !ok {
		return m, nil
	}
	switch row.kind {
	case rowVaccine:
		return m.openPrompt(state.DeleteVaccine{Vaccine: row.vaccine})
	case rowMedication:
		return m.openPrompt(state.DeleteMedication{Medication: row.medication})
	case rowDeworming:
		return m.openPrompt(state.DeleteDeworming{Deworming: row.deworming})
	case rowReview:
		return m.openPrompt(state.DeleteReview{Review: row.review})
	case rowWeight:
		return m.openPrompt(state.DeleteWeight{Weight: row.weight})
	case rowDocument:
		return m.openPrompt(state.DeleteDocument{Document: row.document})
	case rowFile:
		return m.openPrompt(state.DeleteDocumentFile{Document: row.document, File: row.file})
	case rowUser:
		if m.user.Role != records.RoleAdmin {
			return m, nil
		}
		if row.user.ID == m.user.ID {
			return m, m.showToast("you cannot delete your own user", state.SeverityWarning)
		}
		return m.openPrompt(state.DeleteUser{User: row.user})
	}
	return m, nil
}

func (m *Model) askComplete() (tea.Model, tea.Cmd) {
	row, ok := m.currentRow()
	if !ok {
		return m, nil
	}
	switch row.kind {
	case rowVaccine:
		if row.vaccine.Status == records.StatusCompleted {
			return m, nil
		}
		return m.openPrompt(state.CompleteVaccine{Vaccine: row.vaccine})
	case rowMedication:
		if row.medication.Status == records.StatusCompleted {
			return m, nil
		}
		return m.openPrompt(state.CompleteMedication{Medication: row.medication})
	case rowDeworming:
		if row.deworming.Status == records.StatusCompleted {
			return m, nil
		}
		return m.openPrompt(state.CompleteDeworming{Deworming: row.deworming})
	}
	return m, nil
}

func (m *Model) openUpload() (tea.Model, tea.Cmd) {
	row, ok := m.currentRow()
	if !ok || (row.kind != rowDocument && row.kind != rowFile) {
		return m, nil
	}
	ti := textinput.New()
	ti.Placeholder = "/path/one.pdf, /path/two.jpg"
	ti.Focus()
	ti.CharLimit = 512
	m.upload = &uploadView{doc: row.document, input: ti}
	return m, textinput.Blink
}

func (m *Model) openPrompt(a state.Action) (tea.Model, tea.Cmd) {
	m.confirmer.Open(a)
	p := promptFor(a)
	m.promptView = &p
	m.promptFocus = 0
	if p.askWeight {
		m.weightInput = textinput.New()
		m.weightInput.Placeholder = "weight in kg (optional)"
		m.weightInput.Focus()
		m.weightInput.CharLimit = 10
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) currentRow() (rowRef, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return rowRef{}, false
	}
	return rows[m.cursor], true
}
