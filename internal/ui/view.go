package ui

import (
	"fmt"
	"strings"
	"time"

	"pet-health-console/internal/records"
	"pet-health-console/internal/state"
)

func (m *Model) View() string {
	if m.screen == screenLogin {
		return m.viewLogin()
	}
	return m.viewMain()
}

func (m *Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Pet Health Console"))
	b.WriteString("\n\n")
	b.WriteString("Username\n" + m.loginUser.View() + "\n\n")
	b.WriteString("Password\n" + m.loginPass.View() + "\n\n")
	if m.loggingIn {
		b.WriteString(mutedStyle.Render("signing in..."))
	} else {
		b.WriteString(helpStyle.Render("enter: sign in · tab: switch field · ctrl+c: quit"))
	}
	out := boxStyle.Render(b.String())
	return out + "\n" + m.viewToast()
}

func (m *Model) viewMain() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewSectionTabs())
	b.WriteString("\n\n")

	switch {
	case m.promptView != nil:
		b.WriteString(m.viewPrompt())
	case m.activeForm != nil:
		b.WriteString(m.viewForm())
	case m.upload != nil:
		b.WriteString(m.viewUpload())
	default:
		b.WriteString(m.viewTable())
	}

	b.WriteString("\n")
	b.WriteString(m.viewHelp())
	b.WriteString("\n")
	b.WriteString(m.viewToast())
	return b.String()
}

func (m *Model) viewHeader() string {
	left := titleStyle.Render("Pet Health Console")
	who := mutedStyle.Render(fmt.Sprintf("%s (%s)", m.user.Username, m.user.Role))

	if m.loading && !m.loaded {
		return left + "  " + who + "\n" + mutedStyle.Render("loading...")
	}
	if !m.loaded {
		return left + "  " + who
	}
	if m.res.State == state.PortfolioNoPets {
		return left + "  " + who + "\n" +
			mutedStyle.Render("No pets yet. Press N to add the first one.")
	}

	// pestañas de mascotas
	var tabs []string
	selected := int64(0)
	if m.res.State == state.PortfolioLoaded {
		selected = m.res.Portfolio.Pet.ID
	}
	for _, p := range m.res.Pets {
		if p.ID == selected {
			tabs = append(tabs, tabActiveStyle.Render(p.Name))
		} else {
			tabs = append(tabs, tabStyle.Render(p.Name))
		}
	}
	header := left + "  " + who + "\n" + strings.Join(tabs, "")

	if m.res.State == state.PortfolioNotFound {
		return header + "\n" + overdueStyle.Render("could not load this pet's records · r: retry")
	}

	p := m.res.Portfolio
	age := records.Age(p.Pet.BirthDate, time.Now())
	weight := records.CurrentWeight(p.Pet, p.WeightHistory)
	pending := records.PendingCount(p.Vaccines) +
		records.PendingCount(p.Medications) +
		records.PendingCount(p.Dewormings)
	summary := fmt.Sprintf("%s · %s · %s", p.Pet.Species, age, p.Pet.Breed)
	if weight > 0 {
		summary += fmt.Sprintf(" · %.1f kg", weight)
	}
	if pending > 0 {
		summary += " · " + pendingStyle.Render(fmt.Sprintf("%d pending", pending))
	}
	return header + "\n" + mutedStyle.Render(summary)
}

func (m *Model) viewSectionTabs() string {
	last := secUsers
	if m.user.Role != records.RoleAdmin {
		last = secDocuments
	}
	var tabs []string
	for s := secVaccines; s <= last; s++ {
		if s == m.section {
			tabs = append(tabs, tabActiveStyle.Render(sectionTitles[s]))
		} else {
			tabs = append(tabs, tabStyle.Render(sectionTitles[s]))
		}
	}
	return strings.Join(tabs, "")
}

func (m *Model) viewTable() string {
	rows := m.rows()
	if len(rows) == 0 {
		if m.section == secUsers {
			return mutedStyle.Render("no users")
		}
		return mutedStyle.Render("nothing here yet · n: add")
	}

	today := time.Now().Format("2006-01-02")
	var b strings.Builder
	for i, row := range rows {
		line := m.renderRow(row, today)
		if i == m.cursor {
			line = selectedRowStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderRow(row rowRef, today string) string {
	switch row.kind {
	case rowVaccine:
		v := row.vaccine
		st := records.VaccineStatus(v, today)
		line := fmt.Sprintf("%-24s %s", v.Name, v.ApplicationDate)
		if v.NextDueDate != "" {
			line += "  due " + v.NextDueDate
		}
		return line + "  " + statusStyle(string(st)).Render(string(st))
	case rowMedication:
		md := row.medication
		line := fmt.Sprintf("%-24s %s", md.Name, md.StartDate)
		if md.Dosage != "" {
			line += "  " + md.Dosage
		}
		if md.Frequency != "" {
			line += " " + md.Frequency
		}
		return line + "  " + statusStyle(string(md.Status)).Render(string(md.Status))
	case rowDeworming:
		d := row.deworming
		line := fmt.Sprintf("%-24s %s", d.Product, d.ApplicationDate)
		if d.NextDueDate != "" {
			line += "  due " + d.NextDueDate
		}
		return line + "  " + statusStyle(string(d.Status)).Render(string(d.Status))
	case rowReview:
		r := row.review
		line := fmt.Sprintf("%s  %-12s", r.VisitDate, r.VisitType)
		if r.Diagnosis != "" {
			line += "  " + r.Diagnosis
		}
		if r.Cost > 0 {
			line += mutedStyle.Render(fmt.Sprintf("  $%.2f", r.Cost))
		}
		return line
	case rowWeight:
		w := row.weight
		line := fmt.Sprintf("%s  %.1f kg", w.MeasurementDate, w.WeightKg)
		if w.RecordedBy != "" {
			line += mutedStyle.Render("  by " + w.RecordedBy)
		}
		if w.Notes != "" {
			line += mutedStyle.Render("  " + w.Notes)
		}
		return line
	case rowDocument:
		d := row.document
		line := fmt.Sprintf("%-24s %s", d.DocumentName, d.DocumentType)
		if d.ExpiryDate != "" {
			line += "  expires " + d.ExpiryDate
		}
		return line + mutedStyle.Render(fmt.Sprintf("  (%d files)", len(d.Files)))
	case rowFile:
		return mutedStyle.Render("    └ " + row.file.DisplayName + " (" + row.file.OriginalName + ")")
	case rowUser:
		u := row.user
		line := fmt.Sprintf("%-16s %-20s %s", u.Username, u.Name, u.Role)
		if u.Email != "" {
			line += mutedStyle.Render("  " + u.Email)
		}
		return line
	}
	return ""
}

func (m *Model) viewForm() string {
	fv := m.activeForm
	var b strings.Builder
	b.WriteString(titleStyle.Render(fv.title))
	b.WriteString("\n\n")
	for i := range fv.inputs {
		label := fv.labels[i]
		if i == fv.focus {
			label = selectedRowStyle.Render(label)
		}
		b.WriteString(label + "\n" + fv.inputs[i].View() + "\n")
	}
	b.WriteString("\n")
	if fv.saving() {
		b.WriteString(mutedStyle.Render("saving..."))
	} else {
		b.WriteString(helpStyle.Render("enter/ctrl+s: save · tab: next field · esc: cancel"))
	}
	return boxStyle.Render(b.String())
}

func (m *Model) viewPrompt() string {
	p := m.promptView
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.title))
	b.WriteString("\n\n")
	b.WriteString(p.message)
	b.WriteString("\n")
	if p.askWeight {
		b.WriteString("\nWeight today (kg, optional)\n" + m.weightInput.View() + "\n")
	}
	b.WriteString("\n")

	confirm := "[ " + p.confirmLabel + " ]"
	cancel := "[ Cancel ]"
	if m.promptFocus == 0 {
		confirm = selectedRowStyle.Render(confirm)
		cancel = mutedStyle.Render(cancel)
	} else {
		confirm = mutedStyle.Render(confirm)
		cancel = selectedRowStyle.Render(cancel)
	}
	b.WriteString(confirm + "  " + cancel)
	b.WriteString("\n\n")
	if m.actionInFly {
		b.WriteString(mutedStyle.Render("working..."))
	} else {
		b.WriteString(helpStyle.Render("y/enter: confirm · n/esc: cancel"))
	}

	if p.destructive {
		return destructiveBoxStyle.Render(b.String())
	}
	return boxStyle.Render(b.String())
}

func (m *Model) viewUpload() string {
	uv := m.upload
	var b strings.Builder
	b.WriteString(titleStyle.Render("Attach files to " + uv.doc.DocumentName))
	b.WriteString("\n\n")
	b.WriteString("Local paths, comma separated\n" + uv.input.View() + "\n\n")
	if uv.busy {
		b.WriteString(mutedStyle.Render("uploading..."))
	} else {
		b.WriteString(helpStyle.Render("enter: upload · esc: cancel"))
	}
	return boxStyle.Render(b.String())
}

func (m *Model) viewHelp() string {
	parts := []string{
		"←/→ section", "↑/↓ move", "[/] pet",
		"n new", "e edit", "d delete", "c complete",
	}
	if m.section == secDocuments {
		parts = append(parts, "u attach")
	}
	parts = append(parts, "N/E/D pet", "r refresh", "L logout", "q quit")
	return helpStyle.Render(strings.Join(parts, " · "))
}

func (m *Model) viewToast() string {
	toast, ok := m.toaster.Current()
	if !ok {
		return ""
	}
	return toastStyle(string(toast.Severity)).Render("» " + toast.Message)
}
