package ui

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"pet-health-console/internal/api"
	"pet-health-console/internal/records"
	"pet-health-console/internal/state"
)

// fieldDef describe un campo del formulario de una entidad: cómo leerlo del
// valor y cómo volcarlo de vuelta. La validación es solo de presencia y vive
// en los hooks del Form (igual que en el resto del cliente).
type fieldDef[V any] struct {
	label       string
	placeholder string
	get         func(V) string
	set         func(*V, string)
}

// formView es el formulario activo ya desacoplado del tipo concreto: la TUI
// navega inputs y delega apply/save/cancel en closures tipadas.
type formView struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int

	apply  func(values []string)
	save   func(ctx context.Context) error
	cancel func()
	saving func() bool
	isOpen func() bool
}

func (fv *formView) values() []string {
	out := make([]string, len(fv.inputs))
	for i := range fv.inputs {
		out[i] = strings.TrimSpace(fv.inputs[i].Value())
	}
	return out
}

func (fv *formView) focusNext(delta int) {
	fv.inputs[fv.focus].Blur()
	fv.focus = (fv.focus + delta + len(fv.inputs)) % len(fv.inputs)
	fv.inputs[fv.focus].Focus()
}

// binding ata un state.Form a sus campos de UI.
type binding[V any] struct {
	title  string
	form   *state.Form[V]
	fields []fieldDef[V]
}

// open arma el formView para crear (id=0) o editar.
func (b *binding[V]) open(id int64, v V) *formView {
	if id == 0 {
		b.form.StartCreate()
	} else {
		b.form.StartEdit(id, v)
	}

	cur := b.form.Value()
	fv := &formView{
		title:  b.title,
		labels: make([]string, len(b.fields)),
		inputs: make([]textinput.Model, len(b.fields)),
	}
	for i, f := range b.fields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.SetValue(f.get(cur))
		ti.CharLimit = 120
		fv.labels[i] = f.label
		fv.inputs[i] = ti
	}
	fv.inputs[0].Focus()

	fv.apply = func(values []string) {
		v := b.form.Value()
		for i, f := range b.fields {
			f.set(&v, values[i])
		}
		b.form.SetValue(v)
	}
	fv.save = b.form.Save
	fv.cancel = b.form.Cancel
	fv.saving = b.form.Saving
	fv.isOpen = b.form.Open
	return fv
}

// forms agrupa las seis instancias del patrón form-hook más pets y users.
type forms struct {
	pets        *binding[records.Pet]
	vaccines    *binding[records.Vaccine]
	medications *binding[records.Medication]
	dewormings  *binding[records.Deworming]
	reviews     *binding[records.MedicalReview]
	weights     *binding[records.WeightRecord]
	documents   *binding[records.Document]
	users       *binding[api.NewUser]
}

// newForms instancia todos los formularios contra el cliente api. petID se
// resuelve al momento del save (la mascota seleccionada puede cambiar).
func newForms(client *api.Client, petID func() int64, cb state.FormCallbacks) forms {
	today := func() string { return time.Now().Format("2006-01-02") }

	pets := &binding[records.Pet]{
		title: "Pet",
		form: state.NewForm(state.FormHooks[records.Pet]{
			Defaults: func() records.Pet {
				return records.Pet{Species: records.SpeciesDog, Gender: records.GenderUnknown, Size: records.SizeMedium}
			},
			Validate: func(p records.Pet) error {
				return required(map[string]string{
					"name": p.Name, "species": string(p.Species),
				})
			},
			Create: func(ctx context.Context, p records.Pet) error {
				_, err := client.CreatePet(ctx, p)
				return err
			},
			Update: func(ctx context.Context, id int64, p records.Pet) error {
				p.ID = id
				return client.UpdatePet(ctx, p)
			},
		}, cb),
		fields: []fieldDef[records.Pet]{
			{label: "Name", get: func(p records.Pet) string { return p.Name },
				set: func(p *records.Pet, s string) { p.Name = s }},
			{label: "Species", placeholder: "dog/cat/bird/other",
				get: func(p records.Pet) string { return string(p.Species) },
				set: func(p *records.Pet, s string) { p.Species = records.Species(s) }},
			{label: "Breed", get: func(p records.Pet) string { return p.Breed },
				set: func(p *records.Pet, s string) { p.Breed = s }},
			{label: "Birth date", placeholder: "YYYY-MM-DD",
				get: func(p records.Pet) string { return p.BirthDate },
				set: func(p *records.Pet, s string) { p.BirthDate = s }},
			{label: "Color", get: func(p records.Pet) string { return p.Color },
				set: func(p *records.Pet, s string) { p.Color = s }},
			{label: "Microchip", get: func(p records.Pet) string { return p.Microchip },
				set: func(p *records.Pet, s string) { p.Microchip = s }},
			{label: "Weight (kg)", placeholder: "0.0",
				get: func(p records.Pet) string { return formatKg(p.WeightKg) },
				set: func(p *records.Pet, s string) { p.WeightKg = parseKg(s) }},
			{label: "Gender", placeholder: "male/female/unknown",
				get: func(p records.Pet) string { return string(p.Gender) },
				set: func(p *records.Pet, s string) { p.Gender = records.Gender(s) }},
			{label: "Size", placeholder: "small/medium/large",
				get: func(p records.Pet) string { return string(p.Size) },
				set: func(p *records.Pet, s string) { p.Size = records.Size(s) }},
			{label: "Neutered", placeholder: "yes/no",
				get: func(p records.Pet) string { return yesNo(p.Neutered) },
				set: func(p *records.Pet, s string) { p.Neutered = parseYes(s) }},
		},
	}

	vaccines := &binding[records.Vaccine]{
		title: "Vaccine",
		form: state.NewForm(state.FormHooks[records.Vaccine]{
			Defaults: func() records.Vaccine {
				return records.Vaccine{ApplicationDate: today(), Status: records.StatusPending}
			},
			Validate: func(v records.Vaccine) error {
				return required(map[string]string{
					"name": v.Name, "application date": v.ApplicationDate,
				})
			},
			Create: func(ctx context.Context, v records.Vaccine) error {
				v.PetID = petID()
				_, err := client.CreateVaccine(ctx, v)
				return err
			},
			Update: func(ctx context.Context, id int64, v records.Vaccine) error {
				v.ID, v.PetID = id, petID()
				return client.UpdateVaccine(ctx, v)
			},
		}, cb),
		fields: []fieldDef[records.Vaccine]{
			{label: "Name", get: func(v records.Vaccine) string { return v.Name },
				set: func(v *records.Vaccine, s string) { v.Name = s }},
			{label: "Application date", placeholder: "YYYY-MM-DD",
				get: func(v records.Vaccine) string { return v.ApplicationDate },
				set: func(v *records.Vaccine, s string) { v.ApplicationDate = s }},
			{label: "Next due date", placeholder: "YYYY-MM-DD",
				get: func(v records.Vaccine) string { return v.NextDueDate },
				set: func(v *records.Vaccine, s string) { v.NextDueDate = s }},
			{label: "Notes", get: func(v records.Vaccine) string { return v.Notes },
				set: func(v *records.Vaccine, s string) { v.Notes = s }},
		},
	}

	medications := &binding[records.Medication]{
		title: "Medication",
		form: state.NewForm(state.FormHooks[records.Medication]{
			Defaults: func() records.Medication {
				return records.Medication{StartDate: today(), Status: records.StatusPending}
			},
			Validate: func(m records.Medication) error {
				return required(map[string]string{
					"name": m.Name, "start date": m.StartDate,
				})
			},
			Create: func(ctx context.Context, m records.Medication) error {
				m.PetID = petID()
				_, err := client.CreateMedication(ctx, m)
				return err
			},
			Update: func(ctx context.Context, id int64, m records.Medication) error {
				m.ID, m.PetID = id, petID()
				return client.UpdateMedication(ctx, m)
			},
		}, cb),
		fields: []fieldDef[records.Medication]{
			{label: "Name", get: func(m records.Medication) string { return m.Name },
				set: func(m *records.Medication, s string) { m.Name = s }},
			{label: "Dosage", placeholder: "2 ml",
				get: func(m records.Medication) string { return m.Dosage },
				set: func(m *records.Medication, s string) { m.Dosage = s }},
			{label: "Frequency", placeholder: "every 12h",
				get: func(m records.Medication) string { return m.Frequency },
				set: func(m *records.Medication, s string) { m.Frequency = s }},
			{label: "Start date", placeholder: "YYYY-MM-DD",
				get: func(m records.Medication) string { return m.StartDate },
				set: func(m *records.Medication, s string) { m.StartDate = s }},
			{label: "End date", placeholder: "YYYY-MM-DD",
				get: func(m records.Medication) string { return m.EndDate },
				set: func(m *records.Medication, s string) { m.EndDate = s }},
			{label: "Notes", get: func(m records.Medication) string { return m.Notes },
				set: func(m *records.Medication, s string) { m.Notes = s }},
		},
	}

	dewormings := &binding[records.Deworming]{
		title: "Deworming",
		form: state.NewForm(state.FormHooks[records.Deworming]{
			Defaults: func() records.Deworming {
				return records.Deworming{ApplicationDate: today(), Status: records.StatusPending}
			},
			Validate: func(d records.Deworming) error {
				return required(map[string]string{
					"product": d.Product, "application date": d.ApplicationDate,
				})
			},
			Create: func(ctx context.Context, d records.Deworming) error {
				d.PetID = petID()
				_, err := client.CreateDeworming(ctx, d)
				return err
			},
			Update: func(ctx context.Context, id int64, d records.Deworming) error {
				d.ID, d.PetID = id, petID()
				return client.UpdateDeworming(ctx, d)
			},
		}, cb),
		fields: []fieldDef[records.Deworming]{
			{label: "Product", get: func(d records.Deworming) string { return d.Product },
				set: func(d *records.Deworming, s string) { d.Product = s }},
			{label: "Application date", placeholder: "YYYY-MM-DD",
				get: func(d records.Deworming) string { return d.ApplicationDate },
				set: func(d *records.Deworming, s string) { d.ApplicationDate = s }},
			{label: "Next due date", placeholder: "YYYY-MM-DD",
				get: func(d records.Deworming) string { return d.NextDueDate },
				set: func(d *records.Deworming, s string) { d.NextDueDate = s }},
			{label: "Notes", get: func(d records.Deworming) string { return d.Notes },
				set: func(d *records.Deworming, s string) { d.Notes = s }},
		},
	}

	reviews := &binding[records.MedicalReview]{
		title: "Medical visit",
		form: state.NewForm(state.FormHooks[records.MedicalReview]{
			Defaults: func() records.MedicalReview {
				return records.MedicalReview{VisitDate: today(), VisitType: records.VisitRoutine}
			},
			Validate: func(r records.MedicalReview) error {
				return required(map[string]string{
					"visit date": r.VisitDate, "visit type": string(r.VisitType),
				})
			},
			Create: func(ctx context.Context, r records.MedicalReview) error {
				r.PetID = petID()
				_, err := client.CreateReview(ctx, r)
				return err
			},
			Update: func(ctx context.Context, id int64, r records.MedicalReview) error {
				r.ID, r.PetID = id, petID()
				return client.UpdateReview(ctx, r)
			},
		}, cb),
		fields: []fieldDef[records.MedicalReview]{
			{label: "Visit date", placeholder: "YYYY-MM-DD",
				get: func(r records.MedicalReview) string { return r.VisitDate },
				set: func(r *records.MedicalReview, s string) { r.VisitDate = s }},
			{label: "Visit type", placeholder: "routine/emergency/vaccination/surgery/follow_up/other",
				get: func(r records.MedicalReview) string { return string(r.VisitType) },
				set: func(r *records.MedicalReview, s string) { r.VisitType = records.VisitType(s) }},
			{label: "Diagnosis", get: func(r records.MedicalReview) string { return r.Diagnosis },
				set: func(r *records.MedicalReview, s string) { r.Diagnosis = s }},
			{label: "Treatment", get: func(r records.MedicalReview) string { return r.Treatment },
				set: func(r *records.MedicalReview, s string) { r.Treatment = s }},
			{label: "Cost", placeholder: "0.0",
				get: func(r records.MedicalReview) string { return formatKg(r.Cost) },
				set: func(r *records.MedicalReview, s string) { r.Cost = parseKg(s) }},
			{label: "Notes", get: func(r records.MedicalReview) string { return r.Notes },
				set: func(r *records.MedicalReview, s string) { r.Notes = s }},
		},
	}

	weights := &binding[records.WeightRecord]{
		title: "Weight record",
		form: state.NewForm(state.FormHooks[records.WeightRecord]{
			Defaults: func() records.WeightRecord {
				return records.WeightRecord{MeasurementDate: today()}
			},
			Validate: func(w records.WeightRecord) error {
				if w.WeightKg <= 0 {
					return errors.New("weight is required")
				}
				return required(map[string]string{"measurement date": w.MeasurementDate})
			},
			Create: func(ctx context.Context, w records.WeightRecord) error {
				w.PetID = petID()
				_, err := client.CreateWeight(ctx, w)
				return err
			},
			Update: func(ctx context.Context, id int64, w records.WeightRecord) error {
				w.ID, w.PetID = id, petID()
				return client.UpdateWeight(ctx, w)
			},
		}, cb),
		fields: []fieldDef[records.WeightRecord]{
			{label: "Weight (kg)", placeholder: "0.0",
				get: func(w records.WeightRecord) string { return formatKg(w.WeightKg) },
				set: func(w *records.WeightRecord, s string) { w.WeightKg = parseKg(s) }},
			{label: "Measurement date", placeholder: "YYYY-MM-DD",
				get: func(w records.WeightRecord) string { return w.MeasurementDate },
				set: func(w *records.WeightRecord, s string) { w.MeasurementDate = s }},
			{label: "Notes", get: func(w records.WeightRecord) string { return w.Notes },
				set: func(w *records.WeightRecord, s string) { w.Notes = s }},
		},
	}

	documents := &binding[records.Document]{
		title: "Document",
		form: state.NewForm(state.FormHooks[records.Document]{
			Defaults: func() records.Document {
				return records.Document{DocumentType: records.DocumentOther}
			},
			Validate: func(d records.Document) error {
				return required(map[string]string{
					"document name": d.DocumentName, "document type": string(d.DocumentType),
				})
			},
			Create: func(ctx context.Context, d records.Document) error {
				d.PetID = petID()
				_, err := client.CreateDocument(ctx, d)
				return err
			},
			Update: func(ctx context.Context, id int64, d records.Document) error {
				d.ID, d.PetID = id, petID()
				return client.UpdateDocument(ctx, d)
			},
		}, cb),
		fields: []fieldDef[records.Document]{
			{label: "Name", get: func(d records.Document) string { return d.DocumentName },
				set: func(d *records.Document, s string) { d.DocumentName = s }},
			{label: "Type", placeholder: "receipt/certificate/report/other",
				get: func(d records.Document) string { return string(d.DocumentType) },
				set: func(d *records.Document, s string) { d.DocumentType = records.DocumentType(s) }},
			{label: "Expiry date", placeholder: "YYYY-MM-DD",
				get: func(d records.Document) string { return d.ExpiryDate },
				set: func(d *records.Document, s string) { d.ExpiryDate = s }},
		},
	}

	users := &binding[api.NewUser]{
		title: "User",
		form: state.NewForm(state.FormHooks[api.NewUser]{
			Defaults: func() api.NewUser {
				return api.NewUser{User: records.User{Role: records.RoleUser}}
			},
			Validate: func(u api.NewUser) error {
				if err := required(map[string]string{"username": u.Username, "name": u.Name}); err != nil {
					return err
				}
				// el password solo es obligatorio en el alta
				if u.ID == 0 && u.Password == "" {
					return errors.New("password is required")
				}
				return nil
			},
			Create: func(ctx context.Context, u api.NewUser) error {
				_, err := client.CreateUser(ctx, u)
				return err
			},
			Update: func(ctx context.Context, id int64, u api.NewUser) error {
				u.ID = id
				return client.UpdateUser(ctx, u.User)
			},
		}, cb),
		fields: []fieldDef[api.NewUser]{
			{label: "Name", get: func(u api.NewUser) string { return u.Name },
				set: func(u *api.NewUser, s string) { u.Name = s }},
			{label: "Username", get: func(u api.NewUser) string { return u.Username },
				set: func(u *api.NewUser, s string) { u.Username = s }},
			{label: "Email", get: func(u api.NewUser) string { return u.Email },
				set: func(u *api.NewUser, s string) { u.Email = s }},
			{label: "Role", placeholder: "user/admin",
				get: func(u api.NewUser) string { return string(u.Role) },
				set: func(u *api.NewUser, s string) { u.Role = records.Role(s) }},
			{label: "Password", placeholder: "(only on create)",
				get: func(u api.NewUser) string { return u.Password },
				set: func(u *api.NewUser, s string) { u.Password = s }},
		},
	}

	return forms{
		pets:        pets,
		vaccines:    vaccines,
		medications: medications,
		dewormings:  dewormings,
		reviews:     reviews,
		weights:     weights,
		documents:   documents,
		users:       users,
	}
}

// newUserValue es el valor inicial del alta de usuario (los defaults reales
// los pone el hook Defaults del form).
func newUserValue() api.NewUser { return api.NewUser{} }

// wrapUser adapta un usuario existente al valor del formulario (sin password:
// el update no lo toca).
func wrapUser(u records.User) api.NewUser { return api.NewUser{User: u} }

// userFacing traduce cualquier error de cliente a texto presentable.
func userFacing(err error) string { return api.UserMessage(err) }

// required chequea presencia de campos obligatorios; reporta el primero que
// falte (orden estable para mensajes predecibles).
func required(fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if strings.TrimSpace(fields[name]) == "" {
			return errors.New(name + " is required")
		}
	}
	return nil
}

func parseKg(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func formatKg(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parseYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "si", "sí":
		return true
	}
	return false
}
