package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-health-console/internal/devserver"
	"pet-health-console/internal/records"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// mapErr traduce sql.ErrNoRows al sentinel del devserver.
func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return devserver.ErrNotFound
	}
	return err
}

func rowsAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return devserver.ErrNotFound
	}
	return nil
}

// --- Pets ---

func (s *Store) CreatePet(ctx context.Context, p records.Pet) (records.Pet, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO pets (name, breed, birth_date, color, microchip, weight_kg,
			species, gender, size, neutered, photo_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at
	`, p.Name, p.Breed, p.BirthDate, p.Color, p.Microchip, p.WeightKg,
		p.Species, p.Gender, p.Size, p.Neutered, p.PhotoURL,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return records.Pet{}, err
	}
	return p, nil
}

func (s *Store) UpdatePet(ctx context.Context, p records.Pet) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE pets SET
			name = $2, breed = $3, birth_date = $4, color = $5, microchip = $6,
			weight_kg = $7, species = $8, gender = $9, size = $10,
			neutered = $11, photo_url = $12
		WHERE id = $1
	`, p.ID, p.Name, p.Breed, p.BirthDate, p.Color, p.Microchip,
		p.WeightKg, p.Species, p.Gender, p.Size, p.Neutered, p.PhotoURL)
	return rowsAffected(res, err)
}

func (s *Store) DeletePet(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	return rowsAffected(res, err)
}

const petColumns = `id, name, breed, birth_date, color, microchip, weight_kg,
	species, gender, size, neutered, photo_url, created_at`

func scanPet(row interface{ Scan(...any) error }) (records.Pet, error) {
	var p records.Pet
	err := row.Scan(&p.ID, &p.Name, &p.Breed, &p.BirthDate, &p.Color,
		&p.Microchip, &p.WeightKg, &p.Species, &p.Gender, &p.Size,
		&p.Neutered, &p.PhotoURL, &p.CreatedAt)
	return p, err
}

func (s *Store) GetPet(ctx context.Context, id int64) (records.Pet, error) {
	p, err := scanPet(s.db.QueryRowContext(ctx,
		`SELECT `+petColumns+` FROM pets WHERE id = $1`, id))
	if err != nil {
		return records.Pet{}, mapErr(err)
	}
	return p, nil
}

func (s *Store) ListPets(ctx context.Context) ([]records.Pet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+petColumns+` FROM pets ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []records.Pet{}
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPortfolio(ctx context.Context, petID int64) (records.Portfolio, error) {
	pet, err := s.GetPet(ctx, petID)
	if err != nil {
		return records.Portfolio{}, err
	}

	p := records.Portfolio{Pet: pet}
	if p.Vaccines, err = s.listVaccines(ctx, petID); err != nil {
		return records.Portfolio{}, err
	}
	if p.Medications, err = s.listMedications(ctx, petID); err != nil {
		return records.Portfolio{}, err
	}
	if p.Dewormings, err = s.listDewormings(ctx, petID); err != nil {
		return records.Portfolio{}, err
	}
	if p.Reviews, err = s.listReviews(ctx, petID); err != nil {
		return records.Portfolio{}, err
	}
	if p.WeightHistory, err = s.listWeights(ctx, petID); err != nil {
		return records.Portfolio{}, err
	}
	if p.Documents, err = s.listDocuments(ctx, petID); err != nil {
		return records.Portfolio{}, err
	}
	return p, nil
}

// --- Vacunas ---

func (s *Store) CreateVaccine(ctx context.Context, v records.Vaccine) (records.Vaccine, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO vaccines (pet_id, name, application_date, next_due_date, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id
	`, v.PetID, v.Name, v.ApplicationDate, v.NextDueDate, v.Status, v.Notes).Scan(&v.ID)
	if err != nil {
		return records.Vaccine{}, err
	}
	return v, nil
}

func (s *Store) UpdateVaccine(ctx context.Context, v records.Vaccine) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE vaccines SET name = $3, application_date = $4, next_due_date = $5,
			status = $6, notes = $7
		WHERE id = $1 AND pet_id = $2
	`, v.ID, v.PetID, v.Name, v.ApplicationDate, v.NextDueDate, v.Status, v.Notes)
	return rowsAffected(res, err)
}

func (s *Store) DeleteVaccine(ctx context.Context, petID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM vaccines WHERE id = $1 AND pet_id = $2`, id, petID)
	return rowsAffected(res, err)
}

func (s *Store) GetVaccine(ctx context.Context, petID, id int64) (records.Vaccine, error) {
	var v records.Vaccine
	err := s.db.QueryRowContext(ctx, `
		SELECT id, pet_id, name, application_date, next_due_date, status, notes
		FROM vaccines WHERE id = $1 AND pet_id = $2
	`, id, petID).Scan(&v.ID, &v.PetID, &v.Name, &v.ApplicationDate,
		&v.NextDueDate, &v.Status, &v.Notes)
	if err != nil {
		return records.Vaccine{}, mapErr(err)
	}
	return v, nil
}

func (s *Store) listVaccines(ctx context.Context, petID int64) ([]records.Vaccine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pet_id, name, application_date, next_due_date, status, notes
		FROM vaccines WHERE pet_id = $1 ORDER BY id ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []records.Vaccine{}
	for rows.Next() {
		var v records.Vaccine
		if err := rows.Scan(&v.ID, &v.PetID, &v.Name, &v.ApplicationDate,
			&v.NextDueDate, &v.Status, &v.Notes); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// --- Medicaciones ---

func (s *Store) CreateMedication(ctx context.Context, m records.Medication) (records.Medication, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO medications (pet_id, name, dosage, frequency, start_date, end_date, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id
	`, m.PetID, m.Name, m.Dosage, m.Frequency, m.StartDate, m.EndDate, m.Status, m.Notes).Scan(&m.ID)
	if err != nil {
		return records.Medication{}, err
	}
	return m, nil
}

func (s *Store) UpdateMedication(ctx context.Context, m records.Medication) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE medications SET name = $3, dosage = $4, frequency = $5,
			start_date = $6, end_date = $7, status = $8, notes = $9
		WHERE id = $1 AND pet_id = $2
	`, m.ID, m.PetID, m.Name, m.Dosage, m.Frequency, m.StartDate, m.EndDate, m.Status, m.Notes)
	return rowsAffected(res, err)
}

func (s *Store) DeleteMedication(ctx context.Context, petID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM medications WHERE id = $1 AND pet_id = $2`, id, petID)
	return rowsAffected(res, err)
}

func (s *Store) GetMedication(ctx context.Context, petID, id int64) (records.Medication, error) {
	var m records.Medication
	err := s.db.QueryRowContext(ctx, `
		SELECT id, pet_id, name, dosage, frequency, start_date, end_date, status, notes
		FROM medications WHERE id = $1 AND pet_id = $2
	`, id, petID).Scan(&m.ID, &m.PetID, &m.Name, &m.Dosage, &m.Frequency,
		&m.StartDate, &m.EndDate, &m.Status, &m.Notes)
	if err != nil {
		return records.Medication{}, mapErr(err)
	}
	return m, nil
}

func (s *Store) listMedications(ctx context.Context, petID int64) ([]records.Medication, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pet_id, name, dosage, frequency, start_date, end_date, status, notes
		FROM medications WHERE pet_id = $1 ORDER BY id ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []records.Medication{}
	for rows.Next() {
		var m records.Medication
		if err := rows.Scan(&m.ID, &m.PetID, &m.Name, &m.Dosage, &m.Frequency,
			&m.StartDate, &m.EndDate, &m.Status, &m.Notes); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// --- Desparasitaciones ---

func (s *Store) CreateDeworming(ctx context.Context, d records.Deworming) (records.Deworming, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO dewormings (pet_id, product, application_date, next_due_date, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id
	`, d.PetID, d.Product, d.ApplicationDate, d.NextDueDate, d.Status, d.Notes).Scan(&d.ID)
	if err != nil {
		return records.Deworming{}, err
	}
	return d, nil
}

func (s *Store) UpdateDeworming(ctx context.Context, d records.Deworming) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE dewormings SET product = $3, application_date = $4, next_due_date = $5,
			status = $6, notes = $7
		WHERE id = $1 AND pet_id = $2
	`, d.ID, d.PetID, d.Product, d.ApplicationDate, d.NextDueDate, d.Status, d.Notes)
	return rowsAffected(res, err)
}

func (s *Store) DeleteDeworming(ctx context.Context, petID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM dewormings WHERE id = $1 AND pet_id = $2`, id, petID)
	return rowsAffected(res, err)
}

func (s *Store) GetDeworming(ctx context.Context, petID, id int64) (records.Deworming, error) {
	var d records.Deworming
	err := s.db.QueryRowContext(ctx, `
		SELECT id, pet_id, product, application_date, next_due_date, status, notes
		FROM dewormings WHERE id = $1 AND pet_id = $2
	`, id, petID).Scan(&d.ID, &d.PetID, &d.Product, &d.ApplicationDate,
		&d.NextDueDate, &d.Status, &d.Notes)
	if err != nil {
		return records.Deworming{}, mapErr(err)
	}
	return d, nil
}

func (s *Store) listDewormings(ctx context.Context, petID int64) ([]records.Deworming, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pet_id, product, application_date, next_due_date, status, notes
		FROM dewormings WHERE pet_id = $1 ORDER BY id ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []records.Deworming{}
	for rows.Next() {
		var d records.Deworming
		if err := rows.Scan(&d.ID, &d.PetID, &d.Product, &d.ApplicationDate,
			&d.NextDueDate, &d.Status, &d.Notes); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// --- Visitas médicas ---

func (s *Store) CreateReview(ctx context.Context, r records.MedicalReview) (records.MedicalReview, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO medical_reviews (pet_id, visit_date, visit_type, diagnosis, treatment, notes, cost)
		VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id
	`, r.PetID, r.VisitDate, r.VisitType, r.Diagnosis, r.Treatment, r.Notes, r.Cost).Scan(&r.ID)
	if err != nil {
		return records.MedicalReview{}, err
	}
	return r, nil
}

func (s *Store) UpdateReview(ctx context.Context, r records.MedicalReview) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE medical_reviews SET visit_date = $3, visit_type = $4, diagnosis = $5,
			treatment = $6, notes = $7, cost = $8
		WHERE id = $1 AND pet_id = $2
	`, r.ID, r.PetID, r.VisitDate, r.VisitType, r.Diagnosis, r.Treatment, r.Notes, r.Cost)
	return rowsAffected(res, err)
}

func (s *Store) DeleteReview(ctx context.Context, petID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM medical_reviews WHERE id = $1 AND pet_id = $2`, id, petID)
	return rowsAffected(res, err)
}

func (s *Store) listReviews(ctx context.Context, petID int64) ([]records.MedicalReview, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pet_id, visit_date, visit_type, diagnosis, treatment, notes, cost
		FROM medical_reviews WHERE pet_id = $1 ORDER BY id ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []records.MedicalReview{}
	for rows.Next() {
		var r records.MedicalReview
		if err := rows.Scan(&r.ID, &r.PetID, &r.VisitDate, &r.VisitType,
			&r.Diagnosis, &r.Treatment, &r.Notes, &r.Cost); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- Historial de peso ---

func (s *Store) CreateWeight(ctx context.Context, w records.WeightRecord) (records.WeightRecord, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO weight_records (pet_id, weight_kg, measurement_date, notes, recorded_by)
		VALUES ($1,$2,$3,$4,$5) RETURNING id
	`, w.PetID, w.WeightKg, w.MeasurementDate, w.Notes, w.RecordedBy).Scan(&w.ID)
	if err != nil {
		return records.WeightRecord{}, err
	}
	return w, nil
}

func (s *Store) UpdateWeight(ctx context.Context, w records.WeightRecord) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE weight_records SET weight_kg = $3, measurement_date = $4,
			notes = $5, recorded_by = $6
		WHERE id = $1 AND pet_id = $2
	`, w.ID, w.PetID, w.WeightKg, w.MeasurementDate, w.Notes, w.RecordedBy)
	return rowsAffected(res, err)
}

func (s *Store) DeleteWeight(ctx context.Context, petID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM weight_records WHERE id = $1 AND pet_id = $2`, id, petID)
	return rowsAffected(res, err)
}

func (s *Store) listWeights(ctx context.Context, petID int64) ([]records.WeightRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pet_id, weight_kg, measurement_date, notes, recorded_by
		FROM weight_records WHERE pet_id = $1 ORDER BY id ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []records.WeightRecord{}
	for rows.Next() {
		var w records.WeightRecord
		if err := rows.Scan(&w.ID, &w.PetID, &w.WeightKg, &w.MeasurementDate,
			&w.Notes, &w.RecordedBy); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// --- Documentos ---

func (s *Store) CreateDocument(ctx context.Context, d records.Document) (records.Document, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO documents (pet_id, document_name, document_type, expiry_date)
		VALUES ($1,$2,$3,$4) RETURNING id
	`, d.PetID, d.DocumentName, d.DocumentType, d.ExpiryDate).Scan(&d.ID)
	if err != nil {
		return records.Document{}, err
	}
	d.Files = []records.DocumentFile{}
	return d, nil
}

func (s *Store) UpdateDocument(ctx context.Context, d records.Document) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET document_name = $3, document_type = $4, expiry_date = $5
		WHERE id = $1 AND pet_id = $2
	`, d.ID, d.PetID, d.DocumentName, d.DocumentType, d.ExpiryDate)
	return rowsAffected(res, err)
}

func (s *Store) DeleteDocument(ctx context.Context, petID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = $1 AND pet_id = $2`, id, petID)
	return rowsAffected(res, err)
}

func (s *Store) GetDocument(ctx context.Context, petID, id int64) (records.Document, error) {
	var d records.Document
	err := s.db.QueryRowContext(ctx, `
		SELECT id, pet_id, document_name, document_type, expiry_date
		FROM documents WHERE id = $1 AND pet_id = $2
	`, id, petID).Scan(&d.ID, &d.PetID, &d.DocumentName, &d.DocumentType, &d.ExpiryDate)
	if err != nil {
		return records.Document{}, mapErr(err)
	}
	if d.Files, err = s.listDocumentFiles(ctx, d.ID); err != nil {
		return records.Document{}, err
	}
	return d, nil
}

func (s *Store) AddDocumentFile(ctx context.Context, petID, docID int64, f records.DocumentFile) (records.Document, error) {
	// valida pertenencia antes de insertar
	if _, err := s.GetDocument(ctx, petID, docID); err != nil {
		return records.Document{}, err
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO document_files (document_id, stored_path, display_name, original_name)
		VALUES ($1,$2,$3,$4) RETURNING id
	`, docID, f.StoredPath, f.DisplayName, f.OriginalName).Scan(&f.ID)
	if err != nil {
		return records.Document{}, err
	}
	return s.GetDocument(ctx, petID, docID)
}

func (s *Store) DeleteDocumentFile(ctx context.Context, petID, docID, fileID int64) error {
	if _, err := s.GetDocument(ctx, petID, docID); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM document_files WHERE id = $1 AND document_id = $2`, fileID, docID)
	return rowsAffected(res, err)
}

func (s *Store) listDocuments(ctx context.Context, petID int64) ([]records.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pet_id, document_name, document_type, expiry_date
		FROM documents WHERE pet_id = $1 ORDER BY id ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []records.Document{}
	for rows.Next() {
		var d records.Document
		if err := rows.Scan(&d.ID, &d.PetID, &d.DocumentName, &d.DocumentType, &d.ExpiryDate); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if out[i].Files, err = s.listDocumentFiles(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) listDocumentFiles(ctx context.Context, docID int64) ([]records.DocumentFile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, stored_path, display_name, original_name
		FROM document_files WHERE document_id = $1 ORDER BY id ASC
	`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []records.DocumentFile{}
	for rows.Next() {
		var f records.DocumentFile
		if err := rows.Scan(&f.ID, &f.StoredPath, &f.DisplayName, &f.OriginalName); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// --- Usuarios ---

func (s *Store) ListUsers(ctx context.Context) ([]records.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, username, role, created_at
		FROM users ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []records.User{}
	for rows.Next() {
		var u records.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Username, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, u records.User, password string) (records.User, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, username, password, role)
		VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at
	`, u.Name, u.Email, u.Username, password, u.Role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return records.User{}, err
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u records.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = $2, email = $3, username = $4, role = $5
		WHERE id = $1
	`, u.ID, u.Name, u.Email, u.Username, u.Role)
	return rowsAffected(res, err)
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return rowsAffected(res, err)
}

func (s *Store) FindUserByCredentials(ctx context.Context, username, password string) (records.User, error) {
	var u records.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, username, role, created_at
		FROM users WHERE username = $1 AND password = $2
	`, username, password).Scan(&u.ID, &u.Name, &u.Email, &u.Username, &u.Role, &u.CreatedAt)
	if err != nil {
		return records.User{}, mapErr(err)
	}
	return u, nil
}
