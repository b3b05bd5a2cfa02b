package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"clinica/internal/core"
	"clinica/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Reader = (*SQLiteRepository)(nil)

// SQLiteRepository is the relational backend. Every query is scoped to one
// clinica_id.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database answers.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type CreatePatientParams struct {
	ID        string
	ClinicaID string
	Nome      string
	MedicoID  string
}

type CreateTransactionParams struct {
	ClinicaID  string
	PacienteID string
	core.Transaction
}

type CreateAppointmentParams struct {
	ClinicaID  string
	PacienteID string
	core.Appointment
}

// CreateClinic inserts the clinic if it does not exist yet.
func (r *SQLiteRepository) CreateClinic(ctx context.Context, id, nome string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clinicas (id, nome) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`, id, nome)
	if err != nil {
		return fmt.Errorf("create clinic: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CreateProfessional(ctx context.Context, clinicaID, userID, nome string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profissionais (user_id, clinica_id, nome) VALUES (?, ?, ?)
		 ON CONFLICT(clinica_id, user_id) DO UPDATE SET nome = excluded.nome`,
		userID, clinicaID, nome)
	if err != nil {
		return fmt.Errorf("create professional: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CreatePatient(ctx context.Context, p CreatePatientParams) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pacientes (id, clinica_id, nome, medico_id) VALUES (?, ?, ?, ?)`,
		p.ID, p.ClinicaID, p.Nome, nullString(core.StringPtr(p.MedicoID)))
	if err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, p CreateTransactionParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transacoes
		 (id, clinica_id, tipo, categoria, valor, data, forma_pagamento, status, paciente_id, descricao)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ClinicaID, string(p.Tipo), nullString(p.Categoria), p.Valor, p.Data.String(),
		nullString(p.FormaPagamento), string(p.Status), nullString(core.StringPtr(p.PacienteID)), p.Descricao)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"clinica_id", p.ClinicaID,
		"id", p.ID,
		"valor", p.Valor,
		"data", p.Data.String())
	return nil
}

func (r *SQLiteRepository) CreateAppointment(ctx context.Context, p CreateAppointmentParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	var valor sql.NullFloat64
	if p.Valor != nil {
		valor = sql.NullFloat64{Float64: *p.Valor, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO agendamentos
		 (id, clinica_id, paciente_id, data, hora_inicio, hora_fim, tipo, status, valor)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ClinicaID, nullString(core.StringPtr(p.PacienteID)), p.Data.String(),
		p.HoraInicio, p.HoraFim, nullString(p.Tipo), string(p.Status), valor)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

const transactionColumns = `t.id, t.tipo, t.categoria, t.valor, t.data, t.forma_pagamento, t.status, p.nome, t.descricao`

// ListTransactions returns the clinic's transactions dated in [start, end].
// Dates stored with a time part match on their calendar day.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, clinicaID string, start, end core.Date) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+`
		 FROM transacoes t
		 LEFT JOIN pacientes p ON p.id = t.paciente_id AND p.clinica_id = t.clinica_id
		 WHERE t.clinica_id = ? AND substr(t.data, 1, 10) BETWEEN ? AND ?
		 ORDER BY t.data, t.id`,
		clinicaID, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// PageTransactions serves the ledger, newest first.
func (r *SQLiteRepository) PageTransactions(ctx context.Context, clinicaID string, f store.TransactionFilter) (store.TransactionPage, error) {
	f = f.Normalize()
	where, args := transactionWhere(clinicaID, f)

	page := store.TransactionPage{Page: f.Page, PageSize: f.PageSize}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transacoes t WHERE `+where, args...).Scan(&page.TotalItems); err != nil {
		return page, fmt.Errorf("count transactions: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+`
		 FROM transacoes t
		 LEFT JOIN pacientes p ON p.id = t.paciente_id AND p.clinica_id = t.clinica_id
		 WHERE `+where+`
		 ORDER BY t.data DESC, t.id
		 LIMIT ? OFFSET ?`,
		append(args, f.PageSize, f.Offset())...)
	if err != nil {
		return page, fmt.Errorf("page transactions: %w", err)
	}
	defer rows.Close()

	page.Items, err = scanTransactions(rows)
	return page, err
}

func transactionWhere(clinicaID string, f store.TransactionFilter) (string, []any) {
	clauses := []string{"t.clinica_id = ?"}
	args := []any{clinicaID}
	if !f.Start.IsZero() {
		clauses = append(clauses, "substr(t.data, 1, 10) >= ?")
		args = append(args, f.Start.String())
	}
	if !f.End.IsZero() {
		clauses = append(clauses, "substr(t.data, 1, 10) <= ?")
		args = append(args, f.End.String())
	}
	if f.Tipo != "" {
		clauses = append(clauses, "t.tipo = ?")
		args = append(args, string(f.Tipo))
	}
	if f.Status != "" {
		clauses = append(clauses, "t.status = ?")
		args = append(args, string(f.Status))
	}
	if f.Categoria != "" {
		clauses = append(clauses, "t.categoria = ?")
		args = append(args, f.Categoria)
	}
	return strings.Join(clauses, " AND "), args
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	out := []core.Transaction{}
	for rows.Next() {
		var (
			t                             core.Transaction
			tipo, status, data            string
			categoria, forma, pacienteNom sql.NullString
		)
		if err := rows.Scan(&t.ID, &tipo, &categoria, &t.Valor, &data, &forma, &status, &pacienteNom, &t.Descricao); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		d, err := core.ParseDate(data)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		t.Data = d
		t.Tipo = core.TransactionType(tipo)
		t.Status = core.TransactionStatus(status)
		t.Categoria = ptr(categoria)
		t.FormaPagamento = ptr(forma)
		t.Paciente = ptr(pacienteNom)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// ListAppointments returns the clinic's appointments dated in [start, end].
// The professional comes from the patient record.
func (r *SQLiteRepository) ListAppointments(ctx context.Context, clinicaID string, start, end core.Date) ([]core.Appointment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.data, a.hora_inicio, a.hora_fim, a.tipo, a.status, a.valor, p.medico_id, p.nome
		 FROM agendamentos a
		 LEFT JOIN pacientes p ON p.id = a.paciente_id AND p.clinica_id = a.clinica_id
		 WHERE a.clinica_id = ? AND substr(a.data, 1, 10) BETWEEN ? AND ?
		 ORDER BY a.data, a.hora_inicio, a.id`,
		clinicaID, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	out := []core.Appointment{}
	for rows.Next() {
		var (
			a                         core.Appointment
			data, status              string
			tipo, medico, pacienteNom sql.NullString
			valor                     sql.NullFloat64
		)
		if err := rows.Scan(&a.ID, &data, &a.HoraInicio, &a.HoraFim, &tipo, &status, &valor, &medico, &pacienteNom); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		d, err := core.ParseDate(data)
		if err != nil {
			return nil, fmt.Errorf("appointment %s: %w", a.ID, err)
		}
		a.Data = d
		a.Status = core.AppointmentStatus(status)
		a.Tipo = ptr(tipo)
		a.MedicoID = ptr(medico)
		a.Paciente = ptr(pacienteNom)
		if valor.Valid {
			a.Valor = core.FloatPtr(valor.Float64)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) ProfessionalNames(ctx context.Context, clinicaID string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, nome FROM profissionais WHERE clinica_id = ?`, clinicaID)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, nome string
		if err := rows.Scan(&id, &nome); err != nil {
			return nil, fmt.Errorf("scan professional: %w", err)
		}
		out[id] = nome
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListClinics(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM clinicas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan clinic: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ClinicName returns the display name of a clinic, or store.ErrNotFound.
func (r *SQLiteRepository) ClinicName(ctx context.Context, id string) (string, error) {
	var nome string
	err := r.db.QueryRowContext(ctx, `SELECT nome FROM clinicas WHERE id = ?`, id).Scan(&nome)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get clinic: %w", err)
	}
	return nome, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func ptr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return core.StringPtr(ns.String)
}
