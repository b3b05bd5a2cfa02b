package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"clinica/internal/core"
	"clinica/internal/store"
)

var _ store.Reader = (*Store)(nil)

type clinic struct {
	nome          string
	transactions  []core.Transaction
	appointments  []core.Appointment
	professionals map[string]string
}

// Store keeps every tenant's records in memory. It backs local development
// and tests.
type Store struct {
	mu      sync.RWMutex
	clinics map[string]*clinic
}

func New() *Store {
	return &Store{clinics: make(map[string]*clinic)}
}

// NewFromFiles seeds a store from clinicas.csv, profissionais.csv,
// transacoes.csv and agendamentos.csv under base. Missing files are skipped.
func NewFromFiles(base string) (*Store, error) {
	s := New()
	loaders := []struct {
		file string
		load func([]string) error
	}{
		{"clinicas.csv", s.loadClinic},
		{"profissionais.csv", s.loadProfessional},
		{"transacoes.csv", s.loadTransaction},
		{"agendamentos.csv", s.loadAppointment},
	}
	for _, l := range loaders {
		path := filepath.Join(base, l.file)
		n, err := readCSV(path, l.load)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", l.file, err)
		}
		slog.Debug("Seed file loaded", "component", "storage", "file", path, "rows", n)
	}
	return s, nil
}

func (s *Store) clinic(id string) *clinic {
	c, ok := s.clinics[id]
	if !ok {
		c = &clinic{professionals: make(map[string]string)}
		s.clinics[id] = c
	}
	return c
}

// AddClinic registers a clinic's display name.
func (s *Store) AddClinic(clinicaID, nome string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clinic(clinicaID).nome = nome
}

// AddTransaction validates and stores t for the clinic.
func (s *Store) AddTransaction(clinicaID string, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.clinic(clinicaID)
	c.transactions = append(c.transactions, t)
	return nil
}

// AddAppointment validates and stores a for the clinic.
func (s *Store) AddAppointment(clinicaID string, a core.Appointment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.clinic(clinicaID)
	c.appointments = append(c.appointments, a)
	return nil
}

// AddProfessional registers a professional's display name.
func (s *Store) AddProfessional(clinicaID, userID, nome string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clinic(clinicaID).professionals[userID] = nome
}

func inRange(d, start, end core.Date) bool {
	return !d.Before(start.Time) && !d.After(end.Time)
}

func (s *Store) ListTransactions(_ context.Context, clinicaID string, start, end core.Date) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clinics[clinicaID]
	if !ok {
		return []core.Transaction{}, nil
	}
	out := make([]core.Transaction, 0, len(c.transactions))
	for _, t := range c.transactions {
		if inRange(t.Data, start, end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) PageTransactions(_ context.Context, clinicaID string, f store.TransactionFilter) (store.TransactionPage, error) {
	f = f.Normalize()
	s.mu.RLock()
	var matched []core.Transaction
	if c, ok := s.clinics[clinicaID]; ok {
		for _, t := range c.transactions {
			if f.Match(t) {
				matched = append(matched, t)
			}
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Data.Equal(matched[j].Data.Time) {
			return matched[i].Data.After(matched[j].Data.Time)
		}
		return matched[i].ID < matched[j].ID
	})

	page := store.TransactionPage{Page: f.Page, PageSize: f.PageSize, TotalItems: len(matched), Items: []core.Transaction{}}
	from := f.Offset()
	if from >= 0 && from < len(matched) {
		to := from + f.PageSize
		if to > len(matched) {
			to = len(matched)
		}
		page.Items = append(page.Items, matched[from:to]...)
	}
	return page, nil
}

func (s *Store) ListAppointments(_ context.Context, clinicaID string, start, end core.Date) ([]core.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clinics[clinicaID]
	if !ok {
		return []core.Appointment{}, nil
	}
	out := make([]core.Appointment, 0, len(c.appointments))
	for _, a := range c.appointments {
		if inRange(a.Data, start, end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) ProfessionalNames(_ context.Context, clinicaID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string)
	if c, ok := s.clinics[clinicaID]; ok {
		for id, nome := range c.professionals {
			out[id] = nome
		}
	}
	return out, nil
}

func (s *Store) ListClinics(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.clinics))
	for id := range s.clinics {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) ClinicName(_ context.Context, clinicaID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clinics[clinicaID]
	if !ok || c.nome == "" {
		return "", store.ErrNotFound
	}
	return c.nome, nil
}

// readCSV feeds every data row (header skipped) to fn.
func readCSV(path string, fn func([]string) error) (int, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'
	n := 0
	for line := 0; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if line == 0 {
			continue
		}
		if err := fn(rec); err != nil {
			return n, fmt.Errorf("line %d: %w", line+1, err)
		}
		n++
	}
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}

// id,nome
func (s *Store) loadClinic(rec []string) error {
	if field(rec, 0) == "" {
		return errors.New("id is required")
	}
	s.AddClinic(field(rec, 0), field(rec, 1))
	return nil
}

// clinica_id,user_id,nome
func (s *Store) loadProfessional(rec []string) error {
	if field(rec, 0) == "" || field(rec, 1) == "" {
		return errors.New("clinica_id and user_id are required")
	}
	s.AddProfessional(field(rec, 0), field(rec, 1), field(rec, 2))
	return nil
}

// clinica_id,id,tipo,categoria,valor,data,forma_pagamento,status,paciente,descricao
func (s *Store) loadTransaction(rec []string) error {
	valor, err := core.ParseValor(field(rec, 4))
	if err != nil {
		return err
	}
	data, err := core.ParseDate(field(rec, 5))
	if err != nil {
		return err
	}
	return s.AddTransaction(field(rec, 0), core.Transaction{
		ID:             field(rec, 1),
		Tipo:           core.TransactionType(field(rec, 2)),
		Categoria:      core.StringPtr(field(rec, 3)),
		Valor:          valor,
		Data:           data,
		FormaPagamento: core.StringPtr(field(rec, 6)),
		Status:         core.TransactionStatus(field(rec, 7)),
		Paciente:       core.StringPtr(field(rec, 8)),
		Descricao:      field(rec, 9),
	})
}

// clinica_id,id,data,hora_inicio,hora_fim,tipo,status,valor,medico_id,paciente
func (s *Store) loadAppointment(rec []string) error {
	data, err := core.ParseDate(field(rec, 2))
	if err != nil {
		return err
	}
	var valor *float64
	if v := field(rec, 7); v != "" {
		parsed, err := core.ParseValor(v)
		if err != nil {
			return err
		}
		valor = &parsed
	}
	return s.AddAppointment(field(rec, 0), core.Appointment{
		ID:         field(rec, 1),
		Data:       data,
		HoraInicio: field(rec, 3),
		HoraFim:    field(rec, 4),
		Tipo:       core.StringPtr(field(rec, 5)),
		Status:     core.AppointmentStatus(field(rec, 6)),
		Valor:      valor,
		MedicoID:   core.StringPtr(field(rec, 8)),
		Paciente:   core.StringPtr(field(rec, 9)),
	})
}
