package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-tracker/internal/domain/pets"

	"github.com/google/uuid"
)

// remoteStore es un document store en memoria con la misma forma que el
// remoto real: users/{userID}/pets/{petID}/{subcolección}/{id}.
// Sirve para dev y tests; los timestamps los pone el "servidor" (now).
type remoteStore struct {
	mu    sync.RWMutex
	users map[string]map[string]*petDoc
	seq   int64
	now   func() time.Time
}

type petDoc struct {
	seq int64
	pet pets.Pet

	weights     map[string]seqWeight
	feedings    map[string]seqFeeding
	medications map[string]*medicationDoc
}

type medicationDoc struct {
	seq   int64
	entry pets.MedicationEntry

	administrations map[string]seqAdministration
}

type seqWeight struct {
	seq   int64
	entry pets.WeightEntry
}

type seqFeeding struct {
	seq   int64
	entry pets.FeedingEntry
}

type seqAdministration struct {
	seq   int64
	entry pets.Administration
}

func NewRemoteStore() pets.RemoteStore {
	return newRemoteStore(func() time.Time { return time.Now().UTC() })
}

func newRemoteStore(now func() time.Time) *remoteStore {
	return &remoteStore{
		users: make(map[string]map[string]*petDoc),
		now:   now,
	}
}

func (r *remoteStore) nextSeq() int64 {
	r.seq++
	return r.seq
}

// pet devuelve el documento o ErrNotFound. Requiere lock tomado.
func (r *remoteStore) pet(userID, petID string) (*petDoc, error) {
	doc, ok := r.users[userID][petID]
	if !ok {
		return nil, fmt.Errorf("pet %s: %w", petID, pets.ErrNotFound)
	}
	return doc, nil
}

func (r *remoteStore) ListPets(ctx context.Context, userID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*petDoc, 0, len(r.users[userID]))
	for _, d := range r.users[userID] {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].seq < docs[j].seq })

	out := make([]pets.Pet, 0, len(docs))
	for _, d := range docs {
		out = append(out, clonePet(d.pet))
	}
	return out, nil
}

func (r *remoteStore) GetPet(ctx context.Context, userID, petID string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.pet(userID, petID)
	if err != nil {
		return pets.Pet{}, err
	}
	return clonePet(doc.pet), nil
}

func (r *remoteStore) CreatePet(ctx context.Context, userID string, in pets.PetDocument) (pets.Pet, error) {
	if strings.TrimSpace(userID) == "" {
		return pets.Pet{}, fmt.Errorf("user id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	p := pets.Pet{
		ID:         uuid.NewString(),
		Name:       in.Name,
		BirthDate:  cloneTime(in.BirthDate),
		Weight:     in.Weight,
		WeightUnit: in.WeightUnit,
		PhotoURL:   cloneString(in.PhotoURL),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if r.users[userID] == nil {
		r.users[userID] = make(map[string]*petDoc)
	}
	r.users[userID][p.ID] = &petDoc{
		seq:         r.nextSeq(),
		pet:         p,
		weights:     make(map[string]seqWeight),
		feedings:    make(map[string]seqFeeding),
		medications: make(map[string]*medicationDoc),
	}
	return clonePet(p), nil
}

func (r *remoteStore) UpdatePet(ctx context.Context, userID, petID string, in pets.PetDocument) (pets.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.pet(userID, petID)
	if err != nil {
		return pets.Pet{}, err
	}

	doc.pet.Name = in.Name
	doc.pet.BirthDate = cloneTime(in.BirthDate)
	doc.pet.Weight = in.Weight
	doc.pet.WeightUnit = in.WeightUnit
	doc.pet.PhotoURL = cloneString(in.PhotoURL)
	doc.pet.UpdatedAt = r.now()

	return clonePet(doc.pet), nil
}

// DeletePet borra la mascota con todas sus subcolecciones.
func (r *remoteStore) DeletePet(ctx context.Context, userID, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.pet(userID, petID); err != nil {
		return err
	}
	delete(r.users[userID], petID)
	return nil
}

func (r *remoteStore) ListWeights(ctx context.Context, userID, petID string) ([]pets.WeightEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.pet(userID, petID)
	if err != nil {
		return nil, err
	}

	rows := make([]seqWeight, 0, len(doc.weights))
	for _, w := range doc.weights {
		rows = append(rows, w)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]pets.WeightEntry, 0, len(rows))
	for _, w := range rows {
		out = append(out, w.entry)
	}
	return out, nil
}

func (r *remoteStore) AddWeight(ctx context.Context, userID, petID string, in pets.WeightInput) (pets.WeightEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.pet(userID, petID)
	if err != nil {
		return pets.WeightEntry{}, err
	}

	e := pets.WeightEntry{
		ID:        uuid.NewString(),
		PetID:     petID,
		Value:     in.Value,
		Unit:      in.Unit,
		Date:      in.Date,
		CreatedAt: r.now(),
	}
	doc.weights[e.ID] = seqWeight{seq: r.nextSeq(), entry: e}
	return e, nil
}

func (r *remoteStore) ListFeedings(ctx context.Context, userID, petID string) ([]pets.FeedingEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.pet(userID, petID)
	if err != nil {
		return nil, err
	}

	rows := make([]seqFeeding, 0, len(doc.feedings))
	for _, f := range doc.feedings {
		rows = append(rows, f)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]pets.FeedingEntry, 0, len(rows))
	for _, f := range rows {
		out = append(out, cloneFeeding(f.entry))
	}
	return out, nil
}

func (r *remoteStore) AddFeeding(ctx context.Context, userID, petID string, in pets.FeedingInput) (pets.FeedingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.pet(userID, petID)
	if err != nil {
		return pets.FeedingEntry{}, err
	}

	e := pets.FeedingEntry{
		ID:        uuid.NewString(),
		PetID:     petID,
		FoodType:  in.FoodType,
		Quantity:  in.Quantity,
		Unit:      in.Unit,
		Time:      in.Time,
		Completed: false,
		CreatedAt: r.now(),
	}
	doc.feedings[e.ID] = seqFeeding{seq: r.nextSeq(), entry: e}
	return e, nil
}

func (r *remoteStore) SetFeedingCompleted(ctx context.Context, userID, petID, feedingID string, completed bool) (pets.FeedingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.pet(userID, petID)
	if err != nil {
		return pets.FeedingEntry{}, err
	}
	row, ok := doc.feedings[feedingID]
	if !ok {
		return pets.FeedingEntry{}, fmt.Errorf("feeding %s: %w", feedingID, pets.ErrNotFound)
	}

	row.entry.Completed = completed
	if completed {
		t := r.now()
		row.entry.CompletedAt = &t
	} else {
		row.entry.CompletedAt = nil
	}
	doc.feedings[feedingID] = row

	return cloneFeeding(row.entry), nil
}

func (r *remoteStore) ListMedications(ctx context.Context, userID, petID string) ([]pets.MedicationEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.pet(userID, petID)
	if err != nil {
		return nil, err
	}

	rows := make([]*medicationDoc, 0, len(doc.medications))
	for _, m := range doc.medications {
		rows = append(rows, m)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]pets.MedicationEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.entry)
	}
	return out, nil
}

func (r *remoteStore) AddMedication(ctx context.Context, userID, petID string, in pets.MedicationInput) (pets.MedicationEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.pet(userID, petID)
	if err != nil {
		return pets.MedicationEntry{}, err
	}

	e := pets.MedicationEntry{
		ID:              uuid.NewString(),
		PetID:           petID,
		Name:            in.Name,
		Dosage:          in.Dosage,
		Frequency:       in.Frequency,
		CustomFrequency: in.CustomFrequency,
		Time:            in.Time,
		CreatedAt:       r.now(),
	}
	doc.medications[e.ID] = &medicationDoc{
		seq:             r.nextSeq(),
		entry:           e,
		administrations: make(map[string]seqAdministration),
	}
	return e, nil
}

func (r *remoteStore) medication(userID, petID, medicationID string) (*medicationDoc, error) {
	doc, err := r.pet(userID, petID)
	if err != nil {
		return nil, err
	}
	m, ok := doc.medications[medicationID]
	if !ok {
		return nil, fmt.Errorf("medication %s: %w", medicationID, pets.ErrNotFound)
	}
	return m, nil
}

func (r *remoteStore) ListAdministrations(ctx context.Context, userID, petID, medicationID string) ([]pets.Administration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, err := r.medication(userID, petID, medicationID)
	if err != nil {
		return nil, err
	}

	rows := make([]seqAdministration, 0, len(m.administrations))
	for _, a := range m.administrations {
		rows = append(rows, a)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]pets.Administration, 0, len(rows))
	for _, a := range rows {
		out = append(out, a.entry)
	}
	return out, nil
}

func (r *remoteStore) AddAdministration(ctx context.Context, userID, petID, medicationID string, in pets.AdministrationInput) (pets.Administration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.medication(userID, petID, medicationID)
	if err != nil {
		return pets.Administration{}, err
	}

	a := pets.Administration{
		ID:             uuid.NewString(),
		MedicationID:   medicationID,
		Notes:          in.Notes,
		AdministeredBy: in.AdministeredBy,
		Timestamp:      r.now(),
	}
	m.administrations[a.ID] = seqAdministration{seq: r.nextSeq(), entry: a}
	return a, nil
}

// Copias defensivas: los punteros no se comparten con el caller.

func clonePet(p pets.Pet) pets.Pet {
	p.BirthDate = cloneTime(p.BirthDate)
	p.PhotoURL = cloneString(p.PhotoURL)
	return p
}

func cloneFeeding(f pets.FeedingEntry) pets.FeedingEntry {
	f.CompletedAt = cloneTime(f.CompletedAt)
	return f
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
