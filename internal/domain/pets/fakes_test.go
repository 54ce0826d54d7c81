package pets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"pet-tracker/internal/ports/blob"
	"pet-tracker/internal/ports/cache"
)

// -------------------------
// Fake remote store
// -------------------------

type fakeRemote struct {
	mu  sync.Mutex
	seq int
	now time.Time

	pets     map[string]map[string]Pet // uid -> petID -> pet
	weights  map[string][]WeightEntry  // petID
	feedings map[string][]FeedingEntry // petID
	meds     map[string][]MedicationEntry
	admins   map[string][]Administration // medID

	calls map[string]int

	// failList hace fallar List* (simula remote caído en la relectura).
	failList  bool
	failWrite error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		now:      time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
		pets:     map[string]map[string]Pet{},
		weights:  map[string][]WeightEntry{},
		feedings: map[string][]FeedingEntry{},
		meds:     map[string][]MedicationEntry{},
		admins:   map[string][]Administration{},
		calls:    map[string]int{},
	}
}

var errRemoteDown = errors.New("remote: unavailable")

func (r *fakeRemote) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func (r *fakeRemote) count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

func (r *fakeRemote) pet(uid, petID string) (Pet, error) {
	p, ok := r.pets[uid][petID]
	if !ok {
		return Pet{}, fmt.Errorf("pet %s: %w", petID, ErrNotFound)
	}
	return p, nil
}

func (r *fakeRemote) ListPets(ctx context.Context, uid string) ([]Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["ListPets"]++
	if r.failList {
		return nil, errRemoteDown
	}
	out := make([]Pet, 0)
	for _, p := range r.pets[uid] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRemote) GetPet(ctx context.Context, uid, petID string) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetPet"]++
	return r.pet(uid, petID)
}

func (r *fakeRemote) CreatePet(ctx context.Context, uid string, doc PetDocument) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["CreatePet"]++
	if r.failWrite != nil {
		return Pet{}, r.failWrite
	}
	p := Pet{
		ID:         r.nextID("pet"),
		Name:       doc.Name,
		BirthDate:  doc.BirthDate,
		Weight:     doc.Weight,
		WeightUnit: doc.WeightUnit,
		PhotoURL:   doc.PhotoURL,
		CreatedAt:  r.now,
		UpdatedAt:  r.now,
	}
	if r.pets[uid] == nil {
		r.pets[uid] = map[string]Pet{}
	}
	r.pets[uid][p.ID] = p
	return p, nil
}

func (r *fakeRemote) UpdatePet(ctx context.Context, uid, petID string, doc PetDocument) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["UpdatePet"]++
	if r.failWrite != nil {
		return Pet{}, r.failWrite
	}
	p, err := r.pet(uid, petID)
	if err != nil {
		return Pet{}, err
	}
	p.Name, p.BirthDate, p.Weight, p.WeightUnit, p.PhotoURL = doc.Name, doc.BirthDate, doc.Weight, doc.WeightUnit, doc.PhotoURL
	p.UpdatedAt = r.now
	r.pets[uid][petID] = p
	return p, nil
}

func (r *fakeRemote) DeletePet(ctx context.Context, uid, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["DeletePet"]++
	if r.failWrite != nil {
		return r.failWrite
	}
	if _, err := r.pet(uid, petID); err != nil {
		return err
	}
	delete(r.pets[uid], petID)
	for _, m := range r.meds[petID] {
		delete(r.admins, m.ID)
	}
	delete(r.weights, petID)
	delete(r.feedings, petID)
	delete(r.meds, petID)
	return nil
}

func (r *fakeRemote) ListWeights(ctx context.Context, uid, petID string) ([]WeightEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["ListWeights"]++
	if r.failList {
		return nil, errRemoteDown
	}
	if _, err := r.pet(uid, petID); err != nil {
		return nil, err
	}
	return append([]WeightEntry(nil), r.weights[petID]...), nil
}

func (r *fakeRemote) AddWeight(ctx context.Context, uid, petID string, in WeightInput) (WeightEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.pet(uid, petID); err != nil {
		return WeightEntry{}, err
	}
	e := WeightEntry{ID: r.nextID("w"), PetID: petID, Value: in.Value, Unit: in.Unit, Date: in.Date, CreatedAt: r.now}
	r.weights[petID] = append(r.weights[petID], e)
	return e, nil
}

func (r *fakeRemote) ListFeedings(ctx context.Context, uid, petID string) ([]FeedingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["ListFeedings"]++
	if _, err := r.pet(uid, petID); err != nil {
		return nil, err
	}
	return append([]FeedingEntry(nil), r.feedings[petID]...), nil
}

func (r *fakeRemote) AddFeeding(ctx context.Context, uid, petID string, in FeedingInput) (FeedingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.pet(uid, petID); err != nil {
		return FeedingEntry{}, err
	}
	e := FeedingEntry{ID: r.nextID("f"), PetID: petID, FoodType: in.FoodType, Quantity: in.Quantity, Unit: in.Unit, Time: in.Time, CreatedAt: r.now}
	r.feedings[petID] = append(r.feedings[petID], e)
	return e, nil
}

func (r *fakeRemote) SetFeedingCompleted(ctx context.Context, uid, petID, feedingID string, completed bool) (FeedingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.feedings[petID] {
		if e.ID != feedingID {
			continue
		}
		e.Completed = completed
		e.CompletedAt = nil
		if completed {
			at := r.now
			e.CompletedAt = &at
		}
		r.feedings[petID][i] = e
		return e, nil
	}
	return FeedingEntry{}, fmt.Errorf("feeding %s: %w", feedingID, ErrNotFound)
}

func (r *fakeRemote) ListMedications(ctx context.Context, uid, petID string) ([]MedicationEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["ListMedications"]++
	if _, err := r.pet(uid, petID); err != nil {
		return nil, err
	}
	return append([]MedicationEntry(nil), r.meds[petID]...), nil
}

func (r *fakeRemote) AddMedication(ctx context.Context, uid, petID string, in MedicationInput) (MedicationEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.pet(uid, petID); err != nil {
		return MedicationEntry{}, err
	}
	e := MedicationEntry{
		ID: r.nextID("m"), PetID: petID, Name: in.Name, Dosage: in.Dosage,
		Frequency: in.Frequency, CustomFrequency: in.CustomFrequency, Time: in.Time, CreatedAt: r.now,
	}
	r.meds[petID] = append(r.meds[petID], e)
	return e, nil
}

func (r *fakeRemote) ListAdministrations(ctx context.Context, uid, petID, medID string) ([]Administration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["ListAdministrations"]++
	return append([]Administration(nil), r.admins[medID]...), nil
}

func (r *fakeRemote) AddAdministration(ctx context.Context, uid, petID, medID string, in AdministrationInput) (Administration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.pet(uid, petID); err != nil {
		return Administration{}, err
	}
	a := Administration{ID: r.nextID("a"), MedicationID: medID, Notes: in.Notes, AdministeredBy: in.AdministeredBy, Timestamp: r.now}
	r.admins[medID] = append(r.admins[medID], a)
	return a, nil
}

// -------------------------
// Fake cache
// -------------------------

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string

	failGet, failSet bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

var errCacheDown = errors.New("cache: disk full")

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return "", errCacheDown
	}
	v, ok := c.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSet {
		return errCacheDown
	}
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// -------------------------
// Fake blob store
// -------------------------

type fakeBlobs struct {
	mu      sync.Mutex
	uploads []string
	deletes []string
	ops     []string
	failUp  bool
	failDel bool
}

var errBlobDown = errors.New("blob: unavailable")

func (b *fakeBlobs) Upload(ctx context.Context, path string, obj blob.Object) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops = append(b.ops, "upload")
	if b.failUp {
		return "", errBlobDown
	}
	ref := "https://blobs.test/" + path
	b.uploads = append(b.uploads, ref)
	return ref, nil
}

func (b *fakeBlobs) Delete(ctx context.Context, ref string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops = append(b.ops, "delete")
	b.deletes = append(b.deletes, ref)
	if b.failDel {
		return errBlobDown
	}
	return nil
}

// -------------------------
// Helpers
// -------------------------

type fixture struct {
	svc    *Service
	remote *fakeRemote
	cache  *fakeCache
	blobs  *fakeBlobs
}

func newFixture() fixture {
	remote := newFakeRemote()
	c := newFakeCache()
	b := &fakeBlobs{}
	svc := NewService(remote, b, c, nil)
	svc.now = func() time.Time { return remote.now }
	return fixture{svc: svc, remote: remote, cache: c, blobs: b}
}

func rexInput() PetInput {
	return PetInput{Name: "Rex", Weight: 12.0, WeightUnit: WeightUnitKg}
}
