package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/BetoIII/atlas-lease-extractor/pkg/leaseledger"
)

// store holds all entity maps. Entities are copied on the way in and out so
// callers never share memory with the repository.
type store struct {
	users           map[uuid.UUID]*leaseledger.User
	usersByEmail    map[string]uuid.UUID
	documents       map[uuid.UUID]*leaseledger.Document
	activities      map[uuid.UUID]*leaseledger.Activity
	activitiesByDoc map[uuid.UUID][]uuid.UUID
}

func newStore() *store {
	return &store{
		users:           make(map[uuid.UUID]*leaseledger.User),
		usersByEmail:    make(map[string]uuid.UUID),
		documents:       make(map[uuid.UUID]*leaseledger.Document),
		activities:      make(map[uuid.UUID]*leaseledger.Activity),
		activitiesByDoc: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *store) clone() *store {
	c := newStore()
	for id, u := range s.users {
		c.users[id] = u
	}
	for email, id := range s.usersByEmail {
		c.usersByEmail[email] = id
	}
	for id, d := range s.documents {
		c.documents[id] = d
	}
	for id, a := range s.activities {
		c.activities[id] = a
	}
	for docID, ids := range s.activitiesByDoc {
		c.activitiesByDoc[docID] = append([]uuid.UUID(nil), ids...)
	}
	return c
}

// Repository implements leaseledger.Repository using in-memory storage
type Repository struct {
	mu    sync.RWMutex
	state *store
	inTx  bool
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{state: newStore()}
}

// CreateTables is a no-op for the in-memory repository
func (r *Repository) CreateTables(ctx context.Context) error {
	return nil
}

// WithTx runs fn against a cloned store and swaps it in only when fn
// succeeds, so a failing unit of work leaves no partial writes behind.
func (r *Repository) WithTx(ctx context.Context, fn func(leaseledger.Repository) error) error {
	if r.inTx {
		return fn(r)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &Repository{state: r.state.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	r.state = tx.state
	return nil
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *leaseledger.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.state.users[user.ID]; exists {
		return leaseledger.ErrIntegrityViolation
	}
	if _, exists := r.state.usersByEmail[user.Email]; exists {
		return leaseledger.ErrIntegrityViolation
	}

	userCopy := *user
	r.state.users[user.ID] = &userCopy
	r.state.usersByEmail[user.Email] = user.ID
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*leaseledger.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.state.users[id]
	if !exists {
		return nil, leaseledger.ErrUserNotFound
	}
	userCopy := *user
	return &userCopy, nil
}

func (r *Repository) UpdateUser(ctx context.Context, user *leaseledger.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.state.users[user.ID]
	if !exists {
		return leaseledger.ErrUserNotFound
	}
	if other, taken := r.state.usersByEmail[user.Email]; taken && other != user.ID {
		return leaseledger.ErrIntegrityViolation
	}

	delete(r.state.usersByEmail, existing.Email)
	userCopy := *user
	r.state.users[user.ID] = &userCopy
	r.state.usersByEmail[user.Email] = user.ID
	return nil
}

// Document operations

func (r *Repository) CreateDocument(ctx context.Context, doc *leaseledger.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Foreign-key discipline: the owner must exist before the document
	// may be committed.
	if _, exists := r.state.users[doc.OwnerID]; !exists {
		return leaseledger.ErrIntegrityViolation
	}
	if _, exists := r.state.documents[doc.ID]; exists {
		return leaseledger.ErrIntegrityViolation
	}

	docCopy := *doc
	docCopy.Activities = nil
	r.state.documents[doc.ID] = &docCopy
	return nil
}

func (r *Repository) GetDocument(ctx context.Context, id uuid.UUID) (*leaseledger.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, exists := r.state.documents[id]
	if !exists {
		return nil, leaseledger.ErrDocumentNotFound
	}
	docCopy := *doc
	return &docCopy, nil
}

func (r *Repository) UpdateDocument(ctx context.Context, doc *leaseledger.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.state.documents[doc.ID]; !exists {
		return leaseledger.ErrDocumentNotFound
	}

	docCopy := *doc
	docCopy.Activities = nil
	r.state.documents[doc.ID] = &docCopy
	return nil
}

func (r *Repository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.state.documents[id]; !exists {
		return leaseledger.ErrDocumentNotFound
	}

	// Cascade: a document's activities go with it.
	for _, activityID := range r.state.activitiesByDoc[id] {
		delete(r.state.activities, activityID)
	}
	delete(r.state.activitiesByDoc, id)
	delete(r.state.documents, id)
	return nil
}

func (r *Repository) ListDocumentsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*leaseledger.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*leaseledger.Document{}
	for _, doc := range r.state.documents {
		if doc.OwnerID == ownerID {
			docCopy := *doc
			result = append(result, &docCopy)
		}
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// Activity operations

func (r *Repository) CreateActivity(ctx context.Context, activity *leaseledger.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.state.documents[activity.DocumentID]; !exists {
		return leaseledger.ErrDocumentNotFound
	}
	if _, exists := r.state.activities[activity.ID]; exists {
		return leaseledger.ErrIntegrityViolation
	}

	activityCopy := *activity
	r.state.activities[activity.ID] = &activityCopy
	r.state.activitiesByDoc[activity.DocumentID] = append(r.state.activitiesByDoc[activity.DocumentID], activity.ID)
	return nil
}

func (r *Repository) GetActivity(ctx context.Context, id uuid.UUID) (*leaseledger.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, exists := r.state.activities[id]
	if !exists {
		return nil, leaseledger.ErrActivityNotFound
	}
	activityCopy := *activity
	return &activityCopy, nil
}

func (r *Repository) ListActivitiesByDocument(ctx context.Context, documentID uuid.UUID) ([]*leaseledger.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*leaseledger.Activity{}
	for _, activityID := range r.state.activitiesByDoc[documentID] {
		if activity, exists := r.state.activities[activityID]; exists {
			activityCopy := *activity
			result = append(result, &activityCopy)
		}
	}

	// Sort by created_at descending
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}
