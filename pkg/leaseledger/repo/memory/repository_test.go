package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BetoIII/atlas-lease-extractor/pkg/leaseledger"
)

func newTestUser() *leaseledger.User {
	return &leaseledger.User{
		ID:        uuid.New(),
		Email:     uuid.New().String() + "@example.com",
		Name:      "Test User",
		CreatedAt: time.Now().UTC(),
	}
}

func newTestDocument(ownerID uuid.UUID) *leaseledger.Document {
	now := time.Now().UTC()
	return &leaseledger.Document{
		ID:            uuid.New(),
		Title:         "Office Lease",
		FileRef:       "leases/office.pdf",
		OwnerID:       ownerID,
		SharingMode:   leaseledger.SharingModePrivate,
		AssetType:     leaseledger.DefaultAssetType,
		Status:        leaseledger.DocumentStatusActive,
		OwnershipType: leaseledger.OwnershipTypeOwned,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newTestActivity(documentID uuid.UUID, at time.Time) *leaseledger.Activity {
	return &leaseledger.Activity{
		ID:         uuid.New(),
		DocumentID: documentID,
		Action:     leaseledger.ActionDocumentViewed,
		Category:   leaseledger.CategoryAccess,
		Status:     leaseledger.ActivityStatusSuccess,
		ActorID:    "actor-1",
		TxHash:     "0xabc",
		CreatedAt:  at,
	}
}

func TestUserOperations(t *testing.T) {
	repo := New()
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		user := newTestUser()
		require.NoError(t, repo.CreateUser(ctx, user))

		got, err := repo.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)

		// The stored user is isolated from later caller mutations.
		user.Email = "mutated@example.com"
		got, err = repo.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "mutated@example.com", got.Email)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := repo.GetUser(ctx, uuid.New())
		assert.ErrorIs(t, err, leaseledger.ErrUserNotFound)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		user := newTestUser()
		require.NoError(t, repo.CreateUser(ctx, user))

		dup := newTestUser()
		dup.Email = user.Email
		assert.ErrorIs(t, repo.CreateUser(ctx, dup), leaseledger.ErrIntegrityViolation)
	})

	t.Run("update rebinds email", func(t *testing.T) {
		user := newTestUser()
		require.NoError(t, repo.CreateUser(ctx, user))

		oldEmail := user.Email
		user.Email = uuid.New().String() + "@example.com"
		require.NoError(t, repo.UpdateUser(ctx, user))

		// The old address is free again.
		fresh := newTestUser()
		fresh.Email = oldEmail
		assert.NoError(t, repo.CreateUser(ctx, fresh))
	})

	t.Run("update to taken email rejected", func(t *testing.T) {
		a := newTestUser()
		b := newTestUser()
		require.NoError(t, repo.CreateUser(ctx, a))
		require.NoError(t, repo.CreateUser(ctx, b))

		b.Email = a.Email
		assert.ErrorIs(t, repo.UpdateUser(ctx, b), leaseledger.ErrIntegrityViolation)
	})
}

func TestDocumentOperations(t *testing.T) {
	repo := New()
	ctx := context.Background()

	owner := newTestUser()
	require.NoError(t, repo.CreateUser(ctx, owner))

	t.Run("create requires existing owner", func(t *testing.T) {
		doc := newTestDocument(uuid.New())
		assert.ErrorIs(t, repo.CreateDocument(ctx, doc), leaseledger.ErrIntegrityViolation)
	})

	t.Run("create and get", func(t *testing.T) {
		doc := newTestDocument(owner.ID)
		require.NoError(t, repo.CreateDocument(ctx, doc))

		got, err := repo.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, doc.Title, got.Title)
		assert.Nil(t, got.Activities)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := repo.GetDocument(ctx, uuid.New())
		assert.ErrorIs(t, err, leaseledger.ErrDocumentNotFound)
	})

	t.Run("update", func(t *testing.T) {
		doc := newTestDocument(owner.ID)
		require.NoError(t, repo.CreateDocument(ctx, doc))

		doc.TotalRevenue = 500
		require.NoError(t, repo.UpdateDocument(ctx, doc))

		got, err := repo.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(500), got.TotalRevenue)
	})

	t.Run("update missing", func(t *testing.T) {
		doc := newTestDocument(owner.ID)
		assert.ErrorIs(t, repo.UpdateDocument(ctx, doc), leaseledger.ErrDocumentNotFound)
	})

	t.Run("list by owner newest first", func(t *testing.T) {
		listOwner := newTestUser()
		require.NoError(t, repo.CreateUser(ctx, listOwner))

		base := time.Now().UTC()
		for i := 0; i < 3; i++ {
			doc := newTestDocument(listOwner.ID)
			doc.CreatedAt = base.Add(time.Duration(i) * time.Second)
			require.NoError(t, repo.CreateDocument(ctx, doc))
		}

		docs, err := repo.ListDocumentsByOwner(ctx, listOwner.ID)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.True(t, docs[0].CreatedAt.After(docs[1].CreatedAt))
		assert.True(t, docs[1].CreatedAt.After(docs[2].CreatedAt))
	})

	t.Run("delete cascades activities", func(t *testing.T) {
		doc := newTestDocument(owner.ID)
		require.NoError(t, repo.CreateDocument(ctx, doc))

		activity := newTestActivity(doc.ID, time.Now().UTC())
		require.NoError(t, repo.CreateActivity(ctx, activity))

		require.NoError(t, repo.DeleteDocument(ctx, doc.ID))

		_, err := repo.GetDocument(ctx, doc.ID)
		assert.ErrorIs(t, err, leaseledger.ErrDocumentNotFound)
		_, err = repo.GetActivity(ctx, activity.ID)
		assert.ErrorIs(t, err, leaseledger.ErrActivityNotFound)
	})
}

func TestActivityOperations(t *testing.T) {
	repo := New()
	ctx := context.Background()

	owner := newTestUser()
	require.NoError(t, repo.CreateUser(ctx, owner))
	doc := newTestDocument(owner.ID)
	require.NoError(t, repo.CreateDocument(ctx, doc))

	t.Run("create requires existing document", func(t *testing.T) {
		activity := newTestActivity(uuid.New(), time.Now().UTC())
		assert.ErrorIs(t, repo.CreateActivity(ctx, activity), leaseledger.ErrDocumentNotFound)
	})

	t.Run("create, get, list", func(t *testing.T) {
		base := time.Now().UTC()
		first := newTestActivity(doc.ID, base)
		second := newTestActivity(doc.ID, base.Add(time.Second))
		require.NoError(t, repo.CreateActivity(ctx, first))
		require.NoError(t, repo.CreateActivity(ctx, second))

		got, err := repo.GetActivity(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Action, got.Action)

		activities, err := repo.ListActivitiesByDocument(ctx, doc.ID)
		require.NoError(t, err)
		require.Len(t, activities, 2)
		assert.Equal(t, second.ID, activities[0].ID)
		assert.Equal(t, first.ID, activities[1].ID)
	})

	t.Run("list for unknown document is empty", func(t *testing.T) {
		activities, err := repo.ListActivitiesByDocument(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, activities)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		activity := newTestActivity(doc.ID, time.Now().UTC())
		require.NoError(t, repo.CreateActivity(ctx, activity))
		assert.ErrorIs(t, repo.CreateActivity(ctx, activity), leaseledger.ErrIntegrityViolation)
	})
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit publishes all writes", func(t *testing.T) {
		repo := New()
		owner := newTestUser()
		doc := newTestDocument(owner.ID)

		err := repo.WithTx(ctx, func(tx leaseledger.Repository) error {
			if err := tx.CreateUser(ctx, owner); err != nil {
				return err
			}
			return tx.CreateDocument(ctx, doc)
		})
		require.NoError(t, err)

		_, err = repo.GetDocument(ctx, doc.ID)
		assert.NoError(t, err)
	})

	t.Run("failure discards all writes", func(t *testing.T) {
		repo := New()
		owner := newTestUser()
		require.NoError(t, repo.CreateUser(ctx, owner))

		doc := newTestDocument(owner.ID)
		boom := errors.New("boom")

		err := repo.WithTx(ctx, func(tx leaseledger.Repository) error {
			if err := tx.CreateDocument(ctx, doc); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = repo.GetDocument(ctx, doc.ID)
		assert.ErrorIs(t, err, leaseledger.ErrDocumentNotFound)
	})

	t.Run("transaction sees its own writes", func(t *testing.T) {
		repo := New()
		owner := newTestUser()
		doc := newTestDocument(owner.ID)

		err := repo.WithTx(ctx, func(tx leaseledger.Repository) error {
			if err := tx.CreateUser(ctx, owner); err != nil {
				return err
			}
			if err := tx.CreateDocument(ctx, doc); err != nil {
				return err
			}
			got, err := tx.GetDocument(ctx, doc.ID)
			if err != nil {
				return err
			}
			assert.Equal(t, doc.ID, got.ID)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("nested transaction joins the outer one", func(t *testing.T) {
		repo := New()
		owner := newTestUser()
		doc := newTestDocument(owner.ID)

		err := repo.WithTx(ctx, func(tx leaseledger.Repository) error {
			if err := tx.CreateUser(ctx, owner); err != nil {
				return err
			}
			return tx.WithTx(ctx, func(inner leaseledger.Repository) error {
				return inner.CreateDocument(ctx, doc)
			})
		})
		require.NoError(t, err)

		_, err = repo.GetDocument(ctx, doc.ID)
		assert.NoError(t, err)
	})
}
