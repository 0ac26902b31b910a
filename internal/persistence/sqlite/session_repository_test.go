package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/overlap-planner/internal/persistence"
	"github.com/example/overlap-planner/internal/testfixtures"
)

func TestSessionRepository_CreateAndGet(t *testing.T) {
	repo := NewSessionRepository(newTestPool(t))
	ctx := context.Background()

	fixture := testfixtures.NewSessionFixture(testfixtures.WithSessionSubject("admin@example.com"))
	created, err := repo.CreateSession(ctx, fixture.Persistence())
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("expected creation timestamps to be set")
	}

	stored, err := repo.GetSession(ctx, fixture.Token)
	if err != nil {
		t.Fatalf("GetSession returned error: %v", err)
	}
	if stored.ID != fixture.ID || stored.Subject != "admin@example.com" {
		t.Fatalf("unexpected session %+v", stored)
	}
	if !stored.ExpiresAt.Equal(fixture.ExpiresAt) {
		t.Fatalf("expires at %v, want %v", stored.ExpiresAt, fixture.ExpiresAt)
	}
	if stored.RevokedAt != nil {
		t.Fatalf("expected no revocation, got %v", stored.RevokedAt)
	}
}

func TestSessionRepository_CreateRejectsDuplicateTokens(t *testing.T) {
	repo := NewSessionRepository(newTestPool(t))
	ctx := context.Background()

	first := testfixtures.NewSessionFixture(testfixtures.WithSessionToken("shared-token"))
	if _, err := repo.CreateSession(ctx, first.Persistence()); err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}

	second := testfixtures.NewSessionFixture(testfixtures.WithSessionToken("shared-token"))
	if _, err := repo.CreateSession(ctx, second.Persistence()); !errors.Is(err, persistence.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestSessionRepository_CreateRejectsBlankFields(t *testing.T) {
	repo := NewSessionRepository(newTestPool(t))
	ctx := context.Background()

	session := testfixtures.NewSessionFixture().Persistence()
	session.ID = ""
	if _, err := repo.CreateSession(ctx, session); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("blank id err = %v, want ErrConstraintViolation", err)
	}

	session = testfixtures.NewSessionFixture().Persistence()
	session.Token = "   "
	if _, err := repo.CreateSession(ctx, session); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("blank token err = %v, want ErrConstraintViolation", err)
	}
}

func TestSessionRepository_GetMissing(t *testing.T) {
	repo := NewSessionRepository(newTestPool(t))

	if _, err := repo.GetSession(context.Background(), "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetSession(context.Background(), "   "); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("blank token err = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_Revoke(t *testing.T) {
	repo := NewSessionRepository(newTestPool(t))
	ctx := context.Background()
	revokedAt := testfixtures.ReferenceTime().Add(time.Hour)

	t.Run("marks a live session revoked", func(t *testing.T) {
		fixture := testfixtures.NewSessionFixture()
		if _, err := repo.CreateSession(ctx, fixture.Persistence()); err != nil {
			t.Fatalf("CreateSession returned error: %v", err)
		}

		revoked, err := repo.RevokeSession(ctx, fixture.Token, revokedAt)
		if err != nil {
			t.Fatalf("RevokeSession returned error: %v", err)
		}
		if revoked.RevokedAt == nil || !revoked.RevokedAt.Equal(revokedAt) {
			t.Fatalf("revoked at %v, want %v", revoked.RevokedAt, revokedAt)
		}
	})

	t.Run("second revocation keeps the first timestamp", func(t *testing.T) {
		fixture := testfixtures.NewSessionFixture()
		if _, err := repo.CreateSession(ctx, fixture.Persistence()); err != nil {
			t.Fatalf("CreateSession returned error: %v", err)
		}
		if _, err := repo.RevokeSession(ctx, fixture.Token, revokedAt); err != nil {
			t.Fatalf("first RevokeSession returned error: %v", err)
		}

		again, err := repo.RevokeSession(ctx, fixture.Token, revokedAt.Add(time.Hour))
		if err != nil {
			t.Fatalf("second RevokeSession returned error: %v", err)
		}
		if again.RevokedAt == nil || !again.RevokedAt.Equal(revokedAt) {
			t.Fatalf("revoked at %v, want original %v", again.RevokedAt, revokedAt)
		}
	})

	t.Run("unknown token maps to not found", func(t *testing.T) {
		if _, err := repo.RevokeSession(ctx, "missing", revokedAt); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	repo := NewSessionRepository(newTestPool(t))
	ctx := context.Background()
	reference := testfixtures.ReferenceTime()

	expired := testfixtures.NewSessionFixture(testfixtures.WithSessionExpiresAt(reference.Add(-time.Minute)))
	live := testfixtures.NewSessionFixture(testfixtures.WithSessionExpiresAt(reference.Add(time.Hour)))
	for _, fixture := range []testfixtures.SessionFixture{expired, live} {
		if _, err := repo.CreateSession(ctx, fixture.Persistence()); err != nil {
			t.Fatalf("CreateSession returned error: %v", err)
		}
	}

	if err := repo.DeleteExpiredSessions(ctx, reference); err != nil {
		t.Fatalf("DeleteExpiredSessions returned error: %v", err)
	}

	if _, err := repo.GetSession(ctx, expired.Token); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expired session err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetSession(ctx, live.Token); err != nil {
		t.Fatalf("live session err = %v, want nil", err)
	}
}
