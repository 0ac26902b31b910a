package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/example/overlap-planner/internal/persistence"
	"github.com/example/overlap-planner/internal/roster"
	"github.com/example/overlap-planner/internal/testfixtures"
)

func TestRosterRepository_CreateAndGet(t *testing.T) {
	repo := NewRosterRepository(newTestPool(t))
	ctx := context.Background()

	fixture := testfixtures.NewRosterFixture(
		testfixtures.WithPeople(
			testfixtures.NewPersonFixture(testfixtures.WithUsername("ayla"), testfixtures.WithDailyRange("09:00", "17:00"), testfixtures.WithUTCOffset(2)),
			testfixtures.NewPersonFixture(testfixtures.WithUsername("bram"), testfixtures.WithDST(true)),
		),
		testfixtures.WithConstraints(roster.ConstraintMap{"ayla": roster.PinOnline}),
	)

	if err := repo.CreateRoster(ctx, fixture.Persistence()); err != nil {
		t.Fatalf("CreateRoster returned error: %v", err)
	}

	stored, err := repo.GetRoster(ctx, fixture.ID)
	if err != nil {
		t.Fatalf("GetRoster returned error: %v", err)
	}
	if stored.ID != fixture.ID || stored.Name != fixture.Name {
		t.Fatalf("stored %q/%q, want %q/%q", stored.ID, stored.Name, fixture.ID, fixture.Name)
	}
	if len(stored.People) != 2 {
		t.Fatalf("expected 2 people, got %d", len(stored.People))
	}
	if stored.People[0].Username != "ayla" || stored.People[0].UTCOffset != 2 {
		t.Fatalf("first person did not round trip: %+v", stored.People[0])
	}
	if stored.People[0].Rules.Range == nil || stored.People[0].Rules.Range.Start != 9*60 {
		t.Fatalf("availability range did not round trip: %+v", stored.People[0].Rules)
	}
	if !stored.People[1].DST {
		t.Fatal("dst flag did not round trip")
	}
	if stored.Constraints["ayla"] != roster.PinOnline {
		t.Fatalf("constraints did not round trip: %+v", stored.Constraints)
	}
	if !stored.CreatedAt.Equal(fixture.CreatedAt) {
		t.Fatalf("created at %v, want %v", stored.CreatedAt, fixture.CreatedAt)
	}
}

func TestRosterRepository_CreateRejectsDuplicates(t *testing.T) {
	repo := NewRosterRepository(newTestPool(t))
	ctx := context.Background()

	fixture := testfixtures.NewRosterFixture()
	if err := repo.CreateRoster(ctx, fixture.Persistence()); err != nil {
		t.Fatalf("CreateRoster returned error: %v", err)
	}
	if err := repo.CreateRoster(ctx, fixture.Persistence()); !errors.Is(err, persistence.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestRosterRepository_CreateRejectsBlankID(t *testing.T) {
	repo := NewRosterRepository(newTestPool(t))

	snapshot := testfixtures.NewRosterFixture().Persistence()
	snapshot.ID = "  "
	if err := repo.CreateRoster(context.Background(), snapshot); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("err = %v, want ErrConstraintViolation", err)
	}
}

func TestRosterRepository_GetMissing(t *testing.T) {
	repo := NewRosterRepository(newTestPool(t))

	if _, err := repo.GetRoster(context.Background(), "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRosterRepository_Update(t *testing.T) {
	repo := NewRosterRepository(newTestPool(t))
	ctx := context.Background()

	fixture := testfixtures.NewRosterFixture()
	if err := repo.CreateRoster(ctx, fixture.Persistence()); err != nil {
		t.Fatalf("CreateRoster returned error: %v", err)
	}

	updated := fixture.Persistence()
	updated.Name = "Renamed"
	updated.People = []roster.Person{
		testfixtures.NewPersonFixture(testfixtures.WithUsername("solo"), testfixtures.WithNeverAvailable()),
	}
	updated.Constraints = nil
	if err := repo.UpdateRoster(ctx, updated); err != nil {
		t.Fatalf("UpdateRoster returned error: %v", err)
	}

	stored, err := repo.GetRoster(ctx, fixture.ID)
	if err != nil {
		t.Fatalf("GetRoster returned error: %v", err)
	}
	if stored.Name != "Renamed" {
		t.Fatalf("name = %q, want Renamed", stored.Name)
	}
	if len(stored.People) != 1 || stored.People[0].Username != "solo" {
		t.Fatalf("people not replaced: %+v", stored.People)
	}
	if len(stored.Constraints) != 0 {
		t.Fatalf("expected constraints cleared, got %+v", stored.Constraints)
	}
	if !stored.UpdatedAt.After(stored.CreatedAt) && !stored.UpdatedAt.Equal(stored.CreatedAt) {
		t.Fatalf("updated at %v precedes created at %v", stored.UpdatedAt, stored.CreatedAt)
	}
}

func TestRosterRepository_UpdateMissing(t *testing.T) {
	repo := NewRosterRepository(newTestPool(t))

	snapshot := testfixtures.NewRosterFixture().Persistence()
	if err := repo.UpdateRoster(context.Background(), snapshot); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRosterRepository_Delete(t *testing.T) {
	repo := NewRosterRepository(newTestPool(t))
	ctx := context.Background()

	fixture := testfixtures.NewRosterFixture()
	if err := repo.CreateRoster(ctx, fixture.Persistence()); err != nil {
		t.Fatalf("CreateRoster returned error: %v", err)
	}

	if err := repo.DeleteRoster(ctx, fixture.ID); err != nil {
		t.Fatalf("DeleteRoster returned error: %v", err)
	}
	if _, err := repo.GetRoster(ctx, fixture.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
	if err := repo.DeleteRoster(ctx, fixture.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for second delete", err)
	}
}

func TestRosterRepository_ListOrdersByName(t *testing.T) {
	repo := NewRosterRepository(newTestPool(t))
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "midway"} {
		fixture := testfixtures.NewRosterFixture(testfixtures.WithRosterName(name))
		if err := repo.CreateRoster(ctx, fixture.Persistence()); err != nil {
			t.Fatalf("CreateRoster(%q) returned error: %v", name, err)
		}
	}

	listed, err := repo.ListRosters(ctx)
	if err != nil {
		t.Fatalf("ListRosters returned error: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 rosters, got %d", len(listed))
	}
	want := []string{"alpha", "midway", "zeta"}
	for i, name := range want {
		if listed[i].Name != name {
			t.Fatalf("position %d = %q, want %q", i, listed[i].Name, name)
		}
	}
}
