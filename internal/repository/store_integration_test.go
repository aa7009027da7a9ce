//go:build testutil
// +build testutil

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/george-michael9/Abrar-system/internal/model"
	"github.com/george-michael9/Abrar-system/internal/repository"
	"github.com/george-michael9/Abrar-system/internal/testutil/testdb"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	handle, err := testdb.Start(ctx)
	if err != nil {
		t.Fatalf("testdb start: %v", err)
	}
	defer handle.Close()

	store := repository.NewStore(handle.Pool)
	now := time.Now().UTC()

	user := model.User{
		ID:           uuid.NewString(),
		Email:        "amin@example.org",
		PasswordHash: "x",
		FullName:     "Amin One",
		Role:         model.RoleAmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	classA := model.Class{ID: uuid.NewString(), Name: "Class A", IsActive: true, CreatedAt: now, UpdatedAt: now}
	classB := model.Class{ID: uuid.NewString(), Name: "Class B", IsActive: true, CreatedAt: now, UpdatedAt: now}
	for _, class := range []model.Class{classA, classB} {
		if err := store.CreateClass(ctx, class); err != nil {
			t.Fatalf("CreateClass: %v", err)
		}
	}

	first := model.Makhdoum{ID: uuid.NewString(), FullName: "Child One", ClassID: &classA.ID, IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := store.CreateMakhdoum(ctx, &first); err != nil {
		t.Fatalf("CreateMakhdoum: %v", err)
	}
	if first.Code != "MKD-000001" {
		t.Fatalf("first code = %q, want MKD-000001", first.Code)
	}
	second := model.Makhdoum{ID: uuid.NewString(), FullName: "Child Two", ClassID: &classB.ID, IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := store.CreateMakhdoum(ctx, &second); err != nil {
		t.Fatalf("CreateMakhdoum: %v", err)
	}
	if second.Code != "MKD-000002" {
		t.Fatalf("second code = %q, want MKD-000002", second.Code)
	}

	teamRed := model.Team{ID: uuid.NewString(), Name: "Red", ClassIDs: []string{classA.ID}, CreatedAt: now, UpdatedAt: now}
	teamBlue := model.Team{ID: uuid.NewString(), Name: "Blue", CreatedAt: now, UpdatedAt: now.Add(time.Second)}
	if err := store.CreateTeam(ctx, teamRed); err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	if err := store.CreateTeam(ctx, teamBlue); err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}

	// Reassignment drops the class from its old team in the same tx.
	if err := store.AssignClassToTeam(ctx, teamBlue.ID, classA.ID); err != nil {
		t.Fatalf("AssignClassToTeam: %v", err)
	}
	teams, err := store.ListTeams(ctx)
	if err != nil {
		t.Fatalf("ListTeams: %v", err)
	}
	for _, team := range teams {
		switch team.ID {
		case teamRed.ID:
			if len(team.ClassIDs) != 0 {
				t.Errorf("red still holds classes: %v", team.ClassIDs)
			}
		case teamBlue.ID:
			if len(team.ClassIDs) != 1 || team.ClassIDs[0] != classA.ID {
				t.Errorf("blue classes = %v, want [%s]", team.ClassIDs, classA.ID)
			}
		}
	}

	event := model.Event{
		ID:        uuid.NewString(),
		Name:      "Mahragan",
		Type:      model.EventActivity,
		StartAt:   now.Add(-time.Hour),
		EndAt:     now.Add(time.Hour),
		Status:    model.EventOngoing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	score := model.Score{
		ID:         uuid.NewString(),
		EventID:    event.ID,
		MakhdoumID: first.ID,
		Score:      15,
		EnteredBy:  user.ID,
		EnteredAt:  now,
	}
	if err := store.AddScore(ctx, score); err != nil {
		t.Fatalf("AddScore: %v", err)
	}
	scores, err := store.ListScoresByEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("ListScoresByEvent: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 15 {
		t.Fatalf("scores = %+v, want one entry of 15", scores)
	}

	stats, err := store.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	if stats.TotalMakhdoumeen != 2 || stats.TotalClasses != 2 || stats.AminCount != 1 {
		t.Fatalf("statistics = %+v", stats)
	}
}
