package scoring

import (
	"fmt"
	"testing"

	"github.com/george-michael9/Abrar-system/internal/model"
)

func strPtr(s string) *string { return &s }

func fixtureInput() Input {
	return Input{
		Teams: []model.Team{
			{ID: "team-red", Name: "Red", ClassIDs: []string{"class-1"}},
			{ID: "team-blue", Name: "Blue", ClassIDs: []string{"class-2"}},
			{ID: "team-green", Name: "Green", ClassIDs: []string{"class-3"}},
		},
		Classes: []model.Class{
			{ID: "class-1", Name: "Primary 1"},
			{ID: "class-2", Name: "Primary 2"},
			{ID: "class-3", Name: "Primary 3"},
		},
		Makhdoumeen: []model.Makhdoum{
			{ID: "child-1", Code: "MKD-000001", FullName: "Youssef", ClassID: strPtr("class-1")},
			{ID: "child-2", Code: "MKD-000002", FullName: "Mariam", ClassID: strPtr("class-2")},
			{ID: "child-3", Code: "MKD-000003", FullName: "Kirollos", ClassID: strPtr("class-3")},
		},
	}
}

func TestAggregateTeamOrdering(t *testing.T) {
	in := fixtureInput()
	in.Scores = []model.Score{
		{EventID: "event-1", MakhdoumID: "child-1", Score: 10},
		{EventID: "event-1", MakhdoumID: "child-2", Score: 30},
		{EventID: "event-1", MakhdoumID: "child-3", Score: 20},
	}

	result := Aggregate("event-1", in)
	if len(result.Teams) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(result.Teams))
	}
	wantTotals := []int{30, 20, 10}
	wantNames := []string{"Blue", "Green", "Red"}
	for i := range wantTotals {
		if result.Teams[i].TotalScore != wantTotals[i] {
			t.Fatalf("position %d: expected total %d, got %d", i, wantTotals[i], result.Teams[i].TotalScore)
		}
		if result.Teams[i].Name != wantNames[i] {
			t.Fatalf("position %d: expected team %s, got %s", i, wantNames[i], result.Teams[i].Name)
		}
	}
}

func TestAggregateFiltersByEvent(t *testing.T) {
	in := fixtureInput()
	in.Scores = []model.Score{
		{EventID: "event-1", MakhdoumID: "child-1", Score: 5},
		{EventID: "event-2", MakhdoumID: "child-1", Score: 100},
	}

	result := Aggregate("event-1", in)
	if result.Teams[0].TotalScore != 5 {
		t.Fatalf("expected only event-1 scores counted, got %d", result.Teams[0].TotalScore)
	}
}

func TestAggregateSkipsUnknownChild(t *testing.T) {
	in := fixtureInput()
	in.Scores = []model.Score{
		{EventID: "event-1", MakhdoumID: "child-1", Score: 7},
		{EventID: "event-1", MakhdoumID: "ghost", Score: 50},
	}

	result := Aggregate("event-1", in)
	total := 0
	for _, team := range result.Teams {
		total += team.TotalScore
	}
	if total != 7 {
		t.Fatalf("expected unknown child to be skipped, total %d", total)
	}
	if len(result.Individuals) != 1 {
		t.Fatalf("expected 1 individual, got %d", len(result.Individuals))
	}
}

func TestAggregateChildWithoutTeamStillCountsIndividually(t *testing.T) {
	in := fixtureInput()
	in.Makhdoumeen = append(in.Makhdoumeen, model.Makhdoum{
		ID: "child-4", Code: "MKD-000004", FullName: "Veronia", ClassID: strPtr("class-unassigned"),
	})
	in.Scores = []model.Score{
		{EventID: "event-1", MakhdoumID: "child-4", Score: 9},
	}

	result := Aggregate("event-1", in)
	for _, team := range result.Teams {
		if team.TotalScore != 0 {
			t.Fatalf("expected no team points, team %s has %d", team.Name, team.TotalScore)
		}
	}
	if len(result.Individuals) != 1 || result.Individuals[0].TotalScore != 9 {
		t.Fatalf("expected individual entry with 9 points, got %+v", result.Individuals)
	}
	if result.Individuals[0].ClassName != "Unknown Class" {
		t.Fatalf("expected Unknown Class fallback, got %s", result.Individuals[0].ClassName)
	}
}

func TestAggregateRepeatedScansAccumulate(t *testing.T) {
	in := fixtureInput()
	in.Scores = []model.Score{
		{EventID: "event-1", MakhdoumID: "child-1", Score: 5},
		{EventID: "event-1", MakhdoumID: "child-1", Score: 5},
		{EventID: "event-1", MakhdoumID: "child-1", Score: 5},
	}

	result := Aggregate("event-1", in)
	if result.Teams[0].TotalScore != 15 {
		t.Fatalf("expected repeated scans to add, got %d", result.Teams[0].TotalScore)
	}
	if len(result.Individuals) != 1 || result.Individuals[0].TotalScore != 15 {
		t.Fatalf("expected one individual with 15 points, got %+v", result.Individuals)
	}
	if result.Individuals[0].ClassName != "Primary 1" {
		t.Fatalf("expected class name resolved, got %s", result.Individuals[0].ClassName)
	}
}

func TestAggregateEmptyEventSelection(t *testing.T) {
	in := fixtureInput()
	in.Scores = []model.Score{{EventID: "event-1", MakhdoumID: "child-1", Score: 5}}

	result := Aggregate("", in)
	if len(result.Teams) != 0 || len(result.Individuals) != 0 {
		t.Fatalf("expected empty result without event selection, got %+v", result)
	}
}

func TestAggregateIndividualTopFifty(t *testing.T) {
	in := Input{
		Teams:   []model.Team{{ID: "team-1", Name: "Solo", ClassIDs: []string{"class-1"}}},
		Classes: []model.Class{{ID: "class-1", Name: "Primary 1"}},
	}
	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("child-%02d", i)
		in.Makhdoumeen = append(in.Makhdoumeen, model.Makhdoum{
			ID: id, FullName: id, ClassID: strPtr("class-1"),
		})
		in.Scores = append(in.Scores, model.Score{EventID: "event-1", MakhdoumID: id, Score: i + 1})
	}

	result := Aggregate("event-1", in)
	if len(result.Individuals) != IndividualLimit {
		t.Fatalf("expected top %d individuals, got %d", IndividualLimit, len(result.Individuals))
	}
	if result.Individuals[0].TotalScore != 60 {
		t.Fatalf("expected highest score first, got %d", result.Individuals[0].TotalScore)
	}
	for i := 1; i < len(result.Individuals); i++ {
		if result.Individuals[i].TotalScore > result.Individuals[i-1].TotalScore {
			t.Fatalf("individuals not in descending order at %d", i)
		}
	}
	if result.Individuals[len(result.Individuals)-1].TotalScore != 11 {
		t.Fatalf("expected lowest surviving score 11, got %d", result.Individuals[len(result.Individuals)-1].TotalScore)
	}
}

func TestAggregateTieKeepsSeedOrder(t *testing.T) {
	in := fixtureInput()
	in.Scores = []model.Score{
		{EventID: "event-1", MakhdoumID: "child-1", Score: 10},
		{EventID: "event-1", MakhdoumID: "child-2", Score: 10},
	}

	result := Aggregate("event-1", in)
	if result.Teams[0].Name != "Red" || result.Teams[1].Name != "Blue" {
		t.Fatalf("expected tie to keep creation order, got %s then %s", result.Teams[0].Name, result.Teams[1].Name)
	}
}

func TestAggregateNormalizesEventIDWhitespace(t *testing.T) {
	in := fixtureInput()
	in.Scores = []model.Score{{EventID: " event-1 ", MakhdoumID: "child-1", Score: 4}}

	result := Aggregate("event-1", in)
	if result.Teams[0].TotalScore != 4 {
		t.Fatalf("expected whitespace-normalized match, got %d", result.Teams[0].TotalScore)
	}
}
