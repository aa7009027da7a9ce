package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/george-michael9/Abrar-system/internal/model"
	"github.com/george-michael9/Abrar-system/internal/scoring"
)

func TestLeaderboardWorkbook(t *testing.T) {
	result := scoring.Result{
		Teams: []scoring.TeamStanding{
			{Name: "Blue", Motto: "Onward", ClassIDs: []string{"c1", "c2"}, TotalScore: 30},
			{Name: "Red", TotalScore: 10},
		},
		Individuals: []scoring.IndividualStanding{
			{Code: "MKD-000002", FullName: "Mariam", ClassName: "Primary 2", TotalScore: 30},
		},
	}

	raw, err := LeaderboardWorkbook(result)
	if err != nil {
		t.Fatalf("workbook error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Teams", "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "Blue" {
		t.Fatalf("expected Blue in first rank row, got %q", got)
	}
	got, err = f.GetCellValue("Individuals", "C2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "Mariam" {
		t.Fatalf("expected Mariam, got %q", got)
	}
}

func TestWorkbookRaggedRows(t *testing.T) {
	raw, err := Workbook([]Sheet{{
		Title:  "Ragged",
		Header: []string{"A", "B", "C"},
		Rows:   [][]string{{"only one cell"}, {"two", "cells"}},
	}})
	if err != nil {
		t.Fatalf("workbook error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Ragged", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "only one cell" {
		t.Fatalf("expected short row to survive, got %q", got)
	}
}

func TestRosterWorkbook(t *testing.T) {
	classID := "class-1"
	raw, err := RosterWorkbook(
		[]model.Makhdoum{{Code: "MKD-000001", FullName: "Youssef", ClassID: &classID, IsActive: true}},
		[]model.Class{{ID: classID, Name: "Primary 1"}},
	)
	if err != nil {
		t.Fatalf("workbook error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Makhdoumeen", "D2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "Primary 1" {
		t.Fatalf("expected class name, got %q", got)
	}
}
