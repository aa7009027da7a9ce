package export

import (
	"strconv"

	"github.com/george-michael9/Abrar-system/internal/model"
	"github.com/george-michael9/Abrar-system/internal/scoring"
)

// RosterWorkbook builds the makhdoumeen roster export, one row per child.
func RosterWorkbook(makhdoumeen []model.Makhdoum, classes []model.Class) ([]byte, error) {
	classNames := make(map[string]string, len(classes))
	for _, class := range classes {
		classNames[class.ID] = class.Name
	}

	rows := make([][]string, 0, len(makhdoumeen))
	for _, m := range makhdoumeen {
		className := ""
		if m.ClassID != nil {
			className = classNames[*m.ClassID]
		}
		dob := ""
		if m.DateOfBirth != nil {
			dob = m.DateOfBirth.Format("2006-01-02")
		}
		active := "yes"
		if !m.IsActive {
			active = "no"
		}
		rows = append(rows, []string{
			m.Code,
			m.FullName,
			dob,
			className,
			deref(m.MotherName),
			deref(m.MotherPhone),
			deref(m.FatherName),
			deref(m.FatherPhone),
			deref(m.EmergencyContact),
			deref(m.Area),
			active,
		})
	}

	return Workbook([]Sheet{{
		Title:  "Makhdoumeen",
		Header: []string{"Code", "Full Name", "Date of Birth", "Class", "Mother", "Mother Phone", "Father", "Father Phone", "Emergency Contact", "Area", "Active"},
		Rows:   rows,
	}})
}

// LeaderboardWorkbook builds the standings export for one event: a team
// sheet and an individual sheet.
func LeaderboardWorkbook(result scoring.Result) ([]byte, error) {
	teamRows := make([][]string, 0, len(result.Teams))
	for i, team := range result.Teams {
		teamRows = append(teamRows, []string{
			strconv.Itoa(i + 1),
			team.Name,
			team.Motto,
			strconv.Itoa(len(team.ClassIDs)),
			strconv.Itoa(team.TotalScore),
		})
	}

	individualRows := make([][]string, 0, len(result.Individuals))
	for i, child := range result.Individuals {
		individualRows = append(individualRows, []string{
			strconv.Itoa(i + 1),
			child.Code,
			child.FullName,
			child.ClassName,
			strconv.Itoa(child.TotalScore),
		})
	}

	return Workbook([]Sheet{
		{
			Title:  "Teams",
			Header: []string{"Rank", "Team", "Motto", "Classes", "Total Score"},
			Rows:   teamRows,
		},
		{
			Title:  "Individuals",
			Header: []string{"Rank", "Code", "Full Name", "Class", "Total Score"},
			Rows:   individualRows,
		},
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
