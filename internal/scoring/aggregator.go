// Package scoring computes event leaderboards from the append-only score
// log. Scores reference events and children, never teams: team membership
// is resolved through the class→team mapping at computation time, so
// reassigning a class between events retroactively moves its children's
// points to the new team.
package scoring

import (
	"sort"
	"strings"

	"github.com/george-michael9/Abrar-system/internal/model"
)

type TeamStanding struct {
	TeamID       string   `json:"teamId"`
	Name         string   `json:"teamName"`
	Motto        string   `json:"motto"`
	Icon         string   `json:"icon"`
	PrimaryColor string   `json:"primaryColor"`
	ClassIDs     []string `json:"classIds"`
	TotalScore   int      `json:"totalScore"`
}

type IndividualStanding struct {
	MakhdoumID string `json:"makhdoumId"`
	Code       string `json:"makhdoumCode"`
	FullName   string `json:"fullName"`
	ClassName  string `json:"className"`
	TotalScore int    `json:"totalScore"`
}

type Input struct {
	Scores      []model.Score
	Teams       []model.Team
	Makhdoumeen []model.Makhdoum
	Classes     []model.Class
}

type Result struct {
	Teams       []TeamStanding       `json:"teams"`
	Individuals []IndividualStanding `json:"individuals"`
}

// IndividualLimit caps the individual leaderboard.
const IndividualLimit = 50

// Aggregate computes team and individual standings for one event.
//
// Every team appears in the result, zero-scored teams included, seeded in
// input order. A score record is skipped silently when its child cannot be
// resolved; a resolved child whose class belongs to no team still counts
// toward the individual standings. Ties keep their seed order (teams) or
// first-appearance order (individuals).
func Aggregate(eventID string, in Input) Result {
	if strings.TrimSpace(eventID) == "" {
		return Result{}
	}

	standings := make([]TeamStanding, 0, len(in.Teams))
	teamIndex := make(map[string]int, len(in.Teams))
	for i, team := range in.Teams {
		standings = append(standings, TeamStanding{
			TeamID:       team.ID,
			Name:         team.Name,
			Motto:        team.Motto,
			Icon:         team.Icon,
			PrimaryColor: team.PrimaryColor,
			ClassIDs:     team.ClassIDs,
		})
		teamIndex[team.ID] = i
	}

	childByID := make(map[string]model.Makhdoum, len(in.Makhdoumeen))
	for _, makhdoum := range in.Makhdoumeen {
		childByID[normalizeID(makhdoum.ID)] = makhdoum
	}
	classNameByID := make(map[string]string, len(in.Classes))
	for _, class := range in.Classes {
		classNameByID[class.ID] = class.Name
	}

	var individuals []IndividualStanding
	individualIndex := make(map[string]int)

	want := normalizeID(eventID)
	for _, record := range in.Scores {
		if normalizeID(record.EventID) != want {
			continue
		}

		makhdoum, ok := childByID[normalizeID(record.MakhdoumID)]
		if !ok {
			continue
		}

		if makhdoum.ClassID != nil {
			if team := findTeamByClass(in.Teams, *makhdoum.ClassID); team != nil {
				standings[teamIndex[team.ID]].TotalScore += record.Score
			}
		}

		idx, ok := individualIndex[makhdoum.ID]
		if !ok {
			className := "Unknown Class"
			if makhdoum.ClassID != nil {
				if name, ok := classNameByID[*makhdoum.ClassID]; ok {
					className = name
				}
			}
			individuals = append(individuals, IndividualStanding{
				MakhdoumID: makhdoum.ID,
				Code:       makhdoum.Code,
				FullName:   makhdoum.FullName,
				ClassName:  className,
			})
			idx = len(individuals) - 1
			individualIndex[makhdoum.ID] = idx
		}
		individuals[idx].TotalScore += record.Score
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].TotalScore > standings[j].TotalScore
	})
	sort.SliceStable(individuals, func(i, j int) bool {
		return individuals[i].TotalScore > individuals[j].TotalScore
	})
	if len(individuals) > IndividualLimit {
		individuals = individuals[:IndividualLimit]
	}

	return Result{Teams: standings, Individuals: individuals}
}

func findTeamByClass(teams []model.Team, classID string) *model.Team {
	for i := range teams {
		for _, id := range teams[i].ClassIDs {
			if id == classID {
				return &teams[i]
			}
		}
	}
	return nil
}

// normalizeID canonicalizes an id before comparison. Ids are uuid strings
// everywhere in this system; trimming keeps scanned payloads with stray
// whitespace from missing their records.
func normalizeID(id string) string {
	return strings.TrimSpace(id)
}
