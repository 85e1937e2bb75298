package normalize

import (
	"strings"

	"github.com/riskibarqy/hoops-hub/internal/domain/athlete"
)

const coreHeadshotBase = "https://a.espncdn.com/i/headshots/mens-college-basketball/players/full/"

// Athletes normalizes any recognized athlete payload into canonical records.
// Unknown shapes yield an empty, non-nil list.
func Athletes(payload any) []athlete.Athlete {
	switch DetectAthleteShape(payload) {
	case ShapeFlat:
		return flatAthletes(asSlice(payload))
	case ShapeGrouped:
		return flatAthletes(flattenGroups(asSlice(payload)))
	case ShapeNested:
		m := asMap(payload)
		inner, ok := m["items"]
		if !ok {
			inner = m["athletes"]
		}
		return Athletes(inner)
	case ShapeRefList:
		return refAthletes(RefIDs(payload))
	case ShapeScraped:
		rows, _ := payload.([]ScrapedRow)
		return scrapedAthletes(rows)
	default:
		return []athlete.Athlete{}
	}
}

// RefIDs extracts athlete ids from a reference list, in order. Entries
// without a usable id are skipped.
func RefIDs(payload any) []string {
	items := asSlice(payload)
	if items == nil {
		items = DigSlice(payload, "items")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		ref := String(item, "$ref", "href")
		if id := LastPathSegment(ref); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// CoreAthlete builds an athlete from a core API athlete resource. A nil
// detail yields an id-only record so the roster keeps its order.
func CoreAthlete(id string, detail any) athlete.Athlete {
	a := athlete.Athlete{
		ID:              firstNonEmpty(String(detail, "id"), id),
		Name:            String(detail, "displayName", "shortName", "fullName"),
		Position:        position(detail),
		JerseyNumber:    String(detail, "jersey"),
		HeadshotURL:     StringAt(detail, "headshot", "href"),
		Hometown:        joinPlace(detail),
		ExperienceClass: experience(detail),
	}
	if a.HeadshotURL == "" {
		a.HeadshotURL = coreHeadshotBase + a.ID + ".png"
	}
	return a
}

func flattenGroups(groups []any) []any {
	out := make([]any, 0, len(groups)*4)
	for _, g := range groups {
		out = append(out, DigSlice(g, "items")...)
	}
	return out
}

func flatAthletes(items []any) []athlete.Athlete {
	out := make([]athlete.Athlete, 0, len(items))
	for _, item := range items {
		if asMap(item) == nil {
			continue
		}
		out = append(out, SiteAthlete(item))
	}
	return out
}

// SiteAthlete maps one athlete object from the primary API. String fields
// follow fixed priority chains; a missing headshot gets a placeholder.
func SiteAthlete(item any) athlete.Athlete {
	id := String(item, "id")
	name := String(item, "displayName", "fullName", "name")
	headshot := firstNonEmpty(
		StringAt(item, "headshot", "href"),
		StringAt(item, "headshot", "url"),
		String(item, "headshot"),
	)
	if headshot == "" {
		headshot = athlete.PlaceholderHeadshot(firstNonEmpty(name, id))
	}
	return athlete.Athlete{
		ID:              id,
		Name:            name,
		Position:        position(item),
		JerseyNumber:    String(item, "jersey", "uniform", "number"),
		Hometown:        firstNonEmpty(String(item, "homeTown", "hometown"), joinPlace(item)),
		HeadshotURL:     headshot,
		ExperienceClass: experience(item),
	}
}

func refAthletes(ids []string) []athlete.Athlete {
	out := make([]athlete.Athlete, 0, len(ids))
	for _, id := range ids {
		out = append(out, CoreAthlete(id, nil))
	}
	return out
}

func scrapedAthletes(rows []ScrapedRow) []athlete.Athlete {
	out := make([]athlete.Athlete, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		out = append(out, athlete.Athlete{
			ID:              name,
			Name:            name,
			Position:        strings.TrimSpace(row.Position),
			JerseyNumber:    strings.TrimSpace(row.Number),
			Hometown:        strings.TrimSpace(row.Hometown),
			ExperienceClass: strings.TrimSpace(row.Class),
			HeadshotURL:     athlete.PlaceholderHeadshot(name),
		})
	}
	return out
}

func position(item any) string {
	return firstNonEmpty(
		StringAt(item, "position", "abbreviation"),
		StringAt(item, "position", "displayName"),
		String(item, "position"),
	)
}

func experience(item any) string {
	return firstNonEmpty(
		StringAt(item, "experience", "displayValue"),
		StringAt(item, "experience", "abbreviation"),
		String(item, "class", "experience"),
	)
}

func joinPlace(item any) string {
	parts := make([]string, 0, 2)
	for _, key := range []string{"city", "state"} {
		if v := StringAt(item, "birthPlace", key); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}
