package normalize

// Shape is the structural variant of an athlete payload.
type Shape string

const (
	// ShapeUnknown is any payload that is not a recognized variant. It is
	// the "no data yet" state and normalizes to an empty list.
	ShapeUnknown Shape = "unknown"
	// ShapeFlat is a list of athlete objects.
	ShapeFlat Shape = "flat"
	// ShapeGrouped is a list of position groups, each with an items list.
	ShapeGrouped Shape = "grouped"
	// ShapeNested is an object holding the athlete list under items or athletes.
	ShapeNested Shape = "nested"
	// ShapeRefList is a list of {"$ref": url} links to per-athlete resources.
	ShapeRefList Shape = "ref_list"
	// ShapeScraped is a list of rows scraped from an HTML roster table.
	ShapeScraped Shape = "scraped"
)

// ScrapedRow is one roster row read from an HTML table.
type ScrapedRow struct {
	Name     string
	Number   string
	Position string
	Hometown string
	Class    string
}

// DetectAthleteShape classifies payload without normalizing it.
func DetectAthleteShape(payload any) Shape {
	switch typed := payload.(type) {
	case []ScrapedRow:
		return ShapeScraped
	case []any:
		return detectList(typed)
	case map[string]any:
		if items, ok := typed["items"].([]any); ok {
			if detectList(items) == ShapeRefList {
				return ShapeRefList
			}
			return ShapeNested
		}
		if _, ok := typed["athletes"].([]any); ok {
			return ShapeNested
		}
		return ShapeUnknown
	default:
		return ShapeUnknown
	}
}

func detectList(items []any) Shape {
	if len(items) == 0 {
		return ShapeFlat
	}
	var first map[string]any
	for _, item := range items {
		if first = asMap(item); first != nil {
			break
		}
	}
	if first == nil {
		return ShapeUnknown
	}
	if _, ok := first["items"].([]any); ok {
		return ShapeGrouped
	}
	if isRefOnly(first) {
		return ShapeRefList
	}
	return ShapeFlat
}

func isRefOnly(m map[string]any) bool {
	ref := String(m, "$ref")
	if ref == "" {
		return false
	}
	return String(m, "displayName", "fullName", "name") == ""
}
