package domain

// RequestKind identifies one of the content-generation actions.
type RequestKind string

const (
	KindInspiration RequestKind = "inspiration"
	KindTip         RequestKind = "tips"
	KindHealing     RequestKind = "healing"
	KindFortune     RequestKind = "fortune"
)

// Kinds lists every request kind in panel order.
var Kinds = []RequestKind{KindInspiration, KindTip, KindHealing, KindFortune}

var kindLabels = map[RequestKind]string{
	KindInspiration: "灵感推荐",
	KindTip:         "生活妙招",
	KindHealing:     "心情小屋",
	KindFortune:     "今日运势",
}

// ParseKind maps a raw kind name to a RequestKind.
func ParseKind(raw string) (RequestKind, error) {
	k := RequestKind(raw)
	if _, ok := kindLabels[k]; !ok {
		return "", ErrUnknownKind
	}
	return k, nil
}

// Label returns the user-facing name of the kind.
func (k RequestKind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return string(k)
}

// Theme is the session's display theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark".
func ParseTheme(raw string) (Theme, bool) {
	switch Theme(raw) {
	case ThemeLight, ThemeDark:
		return Theme(raw), true
	default:
		return "", false
	}
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Selection holds the user's current picks. It is read once per request
// and never stored.
type Selection struct {
	Scenario string `json:"scenario"`
	Mood     string `json:"mood"`
	Zodiac   string `json:"zodiac"`
	Issue    string `json:"issue"`
}

// HistoryEntry is one recorded prompt/response pair.
type HistoryEntry struct {
	ID        string      `json:"id"`
	Kind      RequestKind `json:"kind"`
	Prompt    string      `json:"prompt"`
	Response  string      `json:"response"`
	Timestamp string      `json:"timestamp"`
}

// TimestampLayout is the format used for HistoryEntry.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Catalog lists the values offered by the selectors.
type Catalog struct {
	Scenarios []string `json:"scenarios" yaml:"scenarios"`
	Moods     []string `json:"moods" yaml:"moods"`
	Zodiac    []string `json:"zodiac" yaml:"zodiac"`
}

// Validate checks that every non-empty field of sel is offered by the catalog.
func (c Catalog) Validate(sel Selection) error {
	if !contains(c.Scenarios, sel.Scenario) || !contains(c.Moods, sel.Mood) || !contains(c.Zodiac, sel.Zodiac) {
		return ErrInvalidSelection
	}
	return nil
}

// Default returns the first value of each selector.
func (c Catalog) Default() Selection {
	var sel Selection
	if len(c.Scenarios) > 0 {
		sel.Scenario = c.Scenarios[0]
	}
	if len(c.Moods) > 0 {
		sel.Mood = c.Moods[0]
	}
	if len(c.Zodiac) > 0 {
		sel.Zodiac = c.Zodiac[0]
	}
	return sel
}

func contains(values []string, v string) bool {
	if v == "" {
		return true
	}
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
