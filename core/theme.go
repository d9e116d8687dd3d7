package core

// A Theme classifies a group. The wire value is the two-letter code.
type Theme string

const (
	General    Theme = "GE"
	Music      Theme = "MU"
	Space      Theme = "SP" // the code also used to stand for Sport, the label reads Space
	Television Theme = "TV"
	Politics   Theme = "PL"
	Health     Theme = "HE"
)

// Themes in display order.
var Themes = []Theme{General, Music, Space, Television, Politics, Health}

func (t Theme) String() string {
	switch t {
	case General:
		return "General"
	case Music:
		return "Music"
	case Space:
		return "Space"
	case Television:
		return "Television"
	case Politics:
		return "Politics"
	case Health:
		return "Health"
	}
	return "unknown"
}

func (t Theme) Valid() bool {
	switch t {
	case General, Music, Space, Television, Politics, Health:
		return true
	default:
		return false
	}
}
