package game

// Character keys.
const (
	Tim           = "tim"
	Pauline       = "pauline"
	Fiona         = "fiona"
	Ronnie        = "ronnie"
	Tutor         = "tutor"
	Narrator      = "narrator"
	Director      = "director"
	Lexicographer = "lexicographer"
)

// Culprit is the suspect whose accusation wins the game.
const Culprit = Tim

// TotalClues is the number of evidence items in the case file.
const TotalClues = 4

// Character describes a speaking role.
type Character struct {
	Key      string
	FullName string
	Emoji    string
}

var characters = map[string]Character{
	Tim:           {Key: Tim, FullName: "Tim Kane", Emoji: "📚"},
	Pauline:       {Key: Pauline, FullName: "Pauline Thompson", Emoji: "💼"},
	Fiona:         {Key: Fiona, FullName: "Fiona McAllister", Emoji: "💔"},
	Ronnie:        {Key: Ronnie, FullName: "Ronnie Snapper", Emoji: "😎"},
	Tutor:         {Key: Tutor, FullName: "English Tutor", Emoji: "🧑‍🏫"},
	Narrator:      {Key: Narrator, FullName: "Narrator", Emoji: "🎙️"},
	Director:      {Key: Director, FullName: "Director", Emoji: "🎬"},
	Lexicographer: {Key: Lexicographer, FullName: "Lexicographer", Emoji: "📖"},
}

// SuspectKeys lists the suspects in menu order.
var SuspectKeys = []string{Tim, Pauline, Fiona, Ronnie}

// LookupCharacter returns the character registered under key.
func LookupCharacter(key string) (Character, bool) {
	c, ok := characters[key]
	return c, ok
}

// IsSuspect reports whether key names one of the suspects.
func IsSuspect(key string) bool {
	for _, s := range SuspectKeys {
		if s == key {
			return true
		}
	}
	return false
}

// Suspects returns the suspects in menu order.
func Suspects() []Character {
	out := make([]Character, 0, len(SuspectKeys))
	for _, k := range SuspectKeys {
		out = append(out, characters[k])
	}
	return out
}
