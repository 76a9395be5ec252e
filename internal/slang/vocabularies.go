package slang

// Entry is a single slang token and its plain-language replacement.
type Entry struct {
	Token       string
	Replacement string
}

// Vocabulary is a named, ordered set of slang entries.
type Vocabulary struct {
	Name    string
	Entries []Entry
}

// TwitchEmotes covers platform emotes that carry an emotional tone.
var TwitchEmotes = Vocabulary{
	Name: "twitch",
	Entries: []Entry{
		{"Kappa", ":)"},
		{"PogChamp", ":O"},
		{"LUL", ":D"},
		{"TriHard", ":)"},
		{"BibleThump", ":("},
		{"ResidentSleeper", ":|"},
		{"Jebaited", ":P"},
		{"Kreygasm", ":D"},
		{"NotLikeThis", ":("},
		{"HeyGuys", "Hello"},
		{"monkaS", ":/"},
		{"KEKW", ":D"},
		{"PepeHands", ":("},
		{"POGGERS", ":O"},
		{"4Head", ":D"},
		{"5Head", ":)"},
		{"DansGame", ":("},
		{"WutFace", ":O"},
		{"SwiftRage", ">:("},
		{"BabyRage", ":("},
	},
}

// AMPSlang covers Kai Cenat / AMP community slang.
var AMPSlang = Vocabulary{
	Name: "amp",
	Entries: []Entry{
		{"Rizz", "charisma"},
		{"GYATT", "god damn"},
		{"Unspoken Rizz", "natural charm"},
		{"AMP", "Any Means Possible"},
	},
}

// FaZeSlang covers FaZe Clan community slang.
var FaZeSlang = Vocabulary{
	Name: "faze",
	Entries: []Entry{
		{"FaZe Up", "pride"},
		{"Trickshotting", "complex gaming move"},
		{"Sniping", "long-range shooting"},
	},
}

// LeagueSlang covers League of Legends jargon.
var LeagueSlang = Vocabulary{
	Name: "league",
	Entries: []Entry{
		{"GG", "good game"},
		{"FF", "forfeit"},
		{"MIA", "missing in action"},
		{"Gank", "surprise attack"},
		{"Farm", "killing minions"},
		{"Carry", "leading player"},
		{"Support", "assisting teammate"},
		{"Tank", "damage absorber"},
		{"DPS", "damage per second"},
		{"CC", "crowd control"},
	},
}

// DefaultVocabularies is the merge order used by DefaultTable. Later
// vocabularies win on key collisions.
var DefaultVocabularies = []Vocabulary{
	TwitchEmotes,
	AMPSlang,
	FaZeSlang,
	LeagueSlang,
}
