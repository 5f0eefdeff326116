package engine

// Stock phrase sets. One entry is picked per reply via the engine's
// injected picker so tests can pin the choice.

var dontKnowPhrases = []string{
	"I don't know what that is.",
	"I have no idea.",
	"No idea.",
	"I don't know.",
}

var okayPhrases = []string{
	"OK, got it.",
	"I got it.",
	"Understood.",
	"Gotcha.",
	"OK",
}

var greetingPhrases = []string{
	"Heya, $who!",
	"Hi $who!",
	"Hello, $who",
	"Hello, $who!",
	"Greetings, $who",
}

var ackPhrases = []string{
	"Yes?",
	"Yep?",
	"Yeah?",
}

var alreadyKnowPhrases = []string{
	"I already know that.",
	"I've already got it as that.",
}

// ignoredKeys are pronouns and meta-words that never become factoid
// keys and never trigger "don't know" replies. The list deliberately
// includes "help", "settings" and "status" so that teaching or
// querying them cannot shadow the built-in commands.
var ignoredKeys = map[string]bool{
	"he":       true,
	"help":     true,
	"hers":     true,
	"his":      true,
	"huh":      true,
	"it":       true,
	"it's":     true,
	"its":      true,
	"she":      true,
	"settings": true,
	"status":   true,
	"that":     true,
	"them":     true,
	"there":    true,
	"these":    true,
	"they":     true,
	"this":     true,
	"those":    true,
	"what":     true,
	"when":     true,
	"where":    true,
	"who":      true,
	"why":      true,
}
