package app

import "github.com/randomtoy/tarot-studio/internal/domain"

// Canned text used by the reading engine. Rules are data so that the sentence
// a given card or position produces can be inspected directly.

var positionInsights = map[string]string{
	"past":      "This card reveals a past experience that still shapes the present.",
	"present":   "This is the central issue that needs your attention right now.",
	"future":    "This points to a likely direction and the trend that lies ahead.",
	"challenge": "This is the main challenge you need to face and overcome.",
	"advice":    "This is important guidance being offered to you.",
}

const defaultPositionInsight = "In this position the card provides guidance worth heeding."

// arcanaInsights take the card's canonical name.
var arcanaInsights = map[domain.Arcana]string{
	domain.Major: "As a major arcana card, %s speaks of an important life lesson and a chance for spiritual growth.",
	domain.Minor: "As a minor arcana card, %s concerns the concrete matters and practical steps of daily life.",
}

const reversedInsight = "Appearing reversed, it asks for introspection or points to blocked energy that needs attention."

var arcanaLabels = map[domain.Arcana]string{
	domain.Major: "major arcana",
	domain.Minor: "minor arcana",
}

// Key message templates take the card's first keyword.
const (
	uprightMessage  = "Embrace the power of %s"
	reversedMessage = "Look at the inner blocks around %s"
)

var positionMessages = map[string]string{
	"challenge": "This is a chance to grow",
	"advice":    "An important direction to follow",
}

var numerologyThemes = map[int]string{
	1:  "The energy of new beginnings",
	2:  "Balance and cooperation",
	3:  "Creativity and expression",
	4:  "Stability and building",
	5:  "Change and freedom",
	6:  "Harmony and responsibility",
	7:  "Spirit and reflection",
	8:  "Achievement and strength",
	9:  "Completion and wisdom",
	10: "Cycles and transformation",
}

// Energy allow-lists are keyed by canonical card name. Reversal demotes to neutral.
var (
	positiveCards = map[string]bool{
		"The Sun": true, "The Star": true, "The World": true,
		"Strength": true, "The Magician": true, "The Empress": true,
	}
	negativeCards = map[string]bool{
		"The Tower": true, "Death": true, "The Devil": true, "The Hanged Man": true,
	}
)

// Relevance scoring vocabulary.
var (
	loveWords         = []string{"love", "relationship", "romance", "partner", "爱情", "感情"}
	careerWords       = []string{"career", "job", "work", "business", "事业", "工作"}
	relationshipCards = map[string]bool{"The Lovers": true, "The Empress": true, "The Emperor": true}
	careerSuits       = map[domain.Suit]bool{domain.Pentacles: true, domain.Wands: true}
)

const (
	baseRelevance    = 0.5
	keywordRelevance = 0.2
	topicRelevance   = 0.3
	maxRelevance     = 1.0
)

const defaultTheme = "life growth and transformation"

var suitThemes = map[domain.Suit]string{
	domain.Cups:      "emotion/relationships",
	domain.Wands:     "action/creation",
	domain.Swords:    "thought/communication",
	domain.Pentacles: "material/practice",
}

const (
	majorInsight     = "This reading touches on a significant life lesson and spiritual growth."
	reversedMajority = "More introspection is needed; look at what is blocking you from within."
)

type pairRule struct {
	first, second string
	text          string
}

var pairInsights = []pairRule{
	{"Death", "The Sun", "A major transformation will be followed by a new beginning and renewed hope."},
	{"The Lovers", "The World", "A relationship or choice is heading for a fulfilling conclusion."},
}

// cardRule fires when any of the named cards is in the hand.
type cardRule struct {
	anyOf []string
	text  string
}

var cardWarnings = []cardRule{
	{[]string{"The Tower"}, "Sudden change may be coming; prepare yourself for it."},
	{[]string{"The Devil"}, "Beware of being trapped by temptation or negative emotions."},
}

const (
	reversedMajorLimit   = 2
	reversedMajorWarning = "Important life lessons may be going unnoticed; take another look."
)

var cardOpportunities = []cardRule{
	{[]string{"The Magician"}, "You have every tool and ability needed to reach your goals."},
	{[]string{"The Star"}, "Hope and inspiration will light the way forward."},
	{[]string{"Ace of Wands", "Ace of Pentacles"}, "New beginnings and opportunities are emerging."},
}

var energySummaries = map[domain.Energy]string{
	domain.Positive: "The overall energy is uplifting and points to a promising path.",
	domain.Negative: "You face some challenges now, and they are also a chance to grow and change.",
	domain.Mixed:    "The energy is a complex mix; balance the different forces at play.",
	domain.Neutral:  "The energy is steady, suited to reflection and measured progress.",
}

var energyAdvice = map[domain.Energy]string{
	domain.Positive: "Seize the positive opportunities in front of you and move forward with courage",
	domain.Negative: "Stay patient and treat the challenges as a chance to grow",
	domain.Mixed:    "Keep your balance; act with energy but think with care",
	domain.Neutral:  "Keep a calm mind and listen to your intuition",
}

var themeAdvice = map[string]string{
	"emotion/relationships": "Stay sincere and open-hearted in your relationships",
	"action/creation":       "Turn ideas into action and let your creativity work",
	"thought/communication": "Express your thoughts clearly and analyse problems rationally",
	"material/practice":     "Focus on practical action and building on solid ground",
}

const closingDisclaimer = "Remember, tarot offers guidance and inspiration; the final choice is always yours. Trust your intuition and walk your own path."
