package normalize

// englishStopwords is the standard English stopword set applied before
// stemming. It mirrors the classic NLTK list; tokens are matched after
// punctuation stripping and case folding, so contracted forms appear here
// without apostrophes (e.g. "dont", "wasnt").
var englishStopwords = map[string]struct{}{
	"i": {}, "me": {}, "my": {}, "myself": {}, "we": {}, "our": {},
	"ours": {}, "ourselves": {}, "you": {}, "your": {}, "yours": {},
	"yourself": {}, "yourselves": {}, "he": {}, "him": {}, "his": {},
	"himself": {}, "she": {}, "her": {}, "hers": {}, "herself": {},
	"it": {}, "its": {}, "itself": {}, "they": {}, "them": {},
	"their": {}, "theirs": {}, "themselves": {}, "what": {}, "which": {},
	"who": {}, "whom": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "am": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"having": {}, "do": {}, "does": {}, "did": {}, "doing": {}, "a": {},
	"an": {}, "the": {}, "and": {}, "but": {}, "if": {}, "or": {},
	"because": {}, "as": {}, "until": {}, "while": {}, "of": {},
	"at": {}, "by": {}, "for": {}, "with": {}, "about": {},
	"against": {}, "between": {}, "into": {}, "through": {},
	"during": {}, "before": {}, "after": {}, "above": {}, "below": {},
	"to": {}, "from": {}, "up": {}, "down": {}, "in": {}, "out": {},
	"on": {}, "off": {}, "over": {}, "under": {}, "again": {},
	"further": {}, "then": {}, "once": {}, "here": {}, "there": {},
	"when": {}, "where": {}, "why": {}, "how": {}, "all": {}, "any": {},
	"both": {}, "each": {}, "few": {}, "more": {}, "most": {},
	"other": {}, "some": {}, "such": {}, "no": {}, "nor": {},
	"not": {}, "only": {}, "own": {}, "same": {}, "so": {}, "than": {},
	"too": {}, "very": {}, "s": {}, "t": {}, "can": {}, "will": {},
	"just": {}, "don": {}, "dont": {}, "should": {}, "now": {},
	"d": {}, "ll": {}, "m": {}, "o": {}, "re": {}, "ve": {}, "y": {},
	"ain": {}, "aint": {}, "aren": {}, "arent": {}, "couldn": {},
	"couldnt": {}, "didn": {}, "didnt": {}, "doesn": {}, "doesnt": {},
	"hadn": {}, "hadnt": {}, "hasn": {}, "hasnt": {}, "haven": {},
	"havent": {}, "isn": {}, "isnt": {}, "ma": {}, "mightn": {},
	"mightnt": {}, "mustn": {}, "mustnt": {}, "needn": {},
	"neednt": {}, "shan": {}, "shant": {}, "shouldn": {},
	"shouldnt": {}, "wasn": {}, "wasnt": {}, "weren": {},
	"werent": {}, "won": {}, "wont": {}, "wouldn": {}, "wouldnt": {},
}

// IsStopword reports whether a lowercase token is in the standard English
// stopword set. Exposed for the vectorizer, which layers a corpus-specific
// list on top of this one.
func IsStopword(token string) bool {
	_, ok := englishStopwords[token]
	return ok
}
