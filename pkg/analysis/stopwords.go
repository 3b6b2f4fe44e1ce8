package analysis

// stopWords are excluded from keyword rankings so suggestions are built from
// content-bearing terms only. Vocabulary building keeps them: TF-IDF weighting
// already pushes ubiquitous terms toward zero.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "have": true, "this": true, "that": true, "with": true,
	"from": true, "they": true, "been": true, "were": true, "their": true,
	"will": true, "would": true, "there": true, "what": true,
	"about": true, "which": true, "when": true, "make": true, "like": true,
	"time": true, "just": true, "know": true, "take": true, "into": true,
	"your": true, "some": true, "could": true, "them": true, "other": true,
	"than": true, "then": true, "only": true, "over": true, "also": true,
	"after": true, "these": true, "most": true, "such": true, "where": true,
	"being": true, "more": true, "very": true, "should": true, "because": true,
	"each": true, "between": true, "both": true, "does": true, "here": true,
	"how": true, "its": true, "may": true, "any": true, "using": true,
	"use": true, "used": true,
}

func isStopWord(term string) bool {
	return stopWords[term]
}
