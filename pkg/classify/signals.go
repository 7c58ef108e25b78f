package classify

// Signal category names used by the default catalog.
const (
	CategoryExplicit   = "explicit"
	CategoryWarning    = "warning"
	CategorySuggestive = "suggestive"
	CategoryBody       = "body"
	CategoryCommunity  = "community"
)

// DefaultSignals is the baseline tiered signal catalog. Categories are
// ordered strongest first; each carries its own confidence ceiling.
func DefaultSignals() []SignalGroup {
	return []SignalGroup{
		{
			Category: CategoryExplicit,
			Ceiling:  9,
			Phrases: []string{
				"porn", "xxx", "nude", "naked", "nsfw", "explicit",
				"hentai", "fetish", "kink", "bdsm", "gonewild",
				"camgirl", "escort", "erotic", "milf", "strip",
				"masturbation", "orgasm", "hookup",
			},
		},
		{
			Category: CategoryWarning,
			Ceiling:  8,
			Phrases: []string{
				"content warning", "viewer discretion", "mature content",
				"adults only", "adult content", "not safe for work",
				"sexual content", "graphic content", "explicit material",
			},
		},
		{
			Category: CategorySuggestive,
			Ceiling:  6,
			Phrases: []string{
				"sexy", "naughty", "horny", "kinky", "slutty",
				"thirst trap", "rate me", "breeding", "hot wife",
				"barely legal", "seduction", "sensual",
			},
		},
		{
			Category: CategoryBody,
			Ceiling:  5,
			Phrases: []string{
				"lingerie", "bikini", "cleavage", "topless",
				"bottomless", "underwear", "panties", "booty",
			},
		},
		{
			Category: CategoryCommunity,
			Ceiling:  4,
			Phrases: []string{
				"gone wild", "tribute", "verification required",
				"r4r", "personals", "meetup", "kik", "snap me",
			},
		},
	}
}

// DefaultOverrides is the baseline set of high-precision patterns.
// A match forces confidence to the fixed value regardless of tier sums.
func DefaultOverrides() []Override {
	return []Override{
		{
			Name:       "age-marker",
			Confidence: 10,
			Phrases: []string{
				"18+", "over 18", "must be 18", "age verification",
			},
		},
		{
			Name:       "commercial-adult",
			Confidence: 10,
			Phrases: []string{
				"onlyfans", "only fans", "adult entertainment",
				"buy my content", "selling content", "paid dms",
			},
		},
	}
}
