package classifier

// Category weights. Campus-specific terms weigh heaviest because the whole
// service exists for campus safety.
const (
	weightViolent       = 3.0
	weightProperty      = 2.0
	weightDrug          = 2.5
	weightWhiteCollar   = 2.0
	weightCyber         = 2.5
	weightCampus        = 3.5
	weightLegalKeyword  = 0.5
	maxCrimeScore       = 10.0
	confidenceDivisor   = 5.0
	maxConfidenceLevel  = 1.0
)

// keywordCategory is one weighted keyword table.
type keywordCategory struct {
	name     string
	weight   float64
	keywords []string
}

// crimeCategories are the six weighted keyword tables. Matching is
// case-insensitive substring matching with no word-boundary checks; "rape"
// inside a longer word matches. Downstream thresholds depend on these exact
// semantics, so keep them.
var crimeCategories = []keywordCategory{
	{
		name:   "violent_crimes",
		weight: weightViolent,
		keywords: []string{
			"murder", "homicide", "killing", "shot", "shooting", "stabbing",
			"assault", "attack", "violence", "rape", "robbery", "mugging",
			"kidnapping", "abduction", "domestic violence", "gang violence",
			"armed robbery", "gunshot", "knife attack", "fatal shooting",
		},
	},
	{
		name:   "property_crimes",
		weight: weightProperty,
		keywords: []string{
			"theft", "stealing", "burglary", "breaking and entering",
			"vandalism", "arson", "fraud", "embezzlement", "forgery",
			"shoplifting", "car theft", "identity theft",
			"stolen", "robbed", "break-in", "larceny",
		},
	},
	{
		name:   "drug_crimes",
		weight: weightDrug,
		keywords: []string{
			"drug trafficking", "narcotics", "cocaine", "heroin", "methamphetamine",
			"drug bust", "drug seizure", "drug arrest", "substance abuse",
			"illegal drugs", "drug dealing", "drug possession", "marijuana",
			"cannabis", "fentanyl", "opioid", "overdose",
		},
	},
	{
		name:   "white_collar",
		weight: weightWhiteCollar,
		keywords: []string{
			"money laundering", "tax evasion", "securities fraud", "insider trading",
			"corruption", "bribery", "ponzi scheme", "corporate fraud",
			"financial crime", "wire fraud", "bank fraud", "scam",
		},
	},
	{
		name:   "cyber_crimes",
		weight: weightCyber,
		keywords: []string{
			"cybercrime", "hacking", "data breach", "ransomware", "phishing",
			"cyber attack", "online fraud", "internet crime", "malware",
			"identity theft online", "cybersecurity incident", "hack",
		},
	},
	{
		name:   "campus_specific",
		weight: weightCampus,
		keywords: []string{
			"campus crime", "university crime", "college crime", "student safety",
			"campus security", "campus assault", "dorm", "dormitory",
			"fraternity", "sorority", "campus police", "university police",
		},
	},
}

// legalKeywords each add a small bonus per match; they indicate legal-process
// reporting rather than a specific crime category.
var legalKeywords = []string{
	"arrest", "arrested", "charged", "convicted", "sentenced", "indicted",
	"trial", "court", "judge", "jury", "prison", "jail", "custody",
	"police", "investigation", "suspect", "criminal", "crime", "victim",
	"prosecutor", "detective", "officer", "law enforcement",
}
