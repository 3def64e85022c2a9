package anonymizer

import "regexp"

// Category identifies one class of personally identifiable content.
type Category string

const (
	CategoryName     Category = "name"
	CategoryEmail    Category = "email"
	CategoryPhone    Category = "phone"
	CategoryDate     Category = "date"
	CategoryCity     Category = "city"
	CategoryAddress  Category = "address"
	CategoryPostal   Category = "postal"
	CategoryPersonal Category = "personal"
	CategoryCompany  Category = "company"
)

// Rule replaces every match of Pattern with Placeholder and records the
// match under Category.
type Rule struct {
	Category    Category
	Placeholder string
	Pattern     *regexp.Regexp
}

// Rules is the full anonymizer vocabulary. The PII list is a single ordered
// pass: earlier rules run first and consume their matches before later rules
// see the text. Names must run before the date and postal rules so that
// digit-group matchers cannot partially consume overlapping sequences.
type Rules struct {
	PII []Rule

	// Sentiment maps keywords/phrases to scores; fallback word lists apply
	// only when no map entry matched.
	Sentiment        map[string]float64
	PositiveFallback []string
	NegativeFallback []string

	// ActivityKeywords synthesize tags from plain-text mentions.
	ActivityKeywords []string

	// Recommendations per detected category, used by Validate.
	Recommendations map[Category]string
}

// GermanRules is the default locale vocabulary. The lists are swappable
// configuration; nothing outside this file assumes a specific locale.
func GermanRules() Rules {
	return Rules{
		PII: []Rule{
			{CategoryName, "[NAME]", regexp.MustCompile(`(?i)\b(Michael|Andreas|Thomas|Stefan|Markus|Christian|Matthias|Alexander|Daniel|Martin|Peter|Klaus|Wolfgang|Jürgen|Günther|Frank|Bernd|Rainer|Hans|Uwe|Dieter|Anna|Maria|Elisabeth|Ursula|Monika|Christa|Ingrid|Helga|Renate|Gisela|Barbara|Brigitte|Andrea|Sabine|Petra|Gabriele|Claudia|Angelika|Susanne|Birgit|Karin|Julia|Sandra|Nicole|Stefanie|Christina|Katrin|Silke|Martina|Jennifer|Lisa|Nina|Melanie|Sarah|Laura|Katharina)\b`)},
			{CategoryEmail, "[EMAIL]", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
			{CategoryPhone, "[PHONE]", regexp.MustCompile(`\b(?:\+49|0049|0)\s?(?:\(0\))?\s?[1-9]\d{1,4}\s?\d{1,8}\b`)},
			{CategoryDate, "[DATE]", regexp.MustCompile(`\b(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})\b`)},
			{CategoryDate, "[DATE]", regexp.MustCompile(`\b(\d{2,4})[./-](\d{1,2})[./-](\d{1,2})\b`)},
			{CategoryCity, "[CITY]", regexp.MustCompile(`(?i)\b(Berlin|Hamburg|München|Köln|Frankfurt|Stuttgart|Düsseldorf|Dortmund|Essen|Leipzig|Bremen|Dresden|Hannover|Nürnberg|Duisburg|Bochum|Wuppertal|Bielefeld|Bonn|Münster|Karlsruhe|Mannheim|Augsburg|Wiesbaden|Gelsenkirchen|Mönchengladbach|Braunschweig|Chemnitz|Kiel|Aachen|Halle|Magdeburg|Freiburg|Krefeld|Lübeck|Oberhausen|Erfurt|Mainz|Rostock|Kassel|Hagen|Hamm|Saarbrücken|Mülheim|Potsdam|Ludwigshafen|Oldenburg|Leverkusen|Osnabrück|Solingen|Heidelberg|Herne|Neuss|Darmstadt|Paderborn|Regensburg|Ingolstadt|Würzburg|Fürth|Wolfsburg|Offenbach|Ulm|Heilbronn|Pforzheim|Göttingen|Bottrop|Trier|Recklinghausen|Reutlingen|Bremerhaven|Koblenz|Jena|Remscheid|Erlangen|Moers|Siegen|Hildesheim|Salzgitter)\b`)},
			{CategoryAddress, "[ADDRESS]", regexp.MustCompile(`(?i)\b\w+(?:straße|str\.|strasse|weg|platz|ring|allee|damm|chaussee|gasse)\s*\d+[a-z]?\b`)},
			{CategoryPostal, "[PLZ]", regexp.MustCompile(`\b\d{5}\b`)},
			{CategoryPersonal, "[PERSON]", regexp.MustCompile(`(?i)\bmein\w*\s+(name|partner|freund|freundin|mann|frau|kind|sohn|tochter|mutter|vater|oma|opa|chef|kollege|kollegin|arzt|ärztin|therapeut|therapeutin)\b`)},
			{CategoryCompany, "[COMPANY]", regexp.MustCompile(`(?i)\b(firma|unternehmen|arbeitgeber|company|ag|gmbh|kg|ohg)\s+\w+`)},
		},

		Sentiment: map[string]float64{
			"sehr schlecht": -2,
			"schlecht":      -1,
			"terrible":      -2,
			"bad":           -1,
			"stressed":      -1,
			"traurig":       -1,
			"wütend":        -2,
			"frustriert":    -1,
			"enttäuscht":    -1,
			"neutral":       0,
			"okay":          0,
			"normal":        0,
			"gut":           1,
			"good":          1,
			"calm":          1,
			"zufrieden":     1,
			"entspannt":     1,
			"sehr gut":      2,
			"great":         2,
			"excellent":     2,
			"fantastisch":   2,
			"begeistert":    2,
		},
		PositiveFallback: []string{"gut", "toll", "schön", "super", "great", "good", "happy", "zufrieden", "erfolgreich"},
		NegativeFallback: []string{"schlecht", "schlimm", "terrible", "bad", "sad", "angry", "frustrated", "müde"},

		ActivityKeywords: []string{
			"spazieren", "walking", "laufen", "joggen", "sport", "training",
			"meditation", "meditiert", "yoga", "entspannung",
			"arbeit", "work", "meeting", "projekt", "büro",
			"familie", "freunde", "partner", "kinder",
			"lernen", "lesen", "studieren", "kurs",
			"musik", "film", "serie", "hobby",
			"essen", "kochen", "restaurant", "café",
			"reisen", "urlaub", "ausflug", "wandern",
		},

		Recommendations: map[Category]string{
			CategoryName: "Verwende Initialen oder allgemeine Begriffe statt Namen.",
			CategoryCity: `Verwende "Stadt" oder "Region" statt spezifische Ortsnamen.`,
			CategoryDate: `Verwende relative Zeitangaben wie "gestern" oder "letzte Woche".`,
		},
	}
}
