package notice

import "regexp"

// locationStrategies are tried in order; the first match wins. Strategy 1
// captures the text after a "소재지 :" marker up to an 업종/처분업종 label.
// Strategy 2 relaxes the terminator to any "<label> :" shaped token
// (a run of Hangul, Latin, digits, middle dots, or parentheses followed by
// a colon). New strategies slot in here without touching call sites.
var locationStrategies = []*regexp.Regexp{
	regexp.MustCompile(`소재지\s*:\s*(.*?)\s*(?:업종|처분업종)\s*:`),
	regexp.MustCompile(`소재지\s*:\s*(.*?)\s*[가-힣A-Za-z0-9ㆍ()]+\s*:`),
}

// ExtractLocation pulls the 소재지 (location) field out of detail-page
// text. Returns "" when no strategy matches.
func ExtractLocation(text string) string {
	if text == "" {
		return ""
	}
	normalized := Normalize(text)
	for _, re := range locationStrategies {
		if m := re.FindStringSubmatch(normalized); m != nil {
			return Normalize(m[1])
		}
	}
	return ""
}
