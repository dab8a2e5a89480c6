package assistant

import (
	"fmt"
	"regexp"
	"strconv"
)

const MaxScore = 5

// Rating is the judge's score on a 1 to Max scale, Score 0 means no score was found
type Rating struct {
	Score float64
	Max   float64
}

// Known reports whether a score was extracted
func (r Rating) Known() bool {
	return r.Score > 0
}

// IsGoalMet checks if the score is 90% or higher of the maximum possible score.
func (r Rating) IsGoalMet() bool {
	return r.Known() && r.Score >= r.Max*0.9
}

func (r Rating) String() string {
	if !r.Known() {
		return "?/" + strconv.FormatFloat(r.Max, 'f', -1, 64)
	}
	return fmt.Sprintf("%s/%s", strconv.FormatFloat(r.Score, 'f', -1, 64), strconv.FormatFloat(r.Max, 'f', -1, 64))
}

// ordered from the most to the least explicit way of writing a score
var ratingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*5(?:[^\d]|$)`),
	regexp.MustCompile(`(?i)(?:评分|得分|打分|分数|score|rating)\s*(?:[:：]|为|是)?\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*分`),
	regexp.MustCompile(`(?:^|[^\w.])([1-5])(?:[^\w.]|$)`),
}

// ParseRating extracts the score from the judge's free text verdict
func ParseRating(text string) Rating {
	ret := Rating{Max: MaxScore}
	for _, re := range ratingPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil || v < 1 || v > MaxScore {
				continue
			}
			ret.Score = v
			return ret
		}
	}
	return ret
}
