package assessmentstore

import (
	"errors"
	"sort"
)

// The seven motivational gifts of Romans 12:6-8.
const (
	GiftProphecy    = "Prophecy"
	GiftService     = "Service"
	GiftTeaching    = "Teaching"
	GiftExhortation = "Exhortation"
	GiftGiving      = "Giving"
	GiftLeadership  = "Leadership"
	GiftMercy       = "Mercy"
)

// Answer bounds: 1 is strongly disagree, 5 strongly agree.
const (
	MinAnswer = 1
	MaxAnswer = 5
	TopGifts  = 3
)

var ErrInvalidAnswers = errors.New("every question needs an answer from 1 to 5")

// Question is one assessment statement scored toward a gift.
type Question struct {
	Text string
	Gift string
}

// Questions in the order they are asked.
var Questions = []Question{
	{"I easily identify truth and error and feel compelled to speak up when something is wrong.", GiftProphecy},
	{"I enjoy doing tasks behind the scenes that help others be effective.", GiftService},
	{"I love explaining complex biblical truths so that others can understand them.", GiftTeaching},
	{"I naturally encourage those who are discouraged or struggling.", GiftExhortation},
	{"I manage my finances well so that I can generously support God's work.", GiftGiving},
	{"I can cast a vision and motivate others to work together to achieve it.", GiftLeadership},
	{"I feel deep compassion for those who are hurting and want to alleviate their pain.", GiftMercy},
	{"I often get insights about people or situations that turn out to be true.", GiftProphecy},
	{"I prefer doing practical jobs (cooking, setting up) rather than leading or teaching.", GiftService},
	{"I enjoy researching and studying the Bible in depth.", GiftTeaching},
	{"People often come to me for advice or comfort when they have problems.", GiftExhortation},
	{"I find joy in meeting the financial needs of others anonymously.", GiftGiving},
	{"I like organizing events and delegating tasks to ensure things run smoothly.", GiftLeadership},
	{"I am drawn to people who are lonely, outcast, or distressed.", GiftMercy},
}

var descriptions = map[string]string{
	GiftProphecy:    "You have a keen sense of right and wrong and are not afraid to speak truth.",
	GiftService:     "You show love by meeting practical needs and supporting others.",
	GiftTeaching:    "You have a passion for studying God's Word and helping others understand it.",
	GiftExhortation: "You are a natural encourager who helps others reach their potential.",
	GiftGiving:      "You joyfully share your resources to advance God's kingdom.",
	GiftLeadership:  "You can see the big picture and inspire others to follow.",
	GiftMercy:       "You have deep empathy for those who are suffering and want to help.",
}

// Describe returns the short description shown with a result.
func Describe(gift string) string {
	if d, ok := descriptions[gift]; ok {
		return d
	}
	return "A unique ability to serve the body of Christ."
}

// Score sums answers per gift and picks the top three, highest first,
// ties broken by gift name. answers[i] answers Questions[i].
func Score(answers []int) (map[string]int, []string, error) {
	if len(answers) != len(Questions) {
		return nil, nil, ErrInvalidAnswers
	}
	scores := map[string]int{}
	for i, a := range answers {
		if a < MinAnswer || a > MaxAnswer {
			return nil, nil, ErrInvalidAnswers
		}
		scores[Questions[i].Gift] += a
	}

	gifts := make([]string, 0, len(scores))
	for g := range scores {
		gifts = append(gifts, g)
	}
	sort.Slice(gifts, func(i, j int) bool {
		if scores[gifts[i]] != scores[gifts[j]] {
			return scores[gifts[i]] > scores[gifts[j]]
		}
		return gifts[i] < gifts[j]
	})
	if len(gifts) > TopGifts {
		gifts = gifts[:TopGifts]
	}
	return scores, gifts, nil
}
