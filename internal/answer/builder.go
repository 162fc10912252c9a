// Package answer builds Answer-First Blocks from page HTML, gated on entity
// confidence.
package answer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sells-group/answer-trust/internal/model"
)

// DefaultMaxLength caps the canonical answer, in runes.
const DefaultMaxLength = 500

// contentContainers are tried in order; the first with visible text wins.
var contentContainers = []string{"article", "main", "body"}

// Builder produces AFBs. It holds only configuration and is safe to share.
type Builder struct {
	MaxLength int
}

// NewBuilder returns a Builder. maxLength <= 0 selects DefaultMaxLength.
func NewBuilder(maxLength int) Builder {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return Builder{MaxLength: maxLength}
}

// AFBID derives the AFB identifier from an entity identifier.
func AFBID(entityID string) string {
	return "afb:page:" + slug(entityID)
}

// Build returns the AFB for page under profile. An ineligible profile yields
// the rejection variant without touching the page.
func (b Builder) Build(page string, profile model.EntityProfile, inputSource string) model.AFB {
	afb := model.AFB{
		AFBID:    AFBID(profile.EntityID),
		EntityID: profile.EntityID,
		ConfidenceSignals: model.ConfidenceSignals{
			EntityConfidence: profile.EntityConfidence,
		},
		Payload: model.AnswerPayload{Type: "Answer", EntityID: profile.EntityID},
		Meta:    model.NewMeta(inputSource),
	}

	if profile.EntityConfidence < model.EligibilityThreshold {
		afb.Eligibility = model.EligibilityFail
		afb.AIQuickAnswer = model.RejectedQuickAnswer
		afb.Payload.Answer = model.RejectedAnswer
		afb.Reasons = []string{fmt.Sprintf("Entity confidence below threshold: %s < %.2f",
			strconv.FormatFloat(profile.EntityConfidence, 'f', -1, 64), model.EligibilityThreshold)}
		return afb
	}

	text, links := extract(page)
	answer := truncate(text, b.maxLength())

	afb.Eligibility = model.EligibilityPass
	afb.AIQuickAnswer = answer
	afb.Payload.Answer = answer
	afb.ConfidenceSignals.CitationCount = links
	afb.ContextFit = &model.ContextFit{
		UseWhen:      []string{"general_information"},
		DoNotUseWhen: []string{"medical_advice", "legal_advice"},
	}
	return afb
}

func (b Builder) maxLength() int {
	if b.MaxLength <= 0 {
		return DefaultMaxLength
	}
	return b.MaxLength
}

// extract returns the visible text of the first non-empty content container
// and the number of hyperlinks in the whole page.
func extract(page string) (string, int) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", 0
	}
	links := doc.Find("a[href]").Length()
	doc.Find("script, style").Remove()

	for _, sel := range contentContainers {
		var text string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text = visibleText(s)
			return text == ""
		})
		if text != "" {
			return text, links
		}
	}
	return "", links
}

// visibleText joins the trimmed text nodes under s with single spaces.
func visibleText(s *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRightFunc(string(r[:n]), unicode.IsSpace)
}

// slug reduces an entity id to a stable token: the "ent:" prefix and URL
// scheme are dropped and every run of other characters becomes one hyphen.
func slug(entityID string) string {
	s := strings.TrimPrefix(entityID, "ent:")
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(sb.String(), "-")
	if out == "" {
		return "unknown"
	}
	return out
}
