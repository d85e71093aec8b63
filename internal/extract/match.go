package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/acastel/ytm-tracker/internal/apperrors"
	"github.com/acastel/ytm-tracker/internal/browse"
)

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips diacritics, so "Rendement à Maturité"
// and "rendement a maturite" compare equal. PDF text layers are
// inconsistent about accents even within one document.
func Fold(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// Candidate is one phrasing under which a provider publishes the figure
// being searched for.
type Candidate struct {
	// Label announces the value, e.g. "Yield to Maturity".
	Label string
	// Infix is a token required between label and value, like the "EUR"
	// in "Taux actuariel EUR 2,85". Usually empty.
	Infix string
	// Percent is true when the value must carry a % sign. Rothschild
	// tables print the actuarial rate without one.
	Percent bool
}

// Match is a located value.
type Match struct {
	Value float64
	Label string
	// Raw is the matched span of (folded) source text, kept for logging.
	Raw string
}

// Matcher finds a labelled percentage in a blob of text. Candidates are
// evaluated strictly in listed order: the first label that matches wins,
// so callers put preferred phrasings first and loose abbreviations last.
type Matcher struct {
	rules []rule
}

type rule struct {
	candidate   Candidate
	labelFolded string
	tight       *regexp.Regexp
	window      *regexp.Regexp
}

// windowWidth bounds how far past its label a value may sit. Wide
// enough for footnote markers and unit annotations, narrow enough not
// to wander into a neighbouring figure.
const windowWidth = 160

func NewMatcher(candidates ...Candidate) *Matcher {
	m := &Matcher{}
	for _, c := range candidates {
		head := `(?i)` + labelPattern(c)
		number := `(\d+[.,]\d+)`
		if c.Percent {
			number = `(\d+(?:[.,]\d+)?)\s*%`
		}
		m.rules = append(m.rules, rule{
			candidate:   c,
			labelFolded: Fold(c.Label),
			tight:       regexp.MustCompile(head + `[:\s]*` + number),
			window:      regexp.MustCompile(fmt.Sprintf(`%s[^%%\n]{0,%d}?%s`, head, windowWidth, number)),
		})
	}
	return m
}

// labelPattern builds a whitespace-tolerant, accent-folded pattern for
// a candidate's label and optional infix. Only the leading edge is
// word-bounded: inline markup renders label and value with no
// separator at all ("Yield to Maturity4.60%"), so the trailing edge
// must stay open.
func labelPattern(c Candidate) string {
	p := phrasePattern(c.Label)
	if c.Infix != "" {
		p += `\s+` + phrasePattern(c.Infix)
	}
	return `\b` + p
}

func phrasePattern(phrase string) string {
	words := strings.Fields(Fold(phrase))
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, `\s+`)
}

// FindValue scans text for the first candidate that matches. Two shapes
// are tried per candidate: the label immediately followed by the value,
// then the value anywhere later on the label's line. The second shape
// stops at an intervening %, so it always takes the first percentage
// after the label rather than a later one.
func (m *Matcher) FindValue(text string) (Match, error) {
	folded := Fold(text)
	for _, r := range m.rules {
		for _, re := range []*regexp.Regexp{r.tight, r.window} {
			loc := re.FindStringSubmatchIndex(folded)
			if loc == nil {
				continue
			}

			value, err := ParseDecimal(folded[loc[2]:loc[3]])
			if err != nil {
				return Match{}, err
			}
			return Match{
				Value: value,
				Label: r.candidate.Label,
				Raw:   strings.TrimSpace(folded[loc[0]:loc[1]]),
			}, nil
		}
	}
	return Match{}, fmt.Errorf("%w: no label candidate matched", apperrors.ErrValueNotFound)
}

var percentToken = regexp.MustCompile(`(\d+[.,]\d+)\s*%`)

// FindValueInPage is the structural fallback for markup where label and
// value sit in sibling nodes and never share a line of rendered text.
// It walks elements whose own text carries a percentage, in document
// order, and accepts the first whose enclosing container also mentions
// a label candidate.
func (m *Matcher) FindValueInPage(page *browse.Page) (Match, error) {
	var found *Match
	page.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		token := percentToken.FindStringSubmatch(directText(s))
		if token == nil {
			return true
		}

		container := s.Parent().Parent()
		if container.Length() == 0 {
			container = s.Parent()
		}
		context := Fold(container.Text())

		for _, r := range m.rules {
			if !strings.Contains(context, r.labelFolded) {
				continue
			}
			value, err := ParseDecimal(token[1])
			if err != nil {
				continue
			}
			found = &Match{
				Value: value,
				Label: r.candidate.Label,
				Raw:   strings.TrimSpace(token[0]),
			}
			return false
		}
		return true
	})

	if found == nil {
		return Match{}, fmt.Errorf("%w: no percentage near a label candidate", apperrors.ErrValueNotFound)
	}
	return *found, nil
}

// directText concatenates the selection's own text nodes, excluding
// descendants, mirroring how the value usually sits alone in a leaf
// element.
func directText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}
