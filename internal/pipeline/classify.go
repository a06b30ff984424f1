package pipeline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// Outcome is the classification result for a single email address.
type Outcome int

const (
	// Valid addresses continue through the pipeline.
	Valid Outcome = iota
	// Invalid addresses fail the basic shape or length checks.
	Invalid
	// Suspicious addresses look machine-generated (long hex local-parts,
	// typically hashed or system addresses) and are reported separately.
	Suspicious
)

// NameUnknown is the sentinel used when no display name could be derived.
const NameUnknown = "N/A"

const maxEmailLength = 100

var (
	emailShape   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	hexLocalPart = regexp.MustCompile(`^[a-f0-9]{32,}$`)
	separators   = regexp.MustCompile(`[._-]`)
	digits       = regexp.MustCompile(`[0-9]`)
)

// Lexicon carries the reference data the classifier needs: a list of common
// first names (lower-cased) and the domains of public webmail providers.
// It is passed in explicitly so the classifier stays testable and can be
// swapped for other locales.
type Lexicon struct {
	FirstNames     []string
	GenericDomains []string
}

// Info is the derived display data for one address. Website is empty for
// generic (webmail) domains.
type Info struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
}

// Classifier validates addresses, splits generic from corporate domains and
// derives display names from local-part heuristics.
type Classifier struct {
	lexicon Lexicon
}

// NewClassifier builds a classifier around the given reference data.
func NewClassifier(lexicon Lexicon) *Classifier {
	return &Classifier{lexicon: lexicon}
}

// Check validates the basic shape of an address. It never inspects the
// mailbox; the checks are purely syntactic plus the hex-hash heuristic.
func (c *Classifier) Check(email string) Outcome {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(email) > maxEmailLength {
		return Invalid
	}
	if !emailShape.MatchString(email) {
		return Invalid
	}
	local, domain, _ := strings.Cut(email, "@")
	if _, err := idna.Lookup.ToASCII(domain); err != nil {
		return Invalid
	}
	if hexLocalPart.MatchString(local) {
		return Suspicious
	}
	return Valid
}

// Extract derives a display name and website from an address. The name
// heuristics run as an ordered rule chain, stopping at the first rule that
// produces a name. Extract never fails: unusable input yields the NameUnknown
// sentinel and no website.
func (c *Classifier) Extract(email string) Info {
	info := Info{Name: NameUnknown}

	email = strings.ToLower(strings.TrimSpace(email))
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return info
	}

	generic := c.isGenericDomain(domain)
	if !generic {
		info.Website = "https://" + domain
	}

	clean := digits.ReplaceAllString(local, "")
	for _, rule := range nameRules {
		if name, ok := rule(c, clean, domain, generic); ok {
			info.Name = name
			break
		}
	}
	return info
}

// nameRule produces a candidate display name from the cleaned local-part.
type nameRule func(c *Classifier, clean, domain string, generic bool) (string, bool)

// Evaluation order matters: separator-split dictionary names are the most
// reliable, the corporate domain label the least specific fallback before
// giving up.
var nameRules = []nameRule{
	separatorNameRule,
	localPartNameRule,
	corporateDomainRule,
	cleanedLocalRule,
}

// separatorNameRule handles addresses like joao.silva@. It splits on the
// separator characters, keeps usable segments and requires the first one to
// look like a first name (or any personal-looking segment on webmail).
func separatorNameRule(c *Classifier, clean, domain string, generic bool) (string, bool) {
	if !separators.MatchString(clean) {
		return "", false
	}
	segments := make([]string, 0, 4)
	for _, segment := range separators.Split(clean, -1) {
		if usableSegment(segment) {
			segments = append(segments, segment)
		}
	}
	if len(segments) == 0 {
		return "", false
	}
	if c.firstName(segments[0], generic) == "" {
		return "", false
	}
	for i, segment := range segments {
		segments[i] = capitalize(segment)
	}
	return strings.Join(segments, " "), true
}

// localPartNameRule matches the whole cleaned local-part against the
// dictionary; on webmail domains any personal-looking local-part passes.
func localPartNameRule(c *Classifier, clean, domain string, generic bool) (string, bool) {
	if name := c.firstName(clean, generic); name != "" {
		return name, true
	}
	return "", false
}

// corporateDomainRule derives a name from the first domain label, so
// contato@empresa.com becomes Empresa.
func corporateDomainRule(c *Classifier, clean, domain string, generic bool) (string, bool) {
	if generic {
		return "", false
	}
	label, _, _ := strings.Cut(domain, ".")
	if utf8.RuneCountInString(label) < 2 {
		return "", false
	}
	return capitalize(label), true
}

// cleanedLocalRule is the last resort: the cleaned local-part itself.
func cleanedLocalRule(c *Classifier, clean, domain string, generic bool) (string, bool) {
	if utf8.RuneCountInString(clean) < 2 {
		return "", false
	}
	return capitalize(clean), true
}

// firstName returns the capitalized dictionary name the segment starts with,
// or on generic domains the capitalized segment itself when it looks
// personal. Empty string means no match.
func (c *Classifier) firstName(segment string, generic bool) string {
	for _, name := range c.lexicon.FirstNames {
		if strings.HasPrefix(segment, name) {
			return capitalize(name)
		}
	}
	if generic && usableSegment(segment) {
		return capitalize(segment)
	}
	return ""
}

func (c *Classifier) isGenericDomain(domain string) bool {
	for _, generic := range c.lexicon.GenericDomains {
		if strings.HasSuffix(domain, generic) {
			return true
		}
	}
	return false
}

// usableSegment keeps segments that are longer than one character and not
// purely numeric.
func usableSegment(segment string) bool {
	if utf8.RuneCountInString(segment) <= 1 {
		return false
	}
	for _, r := range segment {
		if !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
