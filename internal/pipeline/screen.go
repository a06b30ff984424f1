package pipeline

import "strings"

// OptOutSets is a read-once snapshot of the suppression entries for one
// batch: exact addresses and whole domains, both lower-cased.
type OptOutSets struct {
	Emails  map[string]struct{}
	Domains map[string]struct{}
}

// NewOptOutSets builds membership sets from raw suppression values.
func NewOptOutSets(emails, domains []string) OptOutSets {
	sets := OptOutSets{
		Emails:  make(map[string]struct{}, len(emails)),
		Domains: make(map[string]struct{}, len(domains)),
	}
	for _, email := range emails {
		sets.Emails[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	for _, domain := range domains {
		sets.Domains[strings.ToLower(strings.TrimSpace(domain))] = struct{}{}
	}
	return sets
}

// Blocks reports whether the lower-cased address or its domain is opted out.
func (s OptOutSets) Blocks(email string) bool {
	if _, ok := s.Emails[email]; ok {
		return true
	}
	if _, domain, ok := strings.Cut(email, "@"); ok {
		if _, blocked := s.Domains[domain]; blocked {
			return true
		}
	}
	return false
}

// Defaults are fallback values applied to fields that are still empty after
// mapping. Explicit source values are never overwritten.
type Defaults struct {
	Country    string `json:"country"`
	Profession string `json:"profession"`
	Branch     string `json:"branch"`
}

// Report aggregates the per-row outcomes of one batch. Every dropped row
// increments exactly one counter.
type Report struct {
	Total      int `json:"total"`
	Processed  int `json:"processed"`
	Inserted   int `json:"inserted"`
	Updated    int `json:"updated"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
	OptOut     int `json:"opt_out"`
	Suspicious int `json:"suspicious"`
}

// Screener applies dedup and suppression to a stream of candidate records.
// State accumulates across chunks, so chunk boundaries never change the
// outcome; the first occurrence of an address always wins.
type Screener struct {
	classifier *Classifier
	optOuts    OptOutSets
	defaults   Defaults
	seen       map[string]struct{}
	accepted   []Record
	report     Report
}

// NewScreener builds a screener for one batch run.
func NewScreener(classifier *Classifier, optOuts OptOutSets, defaults Defaults) *Screener {
	return &Screener{
		classifier: classifier,
		optOuts:    optOuts,
		defaults:   defaults,
		seen:       make(map[string]struct{}),
	}
}

// Add screens one candidate. Rejected rows are counted, accepted rows get
// default backfill and are retained in input order.
func (s *Screener) Add(rec Record) {
	s.report.Total++

	email := strings.ToLower(strings.TrimSpace(rec.Email))
	if _, dup := s.seen[email]; dup {
		s.report.Duplicates++
		return
	}

	switch s.classifier.Check(email) {
	case Suspicious:
		s.report.Suspicious++
		return
	case Invalid:
		s.report.Invalid++
		return
	}

	if s.optOuts.Blocks(email) {
		s.report.OptOut++
		return
	}

	rec.Email = email
	if rec.Country == "" {
		rec.Country = s.defaults.Country
	}
	if rec.Profession == "" {
		rec.Profession = s.defaults.Profession
	}
	if rec.Branch == "" {
		rec.Branch = s.defaults.Branch
	}

	s.seen[email] = struct{}{}
	s.accepted = append(s.accepted, rec)
	s.report.Processed++
}

// Accepted returns the retained records in input order.
func (s *Screener) Accepted() []Record {
	return s.accepted
}

// Report returns the counters accumulated so far.
func (s *Screener) Report() Report {
	return s.report
}
