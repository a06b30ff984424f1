package dto

// MergeOptions control which cleanup passes the list merger applies.
type MergeOptions struct {
	RemoveDuplicates    bool `json:"remove_duplicates"`
	ApplyStoredOptOuts  bool `json:"apply_stored_opt_outs"`
	RemoveSuspicious    bool `json:"remove_suspicious"`
	RemoveMuseumDomains bool `json:"remove_museum_domains"`
}

// MergeRequest submits the raw contents of the lists to merge, plus an
// optional pasted opt-out list applied alongside the stored one.
type MergeRequest struct {
	Contents      []string     `json:"contents"`
	OptOutContent string       `json:"opt_out_content"`
	Options       MergeOptions `json:"options"`
}

// MergeReport summarises one merge run across all input lists.
type MergeReport struct {
	TotalLines int `json:"total_lines"`
	Kept       int `json:"kept"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
	Suspicious int `json:"suspicious"`
	OptOut     int `json:"opt_out"`
	Museum     int `json:"museum"`
	Parts      int `json:"parts"`
}

// MergePart is one output file of the merger.
type MergePart struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// MergeResponse carries the report plus the generated output parts.
type MergeResponse struct {
	Report MergeReport `json:"report"`
	Parts  []MergePart `json:"parts"`
}
