package model

// Citation is a resolved [CITATION: ...] marker from an answer. Pointers are
// nil when the label could not be matched against retrieved briefs.
type Citation struct {
	Label        string  `json:"label"`
	BriefID      *string `json:"brief_id"`
	ProjectID    *string `json:"project_id,omitempty"`
	ProjectTitle *string `json:"project_title,omitempty"`
}

// AskResult is the response to a knowledgebase question.
type AskResult struct {
	Response  string     `json:"response"`
	Citations []Citation `json:"citations"`
}

// KnowledgeRecord is the material retrieved for one brief from the vector
// store, joined with its relational row.
type KnowledgeRecord struct {
	BriefID          string
	ProjectID        string
	ProjectTitle     string
	Title            string
	Summary          string
	ExecutiveSummary string
	SlideBullets     string
	Score            float32
}
