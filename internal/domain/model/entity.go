// Package model contains domain models passed between layers.
package model

// Entity is a competitor or the target business as it moves through a report run.
// The acquirer creates it, the auditor fills Audit and the modeler fills DominanceScore.
type Entity struct {
	Name           string  `json:"name"`
	Rating         float64 `json:"rating"`
	ReviewCount    int     `json:"review_count"`
	URL            string  `json:"url"`
	IsTarget       bool    `json:"is_target"`
	DominanceScore float64 `json:"dominance_score"`
	Audit          Audit   `json:"audit"`
}

// Audit holds the website-quality signals collected for one entity.
type Audit struct {
	HasSSL     bool   `json:"has_ssl"`
	HasCTA     bool   `json:"has_cta"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Failed reports whether the audit could not inspect the site.
func (a Audit) Failed() bool { return a.Error != "" }

// Target returns the index of the first entity marked as target, or -1.
func Target(entities []Entity) int {
	for i := range entities {
		if entities[i].IsTarget {
			return i
		}
	}
	return -1
}
