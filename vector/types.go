package vector

import "github.com/poiesic/menusync/core"

// Payload is the structured metadata attached to every indexed point.
// SiteTag partitions the collection by serving date; DocID identifies the
// source document so re-runs can skip files that are already indexed.
type Payload struct {
	SiteTag    string `json:"sitetag"`
	Site       string `json:"site"`
	Name       string `json:"name"`
	SchemaJSON string `json:"schema_json"`
	URL        string `json:"url"`
	Meal       string `json:"meal"`
	Date       string `json:"date"`
	Source     string `json:"source"`
	Kind       string `json:"kind"`
	DocID      string `json:"doc_id"`
}

// Map flattens the payload into the generic form index backends store.
func (p Payload) Map() map[string]any {
	return map[string]any{
		"sitetag":     p.SiteTag,
		"site":        p.Site,
		"name":        p.Name,
		"schema_json": p.SchemaJSON,
		"url":         p.URL,
		"meal":        p.Meal,
		"date":        p.Date,
		"source":      p.Source,
		"kind":        p.Kind,
		"doc_id":      p.DocID,
	}
}

// Point is one embedded document ready for indexing. The ID derives
// deterministically from the document's identity, so re-upserting the same
// document overwrites its previous point instead of duplicating it.
type Point struct {
	ID      core.ID
	Vector  []float32
	Payload Payload
}
