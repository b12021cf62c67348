package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/tiendc/go-deepcopy"

	"quotebuilder/models"
)

// cloneQuote deep-copies q. Lines go through deepcopy, the rest is copied
// field by field.
func cloneQuote(q models.Quote) (models.Quote, error) {
	out := q
	if q.Lines != nil {
		out.Lines = make([]models.QuoteLine, len(q.Lines))
		if err := deepcopy.Copy(&out.Lines, q.Lines); err != nil {
			return models.Quote{}, fmt.Errorf("copy quote %s: %w", q.ID, err)
		}
	}
	out.GlobalOptions = slices.Clone(q.GlobalOptions)
	if q.ClientSnapshot != nil {
		c := *q.ClientSnapshot
		out.ClientSnapshot = &c
	}
	if q.PriorVersions != nil {
		out.PriorVersions = make([]models.Quote, len(q.PriorVersions))
		for i, p := range q.PriorVersions {
			cp, err := cloneQuote(p)
			if err != nil {
				return models.Quote{}, err
			}
			out.PriorVersions[i] = cp
		}
	}
	return out, nil
}

// snapshot returns a deep copy of q with its own history removed, which is
// the shape every entry of PriorVersions has.
func snapshot(q models.Quote) (models.Quote, error) {
	flat := q
	flat.PriorVersions = nil
	out, err := cloneQuote(flat)
	if err != nil {
		return models.Quote{}, err
	}
	out.PriorVersions = []models.Quote{}
	return out, nil
}

// NewVersion supersedes the live state of q. The current state is copied,
// flattened and appended to the history; the returned live record keeps
// identity, number, client, lines and options, with the version bumped,
// the date set to now and the status back to draft. q is not modified.
func NewVersion(q models.Quote, now time.Time) (models.Quote, error) {
	snap, err := snapshot(q)
	if err != nil {
		return models.Quote{}, err
	}

	next, err := cloneQuote(q)
	if err != nil {
		return models.Quote{}, err
	}
	next.PriorVersions = append(next.PriorVersions, snap)
	next.Version = currentVersion(q) + 1
	next.Date = now
	next.Status = models.StatusDraft
	return next, nil
}

// currentVersion is the version of the live record, repairing records
// written without one.
func currentVersion(q models.Quote) int {
	v := q.Version
	for _, p := range q.PriorVersions {
		if p.Version >= v {
			v = p.Version + 1
		}
	}
	if v < 1 {
		v = 1
	}
	return v
}

// VersionOf returns version n of q: the live record when n is the current
// version, otherwise a copy of the matching prior version. The copy keeps
// callers from editing stored history.
func VersionOf(q models.Quote, n int) (models.Quote, error) {
	if n == q.Version {
		return q, nil
	}
	for _, p := range q.PriorVersions {
		if p.Version == n {
			return cloneQuote(p)
		}
	}
	return models.Quote{}, notFound("version", q.ID+"@"+strconv.Itoa(n))
}

// VersionSummary describes one entry of a quote history.
type VersionSummary struct {
	Version int                `json:"version"`
	Date    time.Time          `json:"fecha"`
	Status  models.QuoteStatus `json:"estado"`
	Total   float64            `json:"total"`
	Current bool               `json:"actual"`
}

// Versions lists the history of q in chronological order, ending with the
// live record.
func Versions(q models.Quote) []VersionSummary {
	out := make([]VersionSummary, 0, len(q.PriorVersions)+1)
	for _, p := range q.PriorVersions {
		out = append(out, VersionSummary{Version: p.Version, Date: p.Date, Status: p.Status, Total: p.Total})
	}
	return append(out, VersionSummary{Version: q.Version, Date: q.Date, Status: q.Status, Total: q.Total, Current: true})
}

// checkHistoryUnchanged rejects an update whose history differs from the
// stored one. Prior versions are read-only once written.
func checkHistoryUnchanged(stored, updated []models.Quote) error {
	if len(stored) != len(updated) {
		return violation("prior versions of a quote cannot be added or removed by an edit")
	}
	for i := range stored {
		if !sameJSON(stored[i], updated[i]) {
			return violation("prior version %d is read-only", stored[i].Version)
		}
	}
	return nil
}

// sameJSON reports whether a and b encode to the same JSON document.
func sameJSON[T any](a, b T) bool {
	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}
