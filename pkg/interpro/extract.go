package interpro

import (
	"errors"
	"regexp"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
)

// ErrInvalidResult is returned for documents that are not JSON.
var ErrInvalidResult = errors.New("invalid interproscan result")

var goPattern = regexp.MustCompile(`GO:\d{7}`)

// xrefContainers are the match paths that may carry goXRefs, most specific
// first.
var xrefContainers = []string{"signature.entry", "signature", ""}

// ExtractGOTerms returns the distinct GO terms referenced by the matches of
// an InterProScan JSON result, sorted. "results" may be a single object or an
// array. When no goXRefs list yields a term, string fields of the entry,
// signature and match are scanned for GO identifiers instead.
func ExtractGOTerms(raw []byte) ([]ontology.TermID, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidResult
	}

	seen := make(map[ontology.TermID]struct{})
	forEachResult(gjson.GetBytes(raw, "results"), func(res gjson.Result) {
		res.Get("matches").ForEach(func(_, match gjson.Result) bool {
			found := fromXRefs(match)
			if len(found) == 0 {
				found = scanStrings(match)
			}
			for _, id := range found {
				seen[id] = struct{}{}
			}
			return true
		})
	})

	terms := make([]ontology.TermID, 0, len(seen))
	for id := range seen {
		terms = append(terms, id)
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })
	return terms, nil
}

func forEachResult(results gjson.Result, fn func(gjson.Result)) {
	switch {
	case results.IsArray():
		results.ForEach(func(_, r gjson.Result) bool {
			fn(r)
			return true
		})
	case results.IsObject():
		fn(results)
	}
}

func fromXRefs(match gjson.Result) []ontology.TermID {
	var out []ontology.TermID
	for _, path := range xrefContainers {
		container := match
		if path != "" {
			container = match.Get(path)
		}
		xrefs := container.Get("goXRefs")
		if !xrefs.IsArray() {
			continue
		}
		xrefs.ForEach(func(_, x gjson.Result) bool {
			if id, ok := xrefID(x); ok {
				out = append(out, id)
			}
			return true
		})
	}
	return out
}

// xrefID reads the identifier from id, GO or goId, then falls back to any
// string value holding a GO identifier.
func xrefID(x gjson.Result) (ontology.TermID, bool) {
	if !x.IsObject() {
		return "", false
	}
	for _, key := range []string{"id", "GO", "goId"} {
		if v := x.Get(key); v.Type == gjson.String {
			if id, err := ontology.ParseTermID(v.Str); err == nil {
				return id, true
			}
		}
	}
	var found ontology.TermID
	x.ForEach(func(_, v gjson.Result) bool {
		if v.Type != gjson.String {
			return true
		}
		if m := goPattern.FindString(v.Str); m != "" {
			found = ontology.TermID(m)
			return false
		}
		return true
	})
	return found, found != ""
}

// scanStrings collects GO identifiers from the top-level string fields of
// the entry, the signature and the match.
func scanStrings(match gjson.Result) []ontology.TermID {
	var out []ontology.TermID
	for _, container := range []gjson.Result{match.Get("signature.entry"), match.Get("signature"), match} {
		container.ForEach(func(_, v gjson.Result) bool {
			if v.Type == gjson.String {
				for _, m := range goPattern.FindAllString(v.Str, -1) {
					out = append(out, ontology.TermID(m))
				}
			}
			return true
		})
	}
	return out
}
