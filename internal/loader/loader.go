// Package loader parses graph-definition YAML documents into validated node
// and edge sets. The load is a strict two-stage pipeline: stage one accepts
// nodes and produces an immutable accepted-ref set, stage two validates edges
// against that set. Edges never make it into the result with a missing
// endpoint.
package loader

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

// ErrMalformedDocument marks a definition source that could not be parsed at
// all. Unlike per-record problems this is fatal for the whole load.
var ErrMalformedDocument = errors.New("malformed graph definition document")

// nodeSkipFields are the node keys mapped to typed columns; everything else
// folds into Extra verbatim.
var nodeSkipFields = map[string]struct{}{
	"ref_id":  {},
	"kind":    {},
	"summary": {},
	"source":  {},
}

// edgeSkipFields are the edge keys mapped to typed columns.
var edgeSkipFields = map[string]struct{}{
	"src":  {},
	"dst":  {},
	"kind": {},
}

type rawDocument struct {
	Nodes []map[string]any `yaml:"nodes"`
	Edges []map[string]any `yaml:"edges"`
}

// ParseDocument decodes one definition source. A YAML syntax failure wraps
// ErrMalformedDocument so callers can distinguish it from data-quality issues.
func ParseDocument(path string, data []byte) (schemas.Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return schemas.Document{}, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, path, err)
	}

	doc := schemas.Document{Path: path}
	for _, fields := range raw.Nodes {
		doc.Nodes = append(doc.Nodes, schemas.NodeRecord{
			RefID:   stringField(fields, "ref_id"),
			Kind:    stringField(fields, "kind"),
			Summary: stringField(fields, "summary"),
			Source:  stringField(fields, "source"),
			Fields:  fields,
		})
	}
	for _, fields := range raw.Edges {
		doc.Edges = append(doc.Edges, schemas.EdgeRecord{
			Src:    stringField(fields, "src"),
			Dst:    stringField(fields, "dst"),
			Kind:   stringField(fields, "kind"),
			Fields: fields,
		})
	}
	return doc, nil
}

// ParseFiles reads and parses every path. The first unparsable file aborts the
// whole operation.
func ParseFiles(paths []string) ([]schemas.Document, error) {
	docs := make([]schemas.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read definition file %s: %w", path, err)
		}
		doc, err := ParseDocument(path, data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Result is a fully validated graph population plus the diagnostics collected
// while producing it.
type Result struct {
	Nodes  []schemas.Node
	Edges  []schemas.Edge
	Report schemas.LoadReport
}

// Build runs the two-stage pipeline over the given documents. Documents are
// processed in lexicographic path order and declarations in file order, so the
// result is reproducible across runs regardless of discovery order.
func Build(docs []schemas.Document) Result {
	sorted := make([]schemas.Document, len(docs))
	copy(sorted, docs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	var res Result
	accepted := acceptNodes(sorted, &res)
	acceptEdges(sorted, accepted, &res)

	res.Report.NodesLoaded = len(res.Nodes)
	res.Report.EdgesLoaded = len(res.Edges)
	return res
}

// acceptNodes is stage one: it validates node records and returns the set of
// accepted ref_ids for stage two. First occurrence of a duplicate wins; later
// ones are recorded as errors and dropped.
func acceptNodes(docs []schemas.Document, res *Result) map[string]struct{} {
	accepted := make(map[string]struct{})
	for _, doc := range docs {
		for i, rec := range doc.Nodes {
			if rec.RefID == "" {
				res.Report.Errors = append(res.Report.Errors,
					fmt.Sprintf("%s: node %d: missing ref_id", doc.Path, i))
				continue
			}
			if _, dup := accepted[rec.RefID]; dup {
				res.Report.Errors = append(res.Report.Errors,
					fmt.Sprintf("%s: duplicate ref_id %q", doc.Path, rec.RefID))
				continue
			}
			accepted[rec.RefID] = struct{}{}
			res.Nodes = append(res.Nodes, schemas.Node{
				RefID:   rec.RefID,
				Kind:    schemas.NodeKind(rec.Kind),
				Summary: rec.Summary,
				Source:  rec.Source,
				Extra:   foldExtra(rec.Fields, nodeSkipFields),
			})
		}
	}
	return accepted
}

// acceptEdges is stage two. Edges are advisory: a missing endpoint drops the
// edge with a warning, never an error. Duplicate triples collapse silently.
func acceptEdges(docs []schemas.Document, accepted map[string]struct{}, res *Result) {
	seen := make(map[schemas.EdgeKey]struct{})
	for _, doc := range docs {
		for _, rec := range doc.Edges {
			if _, ok := accepted[rec.Src]; !ok {
				res.Report.Warnings = append(res.Report.Warnings,
					fmt.Sprintf("%s: edge %s -> %s (%s): unknown src %q, edge dropped",
						doc.Path, rec.Src, rec.Dst, rec.Kind, rec.Src))
				continue
			}
			if _, ok := accepted[rec.Dst]; !ok {
				res.Report.Warnings = append(res.Report.Warnings,
					fmt.Sprintf("%s: edge %s -> %s (%s): unknown dst %q, edge dropped",
						doc.Path, rec.Src, rec.Dst, rec.Kind, rec.Dst))
				continue
			}
			edge := schemas.Edge{
				Src:   rec.Src,
				Dst:   rec.Dst,
				Kind:  schemas.EdgeKind(rec.Kind),
				Extra: foldExtra(rec.Fields, edgeSkipFields),
			}
			if _, dup := seen[edge.Key()]; dup {
				continue
			}
			seen[edge.Key()] = struct{}{}
			res.Edges = append(res.Edges, edge)
		}
	}
}

// foldExtra copies every field not on the skip-list into the open field bag.
// Returns nil when nothing is left over, so empty bags stay out of storage.
func foldExtra(fields map[string]any, skip map[string]struct{}) schemas.Extra {
	var extra schemas.Extra
	for k, v := range fields {
		if _, mapped := skip[k]; mapped {
			continue
		}
		if extra == nil {
			extra = make(schemas.Extra)
		}
		extra[k] = v
	}
	return extra
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
