// Package gitsource reads graph-definition documents out of a git revision
// without touching the working tree. It feeds the diff engine with the
// historical side of a "current vs. revision" comparison.
package gitsource

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
	"github.com/kestrelworks/archgraph-cli/internal/loader"
)

// DocumentsAt parses every definition file matching the patterns as it
// existed at the given revision. Paths are matched against the slash-separated
// in-repo path, the same shape the patterns use for working-tree discovery.
// Unparsable documents are fatal, matching the loader's contract.
func DocumentsAt(repoPath, revision string, patterns []string) ([]schemas.Document, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", repoPath, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %q: %w", revision, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", hash, err)
	}

	var docs []schemas.Document
	err = tree.Files().ForEach(func(f *object.File) error {
		matched, err := matchesAny(f.Name, patterns)
		if err != nil {
			return err
		}
		if !matched {
			return nil
		}
		contents, err := f.Contents()
		if err != nil {
			return fmt.Errorf("failed to read %s at %s: %w", f.Name, revision, err)
		}
		doc, err := loader.ParseDocument(f.Name, []byte(contents))
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

func matchesAny(path string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("bad source pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
