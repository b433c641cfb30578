package matrix

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vzctl/github-helpers/internal/catalog"
)

const (
	// DefaultMarker is the project-root marker file.
	DefaultMarker = "package.json"

	// DefaultPrefixSegments covers url:https://github.com/<org>/<repo>/tree/<ref>
	// in a source-location annotation; everything after it is the
	// repository-relative directory.
	DefaultPrefixSegments = 7

	// DefaultExcludeTag opts an entity out of mandatory validation.
	DefaultExcludeTag = "skip-validation"
)

// ExistsFunc reports whether a file exists. Injected so root discovery is
// testable without touching the real filesystem.
type ExistsFunc func(path string) bool

// Policy computes the per-row validate flag from an entity's tags and its
// impact decision.
type Policy func(tags []string, impacted bool) bool

// Options configures one matrix build.
type Options struct {
	ForceAll       bool
	Marker         string
	PrefixSegments int
	Exists         ExistsFunc
	Validate       Policy
}

// Entry is one matrix row. Candidates are never omitted; unimpacted ones are
// reported with Impacted=false.
type Entry struct {
	Name     string   `json:"name"`
	Tags     []string `json:"tags"`
	Path     string   `json:"path"`
	RootPath string   `json:"rootPath"`
	Impacted bool     `json:"impacted"`
	Validate bool     `json:"validate"`
}

// MissingAnnotationError reports an entity without its required
// source-location annotation. Guessing a path would silently skip the
// entity's checks, so the row fails instead.
type MissingAnnotationError struct {
	EntityRef  string
	Annotation string
}

func (e *MissingAnnotationError) Error() string {
	return fmt.Sprintf("entity %q is missing annotation %q", e.EntityRef, e.Annotation)
}

// SourceDir extracts the entity's repository-relative source directory from
// its source-location annotation by dropping prefixSegments leading URL
// segments and joining the rest.
func SourceDir(e catalog.Entity, prefixSegments int) (string, error) {
	loc := e.Metadata.Annotations[catalog.SourceLocationAnnotation]
	if loc == "" {
		return "", &MissingAnnotationError{EntityRef: e.Ref(), Annotation: catalog.SourceLocationAnnotation}
	}
	segments := strings.Split(strings.TrimSuffix(loc, "/"), "/")
	if len(segments) <= prefixSegments {
		return "", fmt.Errorf("source location %q has no path after %d prefix segments", loc, prefixSegments)
	}
	return strings.Join(segments[prefixSegments:], "/"), nil
}

// FindRoot walks from path upward one directory at a time and returns the
// deepest ancestor directory containing marker. When no ancestor does, it
// returns the repository root "." rather than failing; a missing marker is
// common and not fatal.
func FindRoot(path, marker string, exists ExistsFunc) string {
	for dir := filepath.Dir(path); dir != "." && dir != "/" && dir != ""; dir = filepath.Dir(dir) {
		if exists(filepath.Join(dir, marker)) {
			return dir
		}
	}
	return "."
}

// Resolve builds the validation matrix for the candidate entities. With
// ForceAll every candidate is impacted regardless of changed; otherwise a
// candidate is impacted iff some changed file lives under its source
// directory.
func Resolve(candidates []catalog.Entity, changed []string, opts Options) ([]Entry, error) {
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	if opts.PrefixSegments == 0 {
		opts.PrefixSegments = DefaultPrefixSegments
	}
	if opts.Exists == nil {
		opts.Exists = fileExists
	}
	if opts.Validate == nil {
		opts.Validate = ExcludeTagPolicy(DefaultExcludeTag)
	}

	entries := make([]Entry, 0, len(candidates))
	for _, e := range candidates {
		dir, err := SourceDir(e, opts.PrefixSegments)
		if err != nil {
			return nil, err
		}
		impacted := opts.ForceAll || anyUnder(changed, dir)
		entries = append(entries, Entry{
			Name:     e.Metadata.Name,
			Tags:     e.Metadata.Tags,
			Path:     dir,
			RootPath: FindRoot(filepath.Join(dir, opts.Marker), opts.Marker, opts.Exists),
			Impacted: impacted,
			Validate: opts.Validate(e.Metadata.Tags, impacted),
		})
	}
	return entries, nil
}

// ExcludeTagPolicy builds the default validate policy: impacted rows are
// validated unless tagged with tag.
func ExcludeTagPolicy(tag string) Policy {
	return func(tags []string, impacted bool) bool {
		for _, t := range tags {
			if t == tag {
				return false
			}
		}
		return impacted
	}
}

// anyUnder reports whether a changed file lives under dir. The match is on a
// directory boundary: dir "contracts" covers "contracts/Foo.sol" but not
// "contracts2/Bar.sol".
func anyUnder(changed []string, dir string) bool {
	prefix := dir + "/"
	for _, file := range changed {
		if file == dir || strings.HasPrefix(file, prefix) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
