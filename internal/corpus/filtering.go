package corpus

import (
	"strings"

	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to directory entries.
type Filter interface {
	Name() string
	Apply(names []string) ([]string, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially and returns the surviving names.
func Run(logger *zap.Logger, steps []Filter, names []string) []string {
	for _, step := range steps {
		var info Step
		names, info = step.Apply(names)

		logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
	}

	return names
}

type predicateFilter struct {
	name string
	keep func(string) bool
}

func (f *predicateFilter) Name() string { return f.name }

func (f *predicateFilter) Apply(names []string) ([]string, Step) {
	kept := make([]string, 0, len(names))
	for _, name := range names {
		if f.keep(name) {
			kept = append(kept, name)
		}
	}

	return kept, Step{Initial: len(names), Dropped: len(names) - len(kept), Left: len(kept)}
}

// NewExtensions keeps names with one of the given extensions, ignoring case.
func NewExtensions(extensions []string) Filter {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}

	return &predicateFilter{
		name: "extensions",
		keep: func(name string) bool {
			idx := strings.LastIndex(name, ".")
			if idx < 0 {
				return false
			}
			_, ok := allowed[strings.ToLower(name[idx:])]
			return ok
		},
	}
}

// NewExcludePrefix drops names starting with prefix.
func NewExcludePrefix(name, prefix string) Filter {
	return &predicateFilter{
		name: name,
		keep: func(n string) bool { return !strings.HasPrefix(n, prefix) },
	}
}

// NewHidden drops dot files.
func NewHidden() Filter {
	return NewExcludePrefix("hidden", HiddenPrefix)
}

// NewBackup drops editor lock and backup files such as "~$resume.docx".
func NewBackup() Filter {
	return NewExcludePrefix("backup", BackupPrefix)
}

type pinnedFilter struct{}

// NewPinned keeps only names starting with PinnedPrefix when at least one
// exists; otherwise every name is kept.
func NewPinned() Filter {
	return &pinnedFilter{}
}

func (f *pinnedFilter) Name() string { return "pinned" }

func (f *pinnedFilter) Apply(names []string) ([]string, Step) {
	var pinned []string
	for _, name := range names {
		if strings.HasPrefix(name, PinnedPrefix) {
			pinned = append(pinned, name)
		}
	}

	if len(pinned) == 0 {
		return names, Step{Initial: len(names), Left: len(names)}
	}

	return pinned, Step{Initial: len(names), Dropped: len(names) - len(pinned), Left: len(pinned)}
}
