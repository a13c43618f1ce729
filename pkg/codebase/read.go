package codebase

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/matzehuels/codescape/pkg/errors"
)

// ReadOptions configures ReadFolder.
type ReadOptions struct {
	// Extensions lists the file endings to load, without the leading dot.
	Extensions []string

	// Ignore lists doublestar patterns matched against root-relative paths,
	// e.g. "**/vendor/**" or "**/*_test.go".
	Ignore []string

	// NoGitignore disables the root .gitignore.
	NoGitignore bool

	// Logger receives skipped-entry diagnostics. Nil discards them.
	Logger *log.Logger
}

type folderReader struct {
	opts      ReadOptions
	gitignore *ignore.GitIgnore
	logger    *log.Logger
}

// ReadFolder loads the code files below root. Hidden entries are skipped and
// folders without any matching file are dropped.
//
// Returns an INVALID_PATH error if root is not a readable directory,
// INVALID_CONFIG for bad extensions, and NO_CODE_FILES if nothing matched.
func ReadFolder(root string, opts ReadOptions) (*Folder, error) {
	if err := errors.ValidateExtensions(opts.Extensions); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "folder does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "not a folder: %s", root)
	}
	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid ignore pattern %q", pattern)
		}
	}

	r := &folderReader{opts: opts, logger: opts.Logger}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	if !opts.NoGitignore {
		gi := filepath.Join(abs, ".gitignore")
		if _, err := os.Stat(gi); err == nil {
			if r.gitignore, err = ignore.CompileIgnoreFile(gi); err != nil {
				r.logger.Warn("ignoring unreadable .gitignore", "err", err)
			}
		}
	}

	folder, err := r.read(abs, "")
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, errors.New(errors.ErrCodeNoCodeFiles,
			"no files ending in %s found in %s", strings.Join(opts.Extensions, ", "), root)
	}
	return folder, nil
}

func (r *folderReader) read(dir, rel string) (*Folder, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read folder %s", rel)
	}

	folder := &Folder{Name: filepath.Base(dir), Path: rel}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		childRel := path.Join(rel, name)
		if r.ignored(childRel, e.IsDir()) {
			r.logger.Debug("ignored", "path", childRel)
			continue
		}

		switch {
		case e.IsDir():
			sub, err := r.read(filepath.Join(dir, name), childRel)
			if err != nil {
				return nil, err
			}
			if sub != nil {
				folder.Subfolders = append(folder.Subfolders, sub)
			}
		case e.Type().IsRegular() && r.matchesExtension(name):
			content, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read file %s", childRel)
			}
			folder.Files = append(folder.Files, &File{Name: name, Path: childRel, Content: string(content)})
		}
	}

	if len(folder.Files)+len(folder.Subfolders) == 0 {
		return nil, nil
	}
	return folder, nil
}

func (r *folderReader) matchesExtension(name string) bool {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	return ext != "" && slices.Contains(r.opts.Extensions, ext)
}

func (r *folderReader) ignored(rel string, isDir bool) bool {
	if r.gitignore != nil {
		candidate := rel
		if isDir {
			candidate += "/"
		}
		if r.gitignore.MatchesPath(candidate) {
			return true
		}
	}
	for _, pattern := range r.opts.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
