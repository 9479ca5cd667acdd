// SPDX-License-Identifier: Apache-2.0
package preview

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-version"
	"github.com/patrickmn/go-cache"

	"github.com/Work-Fort/Crucible/pkg/initializer"
	"github.com/Work-Fort/Crucible/pkg/project"
)

// Environment describes the build tool installation used for the project
type Environment struct {
	Tool        string
	ToolVersion *version.Version
	Kotlin      string
	JVM         string
	OS          string
	JavaHome    string
}

// VersionString returns the tool version or "unknown"
func (e Environment) VersionString() string {
	if e.ToolVersion == nil {
		return "unknown"
	}
	return e.ToolVersion.String()
}

// Model is the project structure read back from the initialized directory
type Model struct {
	Dir         string
	RootName    string
	Subprojects []string
	BuildFiles  []string
}

var settingsFiles = []string{"settings.gradle.kts", "settings.gradle"}

var (
	rootNamePattern = regexp.MustCompile(`rootProject\.name\s*=\s*["']([^"']+)["']`)
	includePattern  = regexp.MustCompile(`^\s*include\b(.*)$`)
	quotedPattern   = regexp.MustCompile(`["']([^"']+)["']`)
	toolLinePattern = regexp.MustCompile(`^([A-Za-z][\w-]*)\s+(\d\S*)$`)
)

// GradleQuerier reads metadata by asking the tool for its version and
// parsing the settings script it generated.
type GradleQuerier struct {
	runner initializer.Runner
	envs   *cache.Cache
}

// NewGradleQuerier caches environments for ttl. A ttl of zero or less
// queries the tool every time.
func NewGradleQuerier(runner initializer.Runner, ttl time.Duration) *GradleQuerier {
	if runner == nil {
		runner = initializer.ExecRunner{}
	}
	q := &GradleQuerier{runner: runner}
	if ttl > 0 {
		q.envs = cache.New(ttl, 2*ttl)
	}
	return q
}

// Query implements Querier
func (q *GradleQuerier) Query(ctx context.Context, dir string, cfg project.BuildConfig, progress initializer.ProgressFunc) (Environment, Model, error) {
	if progress == nil {
		progress = initializer.Discard
	}

	env, err := q.Environment(ctx, dir, cfg)
	if err != nil {
		return Environment{}, Model{}, err
	}
	progress(initializer.Progress{Phase: initializer.PhaseQuery, Message: fmt.Sprintf("%s %s", env.Tool, env.VersionString())})

	if err := ctx.Err(); err != nil {
		return Environment{}, Model{}, fmt.Errorf("%w: %w", project.ErrCancelled, err)
	}

	model, err := ReadModel(dir)
	if err != nil {
		return Environment{}, Model{}, err
	}
	return env, model, nil
}

// Environment runs `<tool> --version` in dir, reusing a cached answer for
// the same tool and JAVA_HOME.
func (q *GradleQuerier) Environment(ctx context.Context, dir string, cfg project.BuildConfig) (Environment, error) {
	key := cfg.ToolCommand + "\x00" + cfg.JavaHome
	if q.envs != nil {
		if cached, ok := q.envs.Get(key); ok {
			return cached.(Environment), nil
		}
	}

	var out bytes.Buffer
	err := q.runner.Run(ctx, initializer.Invocation{
		Command: cfg.ToolCommand,
		Args:    []string{"--version"},
		Dir:     dir,
		Env:     cfg.Env(),
		Output:  &out,
	})
	if err != nil {
		if ctx.Err() != nil {
			return Environment{}, fmt.Errorf("%w: %w", project.ErrCancelled, err)
		}
		return Environment{}, fmt.Errorf("%w: %s --version: %w", project.ErrMetadataQuery, cfg.ToolCommand, err)
	}

	env, err := ParseVersionOutput(out.String())
	if err != nil {
		return Environment{}, err
	}
	env.JavaHome = cfg.JavaHome

	if q.envs != nil {
		q.envs.Set(key, env, cache.DefaultExpiration)
	}
	return env, nil
}

// ParseVersionOutput extracts the environment from `gradle --version` output
func ParseVersionOutput(out string) (Environment, error) {
	var env Environment
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "---") {
			continue
		}

		if env.Tool == "" {
			if m := toolLinePattern.FindStringSubmatch(line); m != nil {
				v, err := version.NewVersion(m[2])
				if err != nil {
					return Environment{}, fmt.Errorf("%w: unrecognized tool version %q: %w", project.ErrMetadataQuery, m[2], err)
				}
				env.Tool = m[1]
				env.ToolVersion = v
				continue
			}
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Kotlin":
			env.Kotlin = value
		case "JVM":
			env.JVM = value
		case "OS":
			env.OS = value
		}
	}

	if env.ToolVersion == nil {
		return Environment{}, fmt.Errorf("%w: no version in tool output", project.ErrMetadataQuery)
	}
	return env, nil
}

// ReadModel reads the project name, subprojects and build files from dir
func ReadModel(dir string) (Model, error) {
	model := Model{Dir: dir, RootName: filepath.Base(dir)}

	info, err := os.Stat(dir)
	if err != nil {
		return Model{}, fmt.Errorf("%w: %w", project.ErrMetadataQuery, err)
	}
	if !info.IsDir() {
		return Model{}, fmt.Errorf("%w: %s is not a directory", project.ErrMetadataQuery, dir)
	}

	for _, name := range settingsFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		root, subprojects := parseSettings(string(data))
		if root != "" {
			model.RootName = root
		}
		model.Subprojects = subprojects
		break
	}

	files, err := findBuildFiles(dir)
	if err != nil {
		return Model{}, fmt.Errorf("%w: %w", project.ErrMetadataQuery, err)
	}
	model.BuildFiles = files
	return model, nil
}

func parseSettings(script string) (root string, subprojects []string) {
	if m := rootNamePattern.FindStringSubmatch(script); m != nil {
		root = m[1]
	}
	for _, line := range strings.Split(script, "\n") {
		m := includePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, q := range quotedPattern.FindAllStringSubmatch(m[1], -1) {
			subprojects = append(subprojects, strings.TrimPrefix(q[1], ":"))
		}
	}
	return root, subprojects
}

func findBuildFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// The preview directory may be deleted underneath us
			log.Debugf("preview: walk %s: %v", path, err)
			return fs.SkipDir
		}
		if d.IsDir() {
			switch d.Name() {
			case ".gradle", "build", ".git":
				return fs.SkipDir
			}
			return nil
		}
		if isBuildFile(d.Name()) {
			rel, _ := filepath.Rel(dir, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func isBuildFile(name string) bool {
	switch name {
	case "build.gradle", "build.gradle.kts", "settings.gradle", "settings.gradle.kts":
		return true
	}
	return false
}
