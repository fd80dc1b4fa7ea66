package corpus

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader enumerates and loads problem instances from a directory of
// TSPLIB files. Known-optimal tour lengths come from an optional YAML
// index (instance name -> optimal length) in the same directory; an
// instance missing from the index simply has no optimum.
type Loader struct {
	dir    string
	optima map[string]float64
}

func NewLoader(dir, optimaFile string) (*Loader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open corpus dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path %s is not a directory", dir)
	}

	l := &Loader{dir: dir, optima: make(map[string]float64)}
	if optimaFile != "" {
		if err := l.loadOptima(filepath.Join(dir, optimaFile)); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *Loader) loadOptima(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Info("No optima index found, gaps will be unavailable", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read optima index: %w", err)
	}
	if err := yaml.Unmarshal(data, &l.optima); err != nil {
		return fmt.Errorf("parse optima index: %w", err)
	}
	for name, opt := range l.optima {
		if opt <= 0 {
			return fmt.Errorf("optima index: %q has non-positive optimum %v", name, opt)
		}
	}
	return nil
}

// ListInstances returns the names of all instances whose dimension is at
// most maxSize, in lexical order. Unreadable files are skipped with a
// warning; they must not abort the enumeration.
func (l *Loader) ListInstances(maxSize int) ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("list corpus dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tsp") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".tsp")
		dim, err := readDimension(filepath.Join(l.dir, e.Name()))
		if err != nil {
			slog.Warn("Skipping unreadable instance", "instance", name, "error", err)
			continue
		}
		if maxSize > 0 && dim > maxSize {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Load parses one instance and attaches its known optimum, if any.
func (l *Loader) Load(name string) (*Instance, error) {
	path := filepath.Join(l.dir, name+".tsp")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open instance %s: %w", name, err)
	}
	defer f.Close()

	inst, err := ParseTSPLIB(name, f)
	if err != nil {
		return nil, fmt.Errorf("parse instance %s: %w", name, err)
	}
	inst.Name = name
	if opt, ok := l.optima[name]; ok {
		inst.Optimal = opt
	}
	return inst, nil
}

// readDimension scans only the header, so enumeration stays cheap even
// for large instances.
func readDimension(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		key, value, ok := splitHeader(line)
		if !ok {
			if strings.HasSuffix(line, "_SECTION") {
				break
			}
			continue
		}
		if key == "DIMENSION" {
			return strconv.Atoi(value)
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("no DIMENSION header")
}
