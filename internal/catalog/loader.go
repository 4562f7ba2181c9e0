package catalog

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"advisor/internal/logging"
)

//go:embed data/courses.yaml data/tracks.yaml data/templates.yaml
var defaultData embed.FS

// Load reads and validates a catalog from a directory containing
// courses.yaml, tracks.yaml and templates.yaml. Any parse or integrity
// failure is fatal to startup.
func Load(dir string) (*Catalog, error) {
	timer := logging.StartTimer(logging.CategoryCatalog, "catalog.Load")
	defer timer.Stop()

	read := func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name))
	}
	return loadFrom(read)
}

// LoadDefault loads the embedded default catalog.
func LoadDefault() (*Catalog, error) {
	read := func(name string) ([]byte, error) {
		return defaultData.ReadFile("data/" + name)
	}
	return loadFrom(read)
}

func loadFrom(read func(name string) ([]byte, error)) (*Catalog, error) {
	var (
		cf coursesFile
		tf tracksFile
		pf templatesFile
	)

	// The three files are independent; parse them in parallel.
	var g errgroup.Group
	g.Go(func() error { return parseFile(read, "courses.yaml", &cf) })
	g.Go(func() error { return parseFile(read, "tracks.yaml", &tf) })
	g.Go(func() error { return parseFile(read, "templates.yaml", &pf) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(cf.Courses) == 0 {
		return nil, &LoadError{Kind: "parse", Detail: "courses.yaml contains no courses"}
	}

	return build(&cf, &tf, &pf)
}

func parseFile(read func(name string) ([]byte, error), name string, out interface{}) error {
	data, err := read(name)
	if err != nil {
		return &LoadError{Kind: "parse", Detail: fmt.Sprintf("read %s: %v", name, err)}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return &LoadError{Kind: "parse", Detail: fmt.Sprintf("parse %s: %v", name, err)}
	}
	return nil
}
