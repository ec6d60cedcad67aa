// Package templates provides the seed documents new lists can start from.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/starford/packapp/internal/packing"
)

// DefaultID is the template used when none is requested.
const DefaultID = "default"

//go:embed seeds/*.yaml
var seedFS embed.FS

// Template describes an available seed.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ItemCount   int    `json:"item_count"`
}

type seedNode struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Checked bool        `yaml:"checked"`
	Items   *[]seedNode `yaml:"items"`
}

type seed struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Items       []seedNode `yaml:"items"`
}

var seeds = mustLoad()

func mustLoad() map[string]seed {
	out, err := load(seedFS)
	if err != nil {
		panic(err)
	}
	return out
}

func load(fsys fs.FS) (map[string]seed, error) {
	files, err := fs.Glob(fsys, "seeds/*.yaml")
	if err != nil {
		return nil, err
	}
	out := make(map[string]seed, len(files))
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("templates: read %s: %w", f, err)
		}
		var s seed
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("templates: parse %s: %w", f, err)
		}
		if s.ID == "" {
			s.ID = strings.TrimSuffix(path.Base(f), ".yaml")
		}
		if s.Name == "" {
			s.Name = titleFromID(s.ID)
		}
		out[s.ID] = s
	}
	return out, nil
}

// titleFromID turns "beach-holiday" into "Beach Holiday".
func titleFromID(id string) string {
	caser := cases.Title(language.English)
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// List returns every template sorted by id, default first.
func List() []Template {
	out := make([]Template, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, Template{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			ItemCount:   countSeedItems(s.Items),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if (out[i].ID == DefaultID) != (out[j].ID == DefaultID) {
			return out[i].ID == DefaultID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Instantiate builds a new document from the template id. Nodes without an id
// in the seed get a fresh one. An empty id selects the default template.
func Instantiate(id string) (packing.Document, error) {
	if id == "" {
		id = DefaultID
	}
	s, ok := seeds[id]
	if !ok {
		return packing.Document{}, &packing.NotFoundError{Kind: "template", ID: id}
	}
	return packing.Document{Name: s.Name, Items: buildNodes(s.Items)}, nil
}

// Default returns a fresh copy of the default template.
func Default() packing.Document {
	doc, err := Instantiate(DefaultID)
	if err != nil {
		return packing.Document{Name: "My Packing List", Items: []packing.Node{}}
	}
	return doc
}

func buildNodes(in []seedNode) []packing.Node {
	out := make([]packing.Node, 0, len(in))
	for _, sn := range in {
		n := packing.Node{ID: sn.ID, Name: sn.Name}
		if n.ID == "" {
			n.ID = packing.NewID()
		}
		if sn.Items != nil {
			n.Kind = packing.KindList
			n.Items = buildNodes(*sn.Items)
		} else {
			n.Kind = packing.KindItem
			n.Checked = sn.Checked
		}
		out = append(out, n)
	}
	return out
}

func countSeedItems(in []seedNode) int {
	total := 0
	for _, sn := range in {
		if sn.Items != nil {
			total += countSeedItems(*sn.Items)
		} else {
			total++
		}
	}
	return total
}
