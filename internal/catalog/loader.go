package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Catalog is the read-only product source. It is loaded once at startup
// from a directory of JSON files, one file per category.
type Catalog struct {
	products []Product
	byID     map[string]Product
}

// filePattern matches catalog files anywhere under the catalog directory.
const filePattern = "**/*.json"

// Load reads every product file under dir. Each file holds either a bare
// product array or an object with a "products" key. A product without a
// category inherits the file's base name.
func Load(dir string) (*Catalog, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}

	c := &Catalog{byID: make(map[string]Product)}
	for _, path := range files {
		products, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading catalog file %s: %w", path, err)
		}
		for _, p := range products {
			if p.ID == "" {
				continue
			}
			if _, dup := c.byID[p.ID]; dup {
				continue
			}
			c.byID[p.ID] = p
			c.products = append(c.products, p)
		}
	}
	return c, nil
}

// ListFiles returns the catalog JSON files under dir in stable order.
func ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		if matched, err := doublestar.PathMatch(filePattern, filepath.ToSlash(rel)); err == nil && matched {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking catalog dir %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile parses a single catalog file.
func LoadFile(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	products, err := parseProducts(data)
	if err != nil {
		return nil, err
	}

	// Category defaults to the file name: data/catalog/kodomo.json -> kodomo.
	category := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i := range products {
		if products[i].Category == "" {
			products[i].Category = category
		}
	}
	return products, nil
}

// parseProducts accepts both catalog file shapes: a bare array or an object
// wrapping the array under "products".
func parseProducts(data []byte) ([]Product, error) {
	var wrapped struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Products != nil {
		return wrapped.Products, nil
	}

	var bare []Product
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("parsing products: %w", err)
	}
	return bare, nil
}

// Products returns all products in load order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// ByCategory returns the products of one category in load order.
func (c *Catalog) ByCategory(category string) []Product {
	var out []Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// ByID looks up a product by its id.
func (c *Catalog) ByID(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Len returns the number of loaded products.
func (c *Catalog) Len() int {
	return len(c.products)
}
