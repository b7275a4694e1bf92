package data

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/servizzmalta/directory-cli/internal/model"
)

// comboFrontmatter is the YAML frontmatter of a combo editorial file.
type comboFrontmatter struct {
	TitleOverride       string           `yaml:"titleOverride"`
	DescriptionOverride string           `yaml:"descriptionOverride"`
	UniqueIntro         string           `yaml:"uniqueIntro"`
	PriceRange          string           `yaml:"priceRange"`
	Faqs                []model.ComboFaq `yaml:"faqs"`
}

// LoadCombos reads every `<category>__<location>.md` editorial under dir.
// A missing directory is not an error; the site simply has no combo pages yet.
func LoadCombos(dir string) ([]model.ComboEditorial, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "data: read combos dir %s", dir)
	}

	var combos []model.ComboEditorial
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}

		combo, err := parseComboFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		combos = append(combos, *combo)
	}

	return combos, nil
}

func parseComboFile(path string) (*model.ComboEditorial, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "data: read combo %s", path)
	}

	front, body, err := splitFrontmatter(string(raw))
	if err != nil {
		return nil, eris.Wrapf(err, "data: combo %s", path)
	}

	var fm comboFrontmatter
	if err := yaml.Unmarshal([]byte(front), &fm); err != nil {
		return nil, eris.Wrapf(err, "data: combo frontmatter %s", path)
	}

	key := strings.TrimSuffix(filepath.Base(path), ".md")
	categorySlug, locationSlug, ok := strings.Cut(key, "__")
	if !ok {
		return nil, eris.Errorf("data: combo file %s is not named <category>__<location>.md", path)
	}

	return &model.ComboEditorial{
		SlugKey:             key,
		CategorySlug:        categorySlug,
		LocationSlug:        locationSlug,
		TitleOverride:       fm.TitleOverride,
		DescriptionOverride: fm.DescriptionOverride,
		UniqueIntro:         fm.UniqueIntro,
		PriceRange:          fm.PriceRange,
		Faqs:                fm.Faqs,
		Body:                body,
	}, nil
}

// splitFrontmatter separates a `---` delimited YAML header from the markdown
// body.
func splitFrontmatter(raw string) (front, body string, err error) {
	trimmed := strings.TrimPrefix(raw, "\uFEFF")
	if !strings.HasPrefix(trimmed, "---") {
		return "", "", eris.New("missing frontmatter delimiter")
	}
	rest := strings.TrimPrefix(trimmed, "---")
	rest = strings.TrimPrefix(rest, "\n")

	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", "", eris.New("unterminated frontmatter")
	}
	front = rest[:idx]
	body = rest[idx+len("\n---"):]
	body = strings.TrimPrefix(body, "-") // tolerate ---- fences
	body = strings.TrimLeft(body, "\n")
	return front, strings.TrimSpace(body), nil
}
