package catalogfile

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/linlv/internal/domain"
)

// Mapper converts a parsed catalog file into the domain catalog.
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapCatalog converts Config to a validated *domain.Catalog.
func (m *Mapper) MapCatalog(config Config) (*domain.Catalog, error) {
	if len(config.Categories) == 0 {
		return nil, fmt.Errorf("no categories found in catalog config")
	}

	categories := make([]domain.Category, 0, len(config.Categories))
	for _, entry := range config.Categories {
		category := domain.Category{
			ID:          domain.CategoryID(strings.ToLower(strings.TrimSpace(entry.ID))),
			Label:       entry.Label,
			Icon:        entry.Icon,
			Description: entry.Description,
			Records:     make([]domain.ResourceRecord, 0, len(entry.Items)),
		}

		for _, item := range entry.Items {
			category.Records = append(category.Records, mapItem(item))
		}

		categories = append(categories, category)
	}

	return domain.NewCatalog(categories, mapAbout(config.About))
}

func mapItem(item ItemEntry) domain.ResourceRecord {
	tags := make([]string, 0, len(item.Tags))
	for _, tag := range item.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return domain.ResourceRecord{
		ID:          strings.TrimSpace(item.ID),
		Title:       strings.TrimSpace(item.Title),
		URL:         strings.TrimSpace(item.URL),
		Description: strings.TrimSpace(item.Description),
		Tags:        tags,
		Source:      item.Source,
		Access:      domain.AccessLevel(strings.TrimSpace(item.Access)),
		Official:    item.Official,
		UpdateFreq:  item.UpdateFreq,
	}
}

func mapAbout(entry AboutEntry) domain.About {
	about := domain.About{
		Names: make([]domain.NameOption, 0, len(entry.Names)),
		Logo: domain.LogoConcept{
			Visual:  entry.Logo.Visual,
			Colors:  entry.Logo.Colors,
			Concept: entry.Logo.Concept,
		},
		Layout: entry.Layout,
	}
	for _, n := range entry.Names {
		about.Names = append(about.Names, domain.NameOption{
			Name:        n.Name,
			Description: n.Description,
		})
	}
	return about
}

// LoadCatalog is the one-call helper used at startup: read, parse, map.
func LoadCatalog(filePath string) (*domain.Catalog, error) {
	config, err := NewLoader(filePath).Load()
	if err != nil {
		return nil, err
	}
	catalog, err := NewMapper().MapCatalog(config)
	if err != nil {
		return nil, fmt.Errorf("failed to map catalog: %w", err)
	}
	return catalog, nil
}
