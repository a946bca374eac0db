package catalogfile

// Config is the root structure of a catalog YAML file.
type Config struct {
	Categories []CategoryEntry `yaml:"categories"`
	About      AboutEntry      `yaml:"about"`
}

// CategoryEntry is one category block with its items.
type CategoryEntry struct {
	ID          string      `yaml:"id"`
	Label       string      `yaml:"label"`
	Icon        string      `yaml:"icon"`
	Description string      `yaml:"description"`
	Items       []ItemEntry `yaml:"items"`
}

// ItemEntry is a single resource link.
type ItemEntry struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	URL         string   `yaml:"url"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Source      string   `yaml:"source,omitempty"`
	Access      string   `yaml:"access,omitempty"`
	Official    bool     `yaml:"official,omitempty"`
	UpdateFreq  string   `yaml:"update_freq,omitempty"`
}

// AboutEntry holds the design documentation shown on the about view.
type AboutEntry struct {
	Names []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"names"`
	Logo struct {
		Visual  string `yaml:"visual"`
		Colors  string `yaml:"colors"`
		Concept string `yaml:"concept"`
	} `yaml:"logo"`
	Layout string `yaml:"layout"`
}
