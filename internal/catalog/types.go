package catalog

// Course is one catalog entry. Immutable once loaded.
type Course struct {
	Code          string   `yaml:"code"`
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Credits       float64  `yaml:"credits"`
	Difficulty    float64  `yaml:"difficulty"`
	Prerequisites []string `yaml:"prerequisites"`
	Outcomes      []string `yaml:"outcomes"`
}

// SelectiveGroup is a named pool of interchangeable elective courses
// satisfying one track requirement slot.
type SelectiveGroup struct {
	Name     string   `yaml:"name"`
	MinCount int      `yaml:"min_count"`
	Courses  []string `yaml:"courses"`
}

// Track is a degree specialization with hard requirements and selective
// pools.
type Track struct {
	Name       string           `yaml:"name"`
	Aliases    []string         `yaml:"aliases"`
	Required   []string         `yaml:"required"`
	Selectives []SelectiveGroup `yaml:"selectives"`
}

// TemplateKey addresses one progression template.
type TemplateKey struct {
	Year     string
	Semester string
}

// CODORequirements is the change-of-degree-objective entity, served verbatim
// on a structured lookup.
type CODORequirements struct {
	MinGPA   float64  `yaml:"min_gpa"`
	MinGrade string   `yaml:"min_grade"`
	Required []string `yaml:"required"`
	Notes    string   `yaml:"notes"`
}

// YAML file shapes.

type coursesFile struct {
	Courses []Course `yaml:"courses"`
}

type tracksFile struct {
	Tracks []Track `yaml:"tracks"`
}

type templateEntry struct {
	Year     string   `yaml:"year"`
	Semester string   `yaml:"semester"`
	Courses  []string `yaml:"courses"`
}

type templatesFile struct {
	Templates []templateEntry   `yaml:"templates"`
	CODO      *CODORequirements `yaml:"codo"`
}
