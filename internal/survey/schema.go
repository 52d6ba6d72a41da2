package survey

import (
	_ "embed"
	"fmt"
	"os"

	"pulse-survey/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed survey.yaml
var defaultSchema []byte

// LoadSchema reads the survey definition from path, or the built-in one when
// path is empty, and lints it.
func LoadSchema(path string) (*domain.Schema, error) {
	data := defaultSchema
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read survey schema %s: %w", path, err)
		}
		data = b
	}
	return ParseSchema(data)
}

// ParseSchema decodes a YAML survey definition and lints it.
func ParseSchema(data []byte) (*domain.Schema, error) {
	var schema domain.Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse survey schema: %w", err)
	}
	if problems := Lint(&schema); len(problems) > 0 {
		return nil, domain.NewInvalidSchemaError(problems)
	}
	return &schema, nil
}

// Lint reports structural problems that would make answers ambiguous.
func Lint(schema *domain.Schema) []string {
	var problems []string
	seen := map[string]string{}

	claim := func(id, owner string) {
		if id == "" {
			problems = append(problems, fmt.Sprintf("%s has an empty id", owner))
			return
		}
		if prev, ok := seen[id]; ok {
			problems = append(problems, fmt.Sprintf("id %q used by both %s and %s", id, prev, owner))
			return
		}
		seen[id] = owner
	}

	if len(schema.Sections) == 0 {
		problems = append(problems, "schema has no sections")
	}

	for _, q := range schema.Questions() {
		owner := "question " + q.ID
		claim(q.ID, owner)

		if !q.Type.Valid() {
			problems = append(problems, fmt.Sprintf("%s has unknown type %q", owner, q.Type))
		}
		problems = append(problems, lintOptions(owner, q.Options)...)

		if q.Limit != 0 && q.Type != domain.TypeMultiSelectCheckbox {
			problems = append(problems, fmt.Sprintf("%s sets a limit but is not a multi-select", owner))
		}
		if q.Limit < 0 {
			problems = append(problems, fmt.Sprintf("%s has a negative limit", owner))
		}
		if len(q.Rows) > 0 && q.Type != domain.TypeLikertMatrix {
			problems = append(problems, fmt.Sprintf("%s has rows but is not a matrix", owner))
		}
		if q.Type == domain.TypeLikertMatrix {
			rows := map[string]bool{}
			for _, row := range q.Rows {
				if rows[row.ID] {
					problems = append(problems, fmt.Sprintf("%s repeats row %q", owner, row.ID))
				}
				rows[row.ID] = true
			}
		}

		if sub := q.SubQuestion; sub != nil {
			subOwner := "sub-question " + sub.ID
			claim(sub.ID, subOwner)
			if q.Type != domain.TypeConditionalRadio {
				problems = append(problems, fmt.Sprintf("%s owns a sub-question but is not a conditional radio", owner))
			}
			if len(sub.TriggerValues) == 0 {
				problems = append(problems, fmt.Sprintf("%s has no trigger values", subOwner))
			}
			problems = append(problems, lintOptions(subOwner, sub.Options)...)
		}
	}
	return problems
}

func lintOptions(owner string, opts []domain.Option) []string {
	var problems []string
	values := map[string]bool{}
	for _, opt := range opts {
		if values[opt.Value] {
			problems = append(problems, fmt.Sprintf("%s repeats option value %q", owner, opt.Value))
		}
		values[opt.Value] = true
	}
	return problems
}
