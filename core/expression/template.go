package expression

import (
	"strings"

	"solar-estimate/core/survey"
)

// placeholders are the only names a remarks template may substitute
var placeholders = []struct {
	name string
	get  func(s *survey.Survey) string
}{
	{"{module_maker}", func(s *survey.Survey) string { return s.Equipment.ModuleMaker }},
	{"{module_model}", func(s *survey.Survey) string { return s.Equipment.ModuleModel }},
	{"{pv_capacity_kw}", func(s *survey.Survey) string { return survey.NumberValue(s.Equipment.PVCapacityKW).String() }},
}

// ResolveTemplate substitutes the known placeholders in tmpl. Unknown
// placeholders are left as written.
func ResolveTemplate(tmpl string, s *survey.Survey) string {
	if s == nil || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	result := tmpl
	for _, p := range placeholders {
		if strings.Contains(result, p.name) {
			result = strings.ReplaceAll(result, p.name, p.get(s))
		}
	}
	return result
}

// Placeholders lists the names ResolveTemplate understands
func Placeholders() []string {
	names := make([]string, len(placeholders))
	for i, p := range placeholders {
		names[i] = p.name
	}
	return names
}
