package main

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"changos/internal/board"
)

var listItemRegex = regexp.MustCompile(`^\s*[-*]\s+(.*)$`)

// fieldValue is one form field preset taken from front matter.
type fieldValue struct {
	field string
	value string
}

func parseMarkdown(input string) (map[string]any, []string, error) {
	frontMatter := map[string]any{}
	content := input

	lines := strings.Split(input, "\n")
	if len(lines) >= 3 && strings.TrimSpace(lines[0]) == "---" {
		end := -1
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				end = i
				break
			}
		}
		if end == -1 {
			return nil, nil, fmt.Errorf("front matter not closed")
		}
		frontText := strings.Join(lines[1:end], "\n")
		if err := yaml.Unmarshal([]byte(frontText), &frontMatter); err != nil {
			return nil, nil, err
		}
		content = strings.Join(lines[end+1:], "\n")
	}

	items := []string{}
	for _, line := range strings.Split(content, "\n") {
		match := listItemRegex.FindStringSubmatch(line)
		if len(match) == 2 {
			item := strings.TrimSpace(match[1])
			if item != "" {
				items = append(items, item)
			}
		}
	}

	return frontMatter, items, nil
}

// frontMatterToFields turns front matter keys into form presets. Keys use the
// form field names; description is ignored since each item supplies it.
func frontMatterToFields(frontMatter map[string]any) ([]fieldValue, error) {
	allowed := map[string]bool{}
	for _, name := range board.FieldNames() {
		allowed[name] = true
	}

	keys := make([]string, 0, len(frontMatter))
	for key := range frontMatter {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]fieldValue, 0, len(keys))
	for _, key := range keys {
		field := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
		if field == "enviroment" {
			field = board.FieldEnvironment
		}
		if field == board.FieldDescription {
			continue
		}
		if !allowed[field] {
			return nil, fmt.Errorf("unknown front matter key: %s", key)
		}
		switch v := frontMatter[key].(type) {
		case nil:
			continue
		case string:
			out = append(out, fieldValue{field: field, value: v})
		case bool, int, int64, float64:
			out = append(out, fieldValue{field: field, value: fmt.Sprint(v)})
		default:
			return nil, fmt.Errorf("front matter key %s must be a scalar", key)
		}
	}
	return out, nil
}
