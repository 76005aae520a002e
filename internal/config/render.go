package config

import (
	"fmt"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	var b strings.Builder
	b.WriteString("# things-to-check configuration (TOML)\n\n")

	top, sections, order := splitSections(GetConfigOptions())
	for _, o := range top {
		b.WriteString(strings.Join(optionLines(o), "\n") + "\n")
	}
	for _, section := range order {
		b.WriteString("[" + section + "]\n")
		for _, o := range sections[section] {
			b.WriteString(strings.Join(optionLines(o), "\n") + "\n")
		}
	}
	return b.String()
}

// UpdateTOML appends missing defaults to an existing TOML string and comments
// out keys that are no longer part of the schema. Existing values are kept.
func UpdateTOML(existing string) (string, bool) {
	opts := GetConfigOptions()
	known := make(map[string]bool, len(opts))
	for _, o := range opts {
		known[o.Key] = true
	}

	seen := make(map[string]bool)
	headerAt := make(map[string]int)
	firstHeader := -1
	currentSection := ""
	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			out = append(out, line)
			continue
		}
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			currentSection = strings.TrimSpace(trim[1 : len(trim)-1])
			if firstHeader == -1 {
				firstHeader = len(out)
			}
			if _, ok := headerAt[currentSection]; !ok {
				headerAt[currentSection] = len(out)
			}
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		fullKey := key
		if currentSection != "" {
			fullKey = currentSection + "." + key
		}
		seen[fullKey] = true
		if !known[fullKey] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema")
			out = append(out, indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
			continue
		}
		out = append(out, line)
	}

	missing := make([]ConfigOption, 0)
	for _, o := range opts {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	// Top-level keys must precede the first table header, and keys for an
	// existing table go right after its header; TOML forbids repeating one.
	top, sections, order := splitSections(missing)
	added := func(dst []string, opts []ConfigOption) []string {
		dst = append(dst, "# Added by config update")
		for _, o := range opts {
			dst = append(dst, optionLines(o)...)
		}
		return dst
	}
	merged := make([]string, 0, len(out)+4*len(missing))
	for i, line := range out {
		if i == firstHeader && len(top) > 0 {
			merged = added(merged, top)
		}
		merged = append(merged, line)
		for _, section := range order {
			if at, ok := headerAt[section]; ok && at == i {
				merged = added(merged, sections[section])
			}
		}
	}
	if firstHeader == -1 && len(top) > 0 {
		merged = added(append(merged, ""), top)
	}
	for _, section := range order {
		if _, ok := headerAt[section]; ok {
			continue
		}
		merged = append(merged, "", "["+section+"]")
		merged = added(merged, sections[section])
	}
	return strings.Join(merged, "\n"), true
}

func splitSections(opts []ConfigOption) ([]ConfigOption, map[string][]ConfigOption, []string) {
	top := make([]ConfigOption, 0, len(opts))
	sections := make(map[string][]ConfigOption)
	order := make([]string, 0)
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, exists := sections[section]; !exists {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") {
		return "", false
	}
	if strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func optionLines(o ConfigOption) []string {
	var lines []string
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	switch v := o.Default.(type) {
	case string:
		lines = append(lines, fmt.Sprintf("%s = %q", o.Key, v))
	default:
		lines = append(lines, fmt.Sprintf("%s = %v", o.Key, v))
	}
	return append(lines, "")
}
