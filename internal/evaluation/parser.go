package evaluation

import (
	"regexp"
	"strconv"
	"strings"
)

// Model output is free text; these parsers are the only place its shape is
// interpreted. Everything downstream works with typed results.

var (
	// Numbering is only stripped when followed by whitespace so a
	// requirement that merely starts with a number ("99.9% uptime")
	// survives intact.
	listPrefixRe  = regexp.MustCompile(`^(?:[-*•]+\s*|\d+\s*[.):]\s+)`)
	verdictLineRe = regexp.MustCompile(`^(\d+)\s*[.):]\s*(.+)$`)
)

// ParseRequirements splits the model response into requirement lines:
// code fences removed, bullet markers and numbering prefixes stripped,
// whitespace trimmed, blank lines dropped. Order is preserved and no
// deduplication happens here.
func ParseRequirements(raw string) []string {
	requirements := make([]string, 0)
	for _, line := range strings.Split(stripCodeFence(raw), "\n") {
		line = strings.TrimSpace(line)
		line = listPrefixRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		requirements = append(requirements, line)
	}
	return requirements
}

// ParseVerdicts reads "N. <verdict>" lines into a 1-based index to verdict
// mapping and reports the indices in [1, n] that are missing or could not be
// parsed. The first occurrence of an index wins; lines that do not match the
// numbered form and indices outside [1, n] are ignored.
func ParseVerdicts(raw string, n int) (map[int]string, []int) {
	verdicts := make(map[int]string, n)

	for _, line := range strings.Split(stripCodeFence(raw), "\n") {
		match := verdictLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}

		index, err := strconv.Atoi(match[1])
		if err != nil || index < 1 || index > n {
			continue
		}

		if _, ok := verdicts[index]; ok {
			continue
		}

		verdicts[index] = strings.TrimSpace(match[2])
	}

	missing := make([]int, 0)
	for i := 1; i <= n; i++ {
		if _, ok := verdicts[i]; !ok {
			missing = append(missing, i)
		}
	}

	return verdicts, missing
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		if idx := strings.Index(raw, "\n"); idx != -1 {
			raw = raw[idx+1:]
		}
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
