package agent

import "strings"

// Models rarely follow the "one per line, no bullets" instruction exactly,
// so list responses are cleaned line by line.

// parseListItems splits a response into trimmed, non-empty lines, stripping
// leading bullet markers and skipping bare numbering lines.
func parseListItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		item := trimBullet(line)
		if item == "" || isNumberOnly(item) {
			continue
		}
		items = append(items, item)
	}
	return items
}

// parseQuestions keeps only lines that actually contain a question.
func parseQuestions(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		item := trimBullet(line)
		if item == "" || !strings.Contains(item, "?") {
			continue
		}
		questions = append(questions, item)
	}
	return questions
}

// parseBehavioral keeps question lines plus the STAR-style prompts that end
// without a question mark ("Tell me about a time when...").
func parseBehavioral(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		item := trimBullet(line)
		if item == "" {
			continue
		}
		if strings.Contains(item, "?") ||
			strings.Contains(item, "Tell me") ||
			strings.Contains(item, "Describe") {
			questions = append(questions, item)
		}
	}
	return questions
}

func trimBullet(line string) string {
	item := strings.TrimSpace(line)
	item = strings.TrimLeft(item, "-•* \t")
	// Strip "1." / "12)" style numbering prefixes.
	for i, r := range item {
		if r >= '0' && r <= '9' {
			continue
		}
		if (r == '.' || r == ')') && i > 0 {
			item = strings.TrimSpace(item[i+1:])
		}
		break
	}
	return strings.TrimSpace(item)
}

func isNumberOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
