// Package insights parses free-text campaign analysis into structured fields.
package insights

import (
	"regexp"
	"strings"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
)

var (
	markup = strings.NewReplacer("**", "", "__", "", "*", "", "#", "")

	// a label at the start of a line, optionally behind a bullet or list number
	labelRe = regexp.MustCompile(`(?im)^[ \t]*(?:[-•]|\d+[.)])?[ \t]*(summary|suggestions|tags|next best send time|next best time|recommended send time)[ \t]*:`)

	bulletRe = regexp.MustCompile(`^(?:[-•]|\d+[.)])\s*`)
)

// Parse extracts summary, suggestions, tags and next send time from a reply
// laid out as labeled sections. Emphasis and header markup is removed first;
// any section that cannot be found is left empty.
func Parse(raw string) models.CampaignInsights {
	out := models.CampaignInsights{
		Suggestions: []string{},
		Tags:        []string{},
	}

	text := markup.Replace(strings.ReplaceAll(raw, "\r\n", "\n"))
	sections := split(text)

	out.Summary = joinLines(sections["summary"])
	out.Suggestions = items(sections["suggestions"], false)
	out.Tags = items(sections["tags"], true)
	out.NextSendTime = joinLines(sections["next"])
	return out
}

// split maps each known label to the text between it and the next label
func split(text string) map[string]string {
	sections := make(map[string]string)
	locs := labelRe.FindAllStringSubmatchIndex(text, -1)
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		key := canonical(text[loc[2]:loc[3]])
		if _, seen := sections[key]; seen {
			continue
		}
		sections[key] = text[loc[1]:end]
	}
	return sections
}

func canonical(label string) string {
	switch strings.ToLower(label) {
	case "summary":
		return "summary"
	case "suggestions":
		return "suggestions"
	case "tags":
		return "tags"
	default:
		return "next"
	}
}

func joinLines(s string) string {
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// items splits a section into list entries. Tags are also split on commas.
func items(s string, commas bool) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		pieces := []string{line}
		if commas {
			pieces = strings.Split(line, ",")
		}
		for _, p := range pieces {
			p = strings.TrimSpace(bulletRe.ReplaceAllString(strings.TrimSpace(p), ""))
			p = strings.Trim(p, `"'`)
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
