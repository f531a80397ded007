package storage

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// metadataKey is the frontmatter key holding template configuration. It is
// removed from notes rendered from the template.
const metadataKey = "foam_template"

// SplitFrontmatter separates a leading YAML frontmatter block from the body.
// ok is false when content has no complete frontmatter block.
func SplitFrontmatter(content string) (frontmatter, body string, ok bool) {
	var rest string
	switch {
	case strings.HasPrefix(content, "---\n"):
		rest = content[len("---\n"):]
	case strings.HasPrefix(content, "---\r\n"):
		rest = content[len("---\r\n"):]
	default:
		return "", content, false
	}

	offset := 0
	for {
		nl := strings.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		if nl >= 0 {
			line = rest[offset : offset+nl]
		}
		if strings.TrimRight(line, "\r") == "---" {
			frontmatter = rest[:offset]
			if nl >= 0 {
				body = rest[offset+nl+1:]
			}
			return frontmatter, body, true
		}
		if nl < 0 {
			return "", content, false
		}
		offset += nl + 1
	}
}

// TemplateBlock cuts the top-level foam_template entry out of frontmatter.
// It works on lines so the other keys, which may hold placeholder tokens
// that are not valid YAML until rendered, are never parsed. rest is the
// frontmatter without the entry, byte for byte.
func TemplateBlock(frontmatter string) (block, rest string, found bool) {
	lines := strings.SplitAfter(frontmatter, "\n")

	start := -1
	for i, line := range lines {
		if isMetadataKey(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return "", frontmatter, false
	}

	end := start + 1
	for end < len(lines) && continuesBlock(lines[end]) {
		end++
	}
	// trailing blank lines belong to what follows
	for end > start+1 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}

	block = strings.Join(lines[start:end], "")
	rest = strings.Join(lines[:start], "") + strings.Join(lines[end:], "")
	return block, rest, true
}

func isMetadataKey(line string) bool {
	if !strings.HasPrefix(line, metadataKey+":") {
		return false
	}
	after := strings.TrimRight(line[len(metadataKey)+1:], "\r\n")
	return after == "" || after[0] == ' ' || after[0] == '\t'
}

func continuesBlock(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	return line[0] == ' ' || line[0] == '\t'
}

// StripTemplateMetadata removes the foam_template key from the frontmatter of
// content. Everything else in the file is kept verbatim; an emptied
// frontmatter block is dropped along with the blank lines that followed it.
func StripTemplateMetadata(content string) (string, error) {
	fm, body, ok := SplitFrontmatter(content)
	if !ok {
		return content, nil
	}

	block, rest, found := TemplateBlock(fm)
	if !found {
		return content, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(block), &node); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", metadataKey, err)
	}

	if onlyBlankOrComments(rest) {
		return strings.TrimLeft(body, "\r\n"), nil
	}

	opening := "---\n"
	if strings.HasPrefix(content, "---\r\n") {
		opening = "---\r\n"
	}
	closing := content[len(opening)+len(fm) : len(content)-len(body)]

	return opening + rest + closing + body, nil
}

func onlyBlankOrComments(frontmatter string) bool {
	for _, line := range strings.Split(frontmatter, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return false
		}
	}
	return true
}
