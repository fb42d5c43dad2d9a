// Package model normalises model identifiers reported by providers so usage
// for the same model aggregates under one name.
package model

import (
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Unknown is the name used for rows with no model identifier.
const Unknown = "unknown"

var providerPrefixes = []string{"openai/", "azure/", "models/"}

// Dated snapshot suffixes: -2024-08-06 or -0613.
var snapshotSuffix = regexp.MustCompile(`-(\d{4}-\d{2}-\d{2}|\d{4})$`)

var canonical = map[string]struct{}{}

func init() {
	for _, name := range []string{
		openai.GPT5, openai.GPT5Mini, openai.GPT5Nano,
		openai.GPT4Dot1, openai.GPT4Dot1Mini, openai.GPT4Dot1Nano,
		openai.GPT4o, openai.GPT4oMini, openai.GPT4Turbo, openai.GPT4, openai.GPT432K,
		openai.GPT4Dot5Preview, openai.GPT3Dot5Turbo, openai.GPT3Dot5Turbo16K,
		openai.O1, openai.O1Mini, openai.O1Preview, openai.O3, openai.O3Mini, openai.O4Mini,
		string(openai.AdaEmbeddingV2), string(openai.SmallEmbedding3), string(openai.LargeEmbedding3),
	} {
		canonical[name] = struct{}{}
	}
}

// Normalize maps a raw model identifier to its canonical name.
// Unknown identifiers come back trimmed and lower-cased.
func Normalize(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return Unknown
	}
	for _, p := range providerPrefixes {
		if trimmed, ok := strings.CutPrefix(name, p); ok && trimmed != "" {
			name = trimmed
			break
		}
	}
	if _, ok := canonical[name]; ok {
		return name
	}
	if base := snapshotSuffix.ReplaceAllString(name, ""); base != name {
		if _, ok := canonical[base]; ok {
			return base
		}
	}
	return name
}
