package alert

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Older backend versions logged equipment status by appending a JSON object
// to the free-text alert message, e.g.
//
//	Equipment status updated: {"Projector":"ready","HDMI cable":"pending"}
//
// This adapter recovers that fragment. It exists for compatibility with
// records written before the structured equipment column; new alerts carry
// the map directly and never go through here.
var legacyFragmentRe = regexp.MustCompile(`\{[^{}]*\}`)

// ParseLegacyEquipment extracts an embedded equipment-status object from a
// legacy message. On any parse failure the original text is returned
// untouched with a nil map, never an error.
func ParseLegacyEquipment(message string) (map[string]string, string) {
	fragment := legacyFragmentRe.FindString(message)
	if fragment == "" {
		return nil, message
	}

	var equipment map[string]string
	if err := json.Unmarshal([]byte(fragment), &equipment); err != nil {
		return nil, message
	}
	if len(equipment) == 0 {
		return nil, message
	}

	base := strings.Replace(message, fragment, "", 1)
	base = strings.TrimRight(strings.TrimSpace(base), ":")
	return equipment, strings.TrimSpace(base)
}
