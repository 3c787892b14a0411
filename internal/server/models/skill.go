package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/skillswap/internal/common"
)

// Skill is a normalized skill name: trimmed and lower-cased.
type Skill string

// ParseSkill normalizes s. Empty input is rejected.
func ParseSkill(s string) (Skill, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	if n == "" {
		return "", fmt.Errorf("%w: skill is empty", common.ErrValidation)
	}
	return Skill(n), nil
}

// ParseSkillSet normalizes every entry and drops duplicates, keeping the
// first occurrence order.
func ParseSkillSet(in []string) ([]Skill, error) {
	out := make([]Skill, 0, len(in))
	seen := make(map[Skill]struct{}, len(in))
	for _, raw := range in {
		s, err := ParseSkill(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// SkillStrings converts skills for storage.
func SkillStrings(in []Skill) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
