package tags

import (
	"bytes"
	"strings"

	"github.com/viant/parsly"
)

// Values represents comma separated declaration options, i.e. "optional,default={80,443}"
type Values string

// MatchPairs calls onMatch for every key[=value] option, {...} and '...' values are matched as a whole
func (v Values) MatchPairs(onMatch func(key, value string) error) error {
	cursor := parsly.NewCursor("", []byte(v), 0)
	for cursor.Pos < len(cursor.Input) {
		key, value := matchPair(cursor)
		if key == "" {
			continue
		}
		if err := onMatch(key, value); err != nil {
			return err
		}
	}
	return nil
}

func matchPair(cursor *parsly.Cursor) (string, string) {
	cursor.MatchOne(whitespaceMatcher)
	rest := cursor.Input[cursor.Pos:]
	eqIndex := bytes.IndexByte(rest, '=')
	comaIndex := bytes.IndexByte(rest, ',')
	if eqIndex == -1 || (comaIndex != -1 && comaIndex < eqIndex) {
		return strings.TrimSpace(matchValue(cursor)), ""
	}
	match := cursor.MatchOne(eqTerminatorMatcher)
	key := match.Text(cursor)
	key = strings.TrimSpace(key[:len(key)-1])
	return key, matchValue(cursor)
}

// matchValue matches text up to the next coma, the coma is consumed
func matchValue(cursor *parsly.Cursor) string {
	match := cursor.MatchAny(scopeBlockMatcher, quotedMatcher, comaTerminatorMatcher)
	switch match.Code {
	case scopeBlockToken, quotedToken:
		value := match.Text(cursor)
		cursor.MatchAny(comaTerminatorMatcher)
		return value
	case comaTerminatorToken:
		value := match.Text(cursor)
		return value[:len(value)-1]
	}
	value := ""
	if cursor.Pos < len(cursor.Input) {
		value = string(cursor.Input[cursor.Pos:])
		cursor.Pos = len(cursor.Input)
	}
	return value
}
