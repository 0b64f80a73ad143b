package activator

import (
	"reflect"
	"strings"
)

const (
	//SetMarkerTag defines presence marker tag
	SetMarkerTag = "presenceMarker"

	legacyMarkerTag = "presenceIndex"

	shortMarkerTag = "setMarker"

	legacyTagFragment = "presence=true"
)

// IsSetMarker returns true if field holds presence marker
func IsSetMarker(tag reflect.StructTag) bool {
	if _, ok := tag.Lookup(SetMarkerTag); ok {
		return true
	}
	if _, ok := tag.Lookup(legacyMarkerTag); ok {
		return true
	}
	if _, ok := tag.Lookup(shortMarkerTag); ok {
		return true
	}
	return strings.Contains(string(tag), legacyTagFragment)
}
