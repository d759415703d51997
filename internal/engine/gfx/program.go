package gfx

import (
	"sort"
	"strings"
)

// Stage names used in compile errors and logs.
const (
	StageVertex   = "vertex"
	StageFragment = "fragment"
	StageGeometry = "geometry"
)

// Expand returns the source of one stage with Defines inserted as #define
// lines directly after the #version directive. Returns "" for an absent stage.
func (s ProgramSource) Expand(stage string) string {
	var src string
	switch stage {
	case StageVertex:
		src = s.Vertex
	case StageFragment:
		src = s.Fragment
	case StageGeometry:
		src = s.Geometry
	}
	if src == "" || len(s.Defines) == 0 {
		return src
	}

	keys := make([]string, 0, len(s.Defines))
	for k := range s.Defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var defs strings.Builder
	for _, k := range keys {
		defs.WriteString("#define ")
		defs.WriteString(k)
		if v := s.Defines[k]; v != "" {
			defs.WriteByte(' ')
			defs.WriteString(v)
		}
		defs.WriteByte('\n')
	}

	// #version must stay the first statement.
	if strings.HasPrefix(strings.TrimSpace(src), "#version") {
		start := strings.Index(src, "#version")
		end := strings.IndexByte(src[start:], '\n')
		if end < 0 {
			return src + "\n" + defs.String()
		}
		cut := start + end + 1
		return src[:cut] + defs.String() + src[cut:]
	}
	return defs.String() + src
}
