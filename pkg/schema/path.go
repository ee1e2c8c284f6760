package schema

import (
	"strconv"
	"strings"
)

// Segment is one step of a parsed field path: either an object key or an
// array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path is a field name parsed once into walkable segments. Both the compiler
// and the dispatcher's error lookup walk paths instead of re-splitting the
// raw string at each access.
type Path []Segment

// ParsePath splits a dotted field name into segments, expanding bracketed
// array indices ("phones[2].number" -> phones, 2, number). Malformed bracket
// expressions are kept as literal keys so parsing never fails.
func ParsePath(name string) Path {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	var path Path
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			continue
		}
		for {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				if part != "" {
					path = append(path, Segment{Key: part})
				}
				break
			}
			closing := strings.IndexByte(part[open:], ']')
			if closing < 0 {
				path = append(path, Segment{Key: part})
				break
			}
			closing += open
			idx, err := strconv.Atoi(part[open+1 : closing])
			if err != nil || idx < 0 {
				path = append(path, Segment{Key: part})
				break
			}
			if open > 0 {
				path = append(path, Segment{Key: part[:open]})
			}
			path = append(path, Segment{Index: idx, IsIndex: true})
			part = part[closing+1:]
			if part == "" {
				break
			}
		}
	}
	return path
}

// String renders the path back into dotted/bracketed notation.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Key)
	}
	return b.String()
}

// Nested reports whether the path has more than one segment, i.e. the field
// name was dotted or indexed.
func (p Path) Nested() bool { return len(p) > 1 }

// Head returns the first object key of the path, or "" for empty paths.
func (p Path) Head() string {
	if len(p) == 0 {
		return ""
	}
	return p[0].Key
}

// Child appends an object key segment, returning a new path.
func (p Path) Child(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Segment{Key: key})
}

// At appends an array index segment, returning a new path.
func (p Path) At(index int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Segment{Index: index, IsIndex: true})
}
