package typeinfo

import "strings"

// C++ type-name helpers. These operate purely on text; no demangling is
// involved because captures carry already-readable names.

// SplitTemplate splits "ns::name<args>" into the base identifier and the
// raw argument text (without the angle brackets). Names without template
// arguments return ok with empty args. Malformed names (unbalanced
// brackets, trailing text) return ok = false.
func SplitTemplate(name string) (base, args string, ok bool) {
	lt := strings.IndexByte(name, '<')
	if lt < 0 {
		return name, "", name != ""
	}
	if lt == 0 || !strings.HasSuffix(name, ">") {
		return "", "", false
	}
	depth := 0
	for i := lt; i < len(name); i++ {
		switch name[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 && i != len(name)-1 {
				return "", "", false
			}
		}
	}
	if depth != 0 {
		return "", "", false
	}
	return name[:lt], name[lt+1 : len(name)-1], true
}

// SplitArgs splits template argument text at top-level commas, trimming
// the surrounding whitespace of each argument.
func SplitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case '<', '(':
			depth++
		case '>', ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(args[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(args[start:]))
	return out
}

// EnclosingScope drops the last "::component" of a qualified name,
// ignoring separators inside template argument lists. It returns ok =
// false when the name has no top-level scope separator.
func EnclosingScope(name string) (string, bool) {
	depth, last := 0, -1
	for i := 0; i+1 < len(name); i++ {
		switch name[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ':':
			if depth == 0 && name[i+1] == ':' {
				last = i
			}
		}
	}
	if last < 0 {
		return "", false
	}
	return name[:last], true
}
