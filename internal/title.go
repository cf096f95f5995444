package internal

import "strconv"

// DefaultTitleBase is the label new conversations are named after
const DefaultTitleBase = "New Chat"

// NextTitle returns the first of base, "base 1", "base 2", ... that is not
// already used by one of the existing titles. It only looks at the titles it
// is given and makes no attempt to guard against concurrent creators.
func NextTitle(existing []string, base string) string {
	used := make(map[string]struct{}, len(existing))
	for _, title := range existing {
		used[title] = struct{}{}
	}

	candidate := base
	for n := 1; ; n++ {
		if _, taken := used[candidate]; !taken {
			return candidate
		}
		candidate = base + " " + strconv.Itoa(n)
	}
}
