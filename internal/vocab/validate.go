package vocab

import (
	"fmt"
	"strings"
)

func validateLevel(words []WordEntry) error {
	if len(words) == 0 {
		return fmt.Errorf("level is empty")
	}
	for i, w := range words {
		if !isTypeable(w.Name) {
			return fmt.Errorf("entry %d: invalid name %q", i, w.Name)
		}
		if len(w.Trans) == 0 || strings.TrimSpace(w.Trans[0]) == "" {
			return fmt.Errorf("entry %d (%s): missing translation", i, w.Name)
		}
	}
	return nil
}

// isTypeable accepts non-empty printable ASCII without surrounding spaces,
// so every byte of the name is one keystroke.
func isTypeable(name string) bool {
	if name == "" || strings.TrimSpace(name) != name {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch < ' ' || ch > '~' {
			return false
		}
	}
	return true
}
