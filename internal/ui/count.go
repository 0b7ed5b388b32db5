package ui

import "fmt"

// Count: "1 violation", "2 violations". Существительные llvet образуют
// множественное число через -s.
func Count(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
