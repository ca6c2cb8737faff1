package form

// OptionLabel returns the Excel-style letter label for an option index:
// A..Z, then AA, AB, and so on.
func OptionLabel(index int) string {
	label := ""
	for cur := index; cur >= 0; cur = cur/26 - 1 {
		label = string(rune('A'+cur%26)) + label
	}
	return label
}

// OptionLabels returns the first n letter labels.
func OptionLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = OptionLabel(i)
	}
	return out
}
