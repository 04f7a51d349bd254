package markdown

// FenceTracker tracks whether iteration is currently inside a fenced
// region (code fence or YAML metadata block) while walking a document
// line by line.
//
// The closing delimiter line is still reported as inside the fence.
type FenceTracker struct {
	inCode bool
	inYAML bool
}

// Inside reports whether the line is part of a fenced region, updating
// the tracker state as delimiters are crossed.
func (f *FenceTracker) Inside(line string) bool {
	if f.inCode {
		if _, ok := MatchCodeFence(line); ok {
			f.inCode = false
		}
		return true
	}
	if f.inYAML {
		if MatchYAMLDelimiter(line) {
			f.inYAML = false
		}
		return true
	}

	if _, ok := MatchCodeFence(line); ok {
		f.inCode = true
		return true
	}
	if MatchYAMLDelimiter(line) {
		f.inYAML = true
		return true
	}

	return false
}

// NumberedLine pairs a line with its 0-based line number.
type NumberedLine struct {
	Number int
	Line   string
}

// OutsideFences returns the lines that are not part of a code fence or
// YAML metadata block, with their line numbers.
func OutsideFences(lines []string) []NumberedLine {
	var out []NumberedLine
	var tracker FenceTracker
	for i, line := range lines {
		if tracker.Inside(line) {
			continue
		}
		out = append(out, NumberedLine{Number: i, Line: line})
	}
	return out
}

// CodeLines returns the lines inside code fences, delimiter lines
// excluded.
func CodeLines(lines []string) []NumberedLine {
	var out []NumberedLine
	var tracker FenceTracker
	for i, line := range lines {
		wasCode := tracker.inCode
		tracker.Inside(line)
		if wasCode && tracker.inCode {
			out = append(out, NumberedLine{Number: i, Line: line})
		}
	}
	return out
}
