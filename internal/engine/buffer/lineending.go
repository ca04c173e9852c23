package buffer

import "strings"

// LineEnding is the line break sequence a buffer stores.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // \n
	LineEndingCRLF                   // \r\n
	LineEndingCR                     // \r
)

var lineEndings = [...]struct{ seq, name string }{
	LineEndingLF:   {"\n", `\n`},
	LineEndingCRLF: {"\r\n", `\r\n`},
	LineEndingCR:   {"\r", `\r`},
}

// String returns the escaped sequence, such as `\r\n`. Unknown values
// print as LF.
func (le LineEnding) String() string {
	if int(le) >= len(lineEndings) {
		le = LineEndingLF
	}
	return lineEndings[le].name
}

// Sequence returns the raw line break characters.
func (le LineEnding) Sequence() string {
	if int(le) >= len(lineEndings) {
		le = LineEndingLF
	}
	return lineEndings[le].seq
}

// ParseLineEnding parses lf, crlf or cr, ignoring case. The aliases unix,
// windows, dos and mac are accepted and the empty string means LF.
func ParseLineEnding(s string) (LineEnding, bool) {
	switch strings.ToLower(s) {
	case "lf", "unix", "":
		return LineEndingLF, true
	case "crlf", "windows", "dos":
		return LineEndingCRLF, true
	case "cr", "mac":
		return LineEndingCR, true
	}
	return LineEndingLF, false
}

// Normalize rewrites every CRLF, CR and LF in s to le.
func (le LineEnding) Normalize(s string) string {
	if le == LineEndingLF && !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if le != LineEndingLF {
		s = strings.ReplaceAll(s, "\n", le.Sequence())
	}
	return s
}

// DetectLineEnding returns the most frequent line ending in text, LF when
// there is none. Ties prefer CRLF, then CR.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}

	switch {
	case crlf > 0 && crlf >= lf && crlf >= cr:
		return LineEndingCRLF
	case cr > 0 && cr >= lf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}
