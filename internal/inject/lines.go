package inject

import "strings"

// document is a file split into lines. Each line keeps its own terminator so
// untouched lines are joined back byte-identically, even when a file mixes
// CRLF and LF.
type document struct {
	lines []string
	// eols[i] terminates lines[i]; it is "" for an unterminated last line.
	eols []string
	// eol terminates inserted lines. It is the first break of the file.
	eol string
}

// detectEOL returns the terminator of the first line break, or "" if there is none.
func detectEOL(s string) string {
	idx := strings.IndexByte(s, '\n')
	if idx < 0 {
		return ""
	}
	if idx > 0 && s[idx-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func splitDocument(content string) document {
	doc := document{eol: detectEOL(content)}
	for content != "" {
		idx := strings.IndexByte(content, '\n')
		if idx < 0 {
			doc.lines = append(doc.lines, content)
			doc.eols = append(doc.eols, "")
			break
		}
		line, term := content[:idx], "\n"
		if strings.HasSuffix(line, "\r") {
			line, term = line[:len(line)-1], "\r\n"
		}
		doc.lines = append(doc.lines, line)
		doc.eols = append(doc.eols, term)
		content = content[idx+1:]
	}
	return doc
}

// insert places block before line at. terminated tells whether the block
// ends with a line break; it only matters for an empty document.
func (d *document) insert(at int, block []string, terminated bool) {
	eol := d.eol
	if eol == "" {
		eol = "\n"
	}
	eols := make([]string, len(block))
	for i := range eols {
		eols[i] = eol
	}

	// Appending after an unterminated last line moves the missing
	// terminator to the end of the block.
	if n := len(d.lines); at == n && len(block) > 0 {
		switch {
		case n > 0 && d.eols[n-1] == "":
			d.eols[n-1] = eol
			eols[len(eols)-1] = ""
		case n == 0 && !terminated:
			eols[len(eols)-1] = ""
		}
	}

	d.lines = splice(d.lines, at, block)
	d.eols = splice(d.eols, at, eols)
}

func (d document) join() string {
	var b strings.Builder
	for i, line := range d.lines {
		b.WriteString(line)
		b.WriteString(d.eols[i])
	}
	return b.String()
}

// bodyLines splits a rendered body into lines after dropping exactly one
// trailing line break. CRLF terminators are normalised away.
func bodyLines(body string) []string {
	switch {
	case strings.HasSuffix(body, "\r\n"):
		body = strings.TrimSuffix(body, "\r\n")
	case strings.HasSuffix(body, "\n"):
		body = strings.TrimSuffix(body, "\n")
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// blockAt reports whether lines[at:] starts with block.
func blockAt(lines []string, at int, block []string) bool {
	if at < 0 || at+len(block) > len(lines) {
		return false
	}
	for i, line := range block {
		if lines[at+i] != line {
			return false
		}
	}
	return true
}

func splice(lines []string, at int, block []string) []string {
	out := make([]string, 0, len(lines)+len(block))
	out = append(out, lines[:at]...)
	out = append(out, block...)
	return append(out, lines[at:]...)
}

func findAnchor(lines []string, anchor string) int {
	for i, line := range lines {
		if strings.Contains(line, anchor) {
			return i
		}
	}
	return -1
}
