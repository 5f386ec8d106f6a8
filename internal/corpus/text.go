package corpus

import "slices"

// normalizeCRLF replaces every \r\n with \n, leaving lone \r untouched.
func normalizeCRLF(content []byte) []byte {
	// Fast path: nothing to do when there is no \r at all.
	if !slices.Contains(content, '\r') {
		return content
	}

	out := make([]byte, 0, len(content))
	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out
}

// stripBOM drops a leading UTF-8 byte order mark if present.
func stripBOM(content []byte) []byte {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:]
	}
	return content
}
