package assemble

import "bytes"

// StripNoise drops the prologue some converters print before their HTML: leading
// blank lines and lines starting with marker. Stripping stops for good at the first
// other line; everything from there on is returned unchanged.
func StripNoise(out []byte, marker byte) []byte {
	rest := out
	for len(rest) > 0 {
		line := rest
		next := len(rest)
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line = rest[:i]
			next = i + 1
		}
		if len(bytes.TrimSpace(line)) != 0 && line[0] != marker {
			return rest
		}
		rest = rest[next:]
	}
	return rest
}
