package utils

import "unicode/utf8"

// sniffLength defines the maximum number of bytes inspected when detecting binary content.
const sniffLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary data.
// Only the leading sniffLength bytes are inspected.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	sample := data
	if len(sample) > sniffLength {
		sample = trimToRuneBoundary(sample[:sniffLength])
	}
	if !utf8.Valid(sample) {
		return true
	}
	for _, byteValue := range sample {
		if byteValue == 0 {
			return true
		}
	}
	return false
}

// trimToRuneBoundary drops a trailing partial UTF-8 sequence left by truncation.
func trimToRuneBoundary(data []byte) []byte {
	for cut := 0; cut < utf8.UTFMax && cut < len(data); cut++ {
		candidate := data[:len(data)-cut]
		if utf8.Valid(candidate) {
			return candidate
		}
	}
	return data
}
