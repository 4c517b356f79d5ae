// Package source reads and writes the comma-separated text form of programs.
package source

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"intcode/pkg/errors"
	"intcode/pkg/types"
)

const delimiter = ','

// Parse reads decimal words separated by commas. Whitespace around each word
// is ignored, and so is a single empty token after a trailing comma.
func Parse(r io.Reader) ([]types.ProgramElement, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	scanner.Split(splitWords)

	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapFault(err, "reading program source")
	}

	if n := len(tokens); n > 0 && tokens[n-1] == "" {
		tokens = tokens[:n-1]
	}
	if len(tokens) == 0 {
		return nil, errors.Faultf(errors.ErrMalformedSource, "empty program source")
	}

	words := make([]types.ProgramElement, len(tokens))
	for i, token := range tokens {
		value, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, errors.Faultf(errors.ErrMalformedSource, "token %d (%q) is not an integer", i, token)
		}
		words[i] = types.ProgramElement(value)
	}
	return words, nil
}

// ParseString is Parse over an in-memory source.
func ParseString(s string) ([]types.ProgramElement, error) {
	return Parse(strings.NewReader(s))
}

// LoadFile parses the program stored at path.
func LoadFile(path string) ([]types.ProgramElement, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapFault(err, "opening program source")
	}
	defer file.Close()

	words, err := Parse(file)
	if err != nil {
		return nil, errors.WrapFault(err, path)
	}
	return words, nil
}

// Format renders words in the form accepted by Parse.
func Format(words []types.ProgramElement) string {
	var b strings.Builder
	for i, word := range words {
		if i > 0 {
			b.WriteByte(delimiter)
		}
		b.WriteString(strconv.FormatInt(int64(word), 10))
	}
	return b.String()
}

// splitWords is a bufio.SplitFunc yielding the text between delimiters.
func splitWords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, delimiter); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
