package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// StopwordFilter holds a set of words to exclude from the word-count
// chart. The upstream pipeline already strips common stopwords, but the
// list it uses is not always the one an analyst wants, so the dashboard
// can apply its own on top.
type StopwordFilter struct {
	stopwords map[string]bool
	mu        sync.RWMutex
}

// NewStopwordFilter creates a new empty StopwordFilter
func NewStopwordFilter() *StopwordFilter {
	return &StopwordFilter{
		stopwords: make(map[string]bool),
	}
}

// LoadFromFile loads stopwords from a file.
// Each line should contain one word, lines starting with # are comments
func (sf *StopwordFilter) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open stopword file %s: %v", filename, err)
	}
	defer file.Close()

	sf.mu.Lock()
	defer sf.mu.Unlock()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sf.stopwords[strings.ToLower(line)] = true
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading stopword file %s at line %d: %v", filename, lineNum, err)
	}

	return nil
}

// IsStopword checks if a word should be excluded, case-insensitively.
func (sf *StopwordFilter) IsStopword(word string) bool {
	sf.mu.RLock()
	defer sf.mu.RUnlock()
	return sf.stopwords[strings.ToLower(word)]
}

// AddWord adds a single word to the filter
func (sf *StopwordFilter) AddWord(word string) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	sf.stopwords[strings.ToLower(word)] = true
}

// Len returns the number of words in the filter
func (sf *StopwordFilter) Len() int {
	sf.mu.RLock()
	defer sf.mu.RUnlock()
	return len(sf.stopwords)
}
