package errors

import (
	"fmt"
	"strings"
)

// SuggestVariableName suggests possible variable names when a placeholder
// references a variable that is not defined in the environment.
// It uses Levenshtein distance to find similar names.
func SuggestVariableName(unknown string, defined []string) string {
	if len(defined) == 0 {
		return "No variables are defined; add one to the workspace variables file"
	}

	// Find the closest match
	minDistance := 1000
	var bestMatch string

	for _, name := range defined {
		dist := levenshteinDistance(unknown, name)
		if dist < minDistance {
			minDistance = dist
			bestMatch = name
		}
	}

	// Only suggest if the distance is reasonable (< 5 edits)
	if minDistance < 5 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	// If no close match, list a few defined variables
	if len(defined) > 5 {
		return fmt.Sprintf("Defined variables include: %s, ...", strings.Join(defined[:5], ", "))
	}
	return fmt.Sprintf("Defined variables: %s", strings.Join(defined, ", "))
}

// SuggestIncludePath suggests how to repair an include directive whose
// target could not be read.
func SuggestIncludePath(requested string) string {
	if strings.HasPrefix(requested, "/") {
		return "Use a path relative to the playbook's directory instead of an absolute path"
	}
	return fmt.Sprintf("Check that '%s' exists relative to the playbook's directory", requested)
}

// levenshteinDistance computes the Levenshtein distance between two strings.
// This is used for finding similar variable names for suggestions.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	// Create distance matrix
	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	// Initialize first column and row
	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	// Compute distances
	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = minOf(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len1][len2]
}

// minOf returns the minimum of three integers.
func minOf(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
