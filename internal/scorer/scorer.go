// Package scorer подбирает лучшую опцию списка под целевое значение.
// Лестница правил от точного совпадения вниз к нечёткому сходству,
// порог принятия 0.45.
package scorer

import (
	"strings"
)

// acceptThreshold — минимальный счёт, при котором совпадение принимается.
const acceptThreshold = 0.45

// prefilterThreshold — при большем числе опций включается фильтр
// по первой букве, чтобы не гонять нечёткое сравнение по всему списку.
const prefilterThreshold = 10

var yesWords = map[string]bool{
	"TRUE": true, "1": true, "YES": true, "Y": true,
	"AGREE": true, "ACCEPT": true, "WILLING": true, "COMFORTABLE": true,
}

var noWords = map[string]bool{
	"FALSE": true, "0": true, "NO": true, "N": true,
	"DISAGREE": true, "DECLINE": true, "NOT WILLING": true, "NOT COMFORTABLE": true,
}

// Normalize приводит значение к канонической форме для сравнения:
// булевы и близкие к ним ответы схлопываются в YES/NO.
func Normalize(value any) string {
	if b, ok := value.(bool); ok {
		if b {
			return "YES"
		}
		return "NO"
	}

	s := strings.ToUpper(strings.TrimSpace(toString(value)))
	if yesWords[s] {
		return "YES"
	}
	if noWords[s] {
		return "NO"
	}
	return s
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	if value == nil {
		return ""
	}
	return ""
}

// BestOption возвращает индекс лучшей опции или false, если ни одна
// не проходит порог.
func BestOption(options []string, target string) (int, bool) {
	if len(options) == 0 || target == "" {
		return 0, false
	}

	normalizedTarget := Normalize(target)
	if normalizedTarget == "" {
		return 0, false
	}

	prefilter := len(options) > prefilterThreshold
	targetFirst := firstLower(normalizedTarget)

	bestIndex := -1
	bestScore := 0.0

	for i, option := range options {
		if option == "" {
			continue
		}
		if prefilter && firstLower(option) != targetFirst {
			continue
		}

		normalizedOption := strings.ToUpper(strings.TrimSpace(option))
		score := optionScore(normalizedOption, normalizedTarget)
		if score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	if bestScore >= acceptThreshold && bestIndex >= 0 {
		return bestIndex, true
	}
	return 0, false
}

// BestOptions подбирает индексы для нескольких целевых значений:
// дубли схлопываются, значения без совпадения отбрасываются.
func BestOptions(options []string, targets []string) []int {
	seen := make(map[int]bool)
	var indices []int
	for _, target := range targets {
		idx, ok := BestOption(options, target)
		if !ok || seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	return indices
}

// optionScore — лестница правил сверху вниз. Значения ступеней на порядки
// выше порога, поэтому любое структурное совпадение побеждает нечёткое.
func optionScore(option, target string) float64 {
	if option == target {
		return 100
	}

	if target == "YES" && yesWords[option] {
		return 95
	}
	if target == "NO" && noWords[option] {
		return 95
	}

	if strings.Contains(option, target) {
		return 90
	}
	if strings.Contains(target, option) {
		return 85
	}

	// Значения через запятую сверяем по частям
	if strings.Contains(target, ",") {
		for _, part := range strings.Split(target, ",") {
			part = strings.TrimSpace(part)
			cleanPart := strings.ReplaceAll(strings.ReplaceAll(part, "-", " "), "_", " ")
			if cleanPart == "" {
				continue
			}
			if strings.Contains(option, cleanPart) || strings.Contains(cleanPart, option) {
				return 80
			}

			words := strings.Fields(cleanPart)
			if len(words) > 1 {
				all := true
				for _, w := range words {
					if !strings.Contains(option, w) {
						all = false
						break
					}
				}
				if all {
					return 75
				}
			}
		}
	}

	cleanTarget := strings.ReplaceAll(strings.ReplaceAll(target, "-", " "), "_", " ")
	if strings.Contains(option, cleanTarget) || strings.Contains(cleanTarget, option) {
		return 70
	}

	return averageScore(target, option)
}

// averageScore — среднее нормализованных сходств Жаккара и Левенштейна.
func averageScore(a, b string) float64 {
	return (jaccardSimilarity(a, b) + levenshteinSimilarity(a, b)) / 2
}

// jaccardSimilarity — сходство мультимножеств символов.
func jaccardSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	countsA := map[rune]int{}
	for _, r := range a {
		countsA[r]++
	}
	countsB := map[rune]int{}
	for _, r := range b {
		countsB[r]++
	}

	intersection := 0
	union := 0
	for r, ca := range countsA {
		cb := countsB[r]
		if ca < cb {
			intersection += ca
		} else {
			intersection += cb
		}
		if ca > cb {
			union += ca
		} else {
			union += cb
		}
	}
	for r, cb := range countsB {
		if _, ok := countsA[r]; !ok {
			union += cb
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// levenshteinSimilarity — 1 - distance/max(len).
func levenshteinSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	dist := levenshteinDistance(ra, rb)
	return 1 - float64(dist)/float64(maxLen)
}

func levenshteinDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func firstLower(s string) byte {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	c := s[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	return c
}
