package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var salutations = []string{
	"Dear Hiring Manager",
	"Dear Hiring Team",
	"Dear Recruiter",
	"Dear [Company Name] Team",
	"Dear Sir/Madam",
	"To Whom It May Concern",
}

var closings = []string{
	"Sincerely,",
	"Best regards,",
	"Kind regards,",
	"Thank you,",
	"Respectfully,",
	"Yours truly,",
}

// CoverLetter генерирует сопроводительное письмо по профилю.
// Всегда идёт в премиальный провайдер, если он доступен.
func (a *Assistant) CoverLetter(ctx context.Context, customPrompt string) (string, error) {
	prompt := a.buildCoverLetterPrompt(customPrompt)

	letter, err := a.call(ctx, Request{
		Prompt:      prompt,
		Temperature: 0.7,
		MaxTokens:   1000,
	}, CallContext{IsCoverLetter: true})
	if err != nil {
		return "", fmt.Errorf("ошибка генерации сопроводительного письма: %w", err)
	}

	if strings.EqualFold(strings.TrimSpace(letter), "null") {
		return "", errors.New("провайдер не смог сгенерировать письмо")
	}

	return a.cleanCoverLetter(letter), nil
}

func (a *Assistant) buildCoverLetterPrompt(customPrompt string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `User Profile:
%s

Task: Write a professional cover letter based on the user profile above.

Instructions:
1. Write a compelling cover letter that highlights relevant experience and skills
2. Keep it professional and concise
3. Focus on how the candidate's background aligns with typical job requirements
4. Use specific examples from the profile when possible
5. Start with "Dear Hiring Manager," and end with "Sincerely," followed by the candidate's name
6. Do NOT include any header details, contact information, or formatting - only the letter content
7. Make it personalized but professional
8. The letter should be between 200-350 words
9. Consider the current date (%s) when describing graduation status, employment duration, or time-based achievements
`, a.profileContext, a.now().Format("January 2, 2006"))

	if a.jobDescription != "" {
		fmt.Fprintf(&b, "\nJob Description:\n%s\n\nTailor the cover letter to this specific job posting.\n", truncate(a.jobDescription, 500))
	}
	if customPrompt != "" {
		fmt.Fprintf(&b, "\nCustom Prompt:\n%s\n", customPrompt)
	}

	b.WriteString("\nGenerate the cover letter (only the letter content, no headers or formatting):")
	return b.String()
}

// cleanCoverLetter обрезает письмо до содержимого от приветствия до подписи,
// убирая заголовки и реквизиты, которые модель иногда дописывает.
func (a *Assistant) cleanCoverLetter(letter string) string {
	letter = strings.TrimSpace(letter)

	start := -1
	for _, pattern := range salutations {
		if idx := strings.Index(letter, pattern); idx != -1 {
			start = idx
			break
		}
	}
	if start == -1 {
		// Приветствия нет, ищем первую строку, похожую на начало письма
		for _, line := range strings.Split(letter, "\n") {
			lower := strings.ToLower(strings.TrimSpace(line))
			for _, starter := range []string{"dear", "to whom", "i am writing", "i would like"} {
				if strings.Contains(lower, starter) {
					start = strings.Index(letter, line)
					break
				}
			}
			if start != -1 {
				break
			}
		}
	}
	if start == -1 {
		start = 0
	}

	end := len(letter)
	for _, pattern := range closings {
		idx := strings.Index(letter[start:], pattern)
		if idx == -1 {
			continue
		}
		closingStart := start + idx
		// Захватываем имя после подписи
		nameEnd := strings.Index(letter[closingStart+len(pattern):], "\n\n")
		if nameEnd == -1 {
			end = len(letter)
		} else {
			end = closingStart + len(pattern) + nameEnd
		}
		break
	}

	cleaned := strings.TrimSpace(letter[start:end])

	hasSalutation := false
	for _, pattern := range salutations {
		if strings.HasPrefix(strings.ToLower(cleaned), strings.ToLower(pattern)) {
			hasSalutation = true
			break
		}
	}
	if !hasSalutation {
		cleaned = "Dear Hiring Manager,\n\n" + cleaned
	}

	hasClosing := false
	tail := strings.ToLower(cleaned)
	if len(tail) > 50 {
		tail = tail[len(tail)-50:]
	}
	for _, pattern := range closings {
		if strings.Contains(tail, strings.ToLower(pattern)) {
			hasClosing = true
			break
		}
	}
	if !hasClosing {
		if a.profile.FullName != "" {
			cleaned += "\n\nSincerely,\n" + a.profile.FullName
		} else {
			cleaned += "\n\nSincerely,\n[Your Name]"
		}
	}

	return cleaned
}
