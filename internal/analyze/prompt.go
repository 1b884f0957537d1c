package analyze

import "fmt"

const promptTemplate = `You are a professional resume analyzer and career coach. Analyze the following resume and provide detailed feedback in these categories:

1. Overall Impression
2. Content & Structure
3. Skills & Qualifications
4. Impact & Achievements
5. Areas for Improvement
6. Specific Recommendations

Format your response in Markdown with appropriate headings and bullet points. Be constructive but honest in your feedback.

Resume text:
%s`

// Prompt fills the resume text into the career-coach prompt.
func Prompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
