package model

// Answer is a single selectable option of a question. Answer texts are
// unique within their question; exactly one carries Correct=true.
type Answer struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question represents a single attestation question. Questions are
// immutable once loaded from the bank.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
}

// CorrectAnswer returns the text of the correct answer option.
// The second return value is false if the question has no correct
// option, which a validated bank never produces.
func (q *Question) CorrectAnswer() (string, bool) {
	for _, a := range q.Answers {
		if a.Correct {
			return a.Text, true
		}
	}
	return "", false
}

// AnswerTexts returns the option texts in their stored bank order.
func (q *Question) AnswerTexts() []string {
	texts := make([]string, 0, len(q.Answers))
	for _, a := range q.Answers {
		texts = append(texts, a.Text)
	}
	return texts
}
