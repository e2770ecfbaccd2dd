package aisvc

import (
	"context"
	"strings"

	"github.com/smkpelita/backend/core"
)

// ApologyAnswer is returned whenever the provider cannot be reached. The
// widget never surfaces a raw error to a visitor.
const ApologyAnswer = "Maaf, saya sedang mengalami kesulitan untuk terhubung. Silakan coba lagi nanti."

// admissionKeywords route a question to the admissions-specific prompt.
// Mixed Indonesian/English, matched case-insensitively as substrings.
var admissionKeywords = []string{
	"admission", "register", "apply", "enroll",
	"pendaftaran", "daftar", "syarat", "biaya",
}

// Chatbot routes visitor questions to the AI collaborator by keyword and
// absorbs provider failures into a canned apology.
type Chatbot struct {
	svc    ContentService
	logger core.Logger
}

func NewChatbot(svc ContentService, logger core.Logger) *Chatbot {
	return &Chatbot{svc: svc, logger: logger}
}

// Ask answers a visitor's question. It never returns an error; failures are
// logged and replaced with ApologyAnswer.
func (bot *Chatbot) Ask(ctx context.Context, question string) string {
	prefixed := question
	if IsAdmissionQuestion(question) {
		prefixed = "[admissions] " + question
	}
	answer, err := bot.svc.Answer(ctx, prefixed)
	if err != nil {
		bot.logger.Error("chatbot answer failed", err, map[string]interface{}{"question": question})
		return ApologyAnswer
	}
	if answer == "" {
		return ApologyAnswer
	}
	return answer
}

// IsAdmissionQuestion reports whether a question should take the admissions
// route.
func IsAdmissionQuestion(question string) bool {
	lower := strings.ToLower(question)
	for _, keyword := range admissionKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
