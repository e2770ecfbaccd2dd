package aisvc

import (
	"context"

	"github.com/smkpelita/backend/core/content"
)

// DummyService is a canned ContentService for tests and local development.
type DummyService struct {
	GenerateErr error
	AnswerErr   error
	AnswerText  string
}

var _ ContentService = (*DummyService)(nil)

func (svc *DummyService) GenerateContent(ctx context.Context, prompt string) (GeneratedContent, error) {
	if svc.GenerateErr != nil {
		return GeneratedContent{}, svc.GenerateErr
	}
	return GeneratedContent{
		ContentType: contentTypeNewsArticle,
		Data: ContentData{
			Title:    "Draf: " + prompt,
			Content:  "Konten yang dihasilkan untuk: " + prompt,
			ImageURL: "https://picsum.photos/seed/draft/800/600",
			Category: content.CategoryBerita,
		},
	}, nil
}

func (svc *DummyService) Answer(ctx context.Context, question string) (string, error) {
	if svc.AnswerErr != nil {
		return "", svc.AnswerErr
	}
	if svc.AnswerText != "" {
		return svc.AnswerText, nil
	}
	return "Terima kasih atas pertanyaan Anda.", nil
}
