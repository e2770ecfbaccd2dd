// Package aisvc talks to the external content-generation provider. The
// provider exposes prompt-in, structured-JSON-out endpoints; everything here
// is plumbing and routing, no model logic.
package aisvc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/content"
)

type (
	// ContentData is the structured body of a generated piece of content.
	ContentData struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ImageURL string `json:"imageUrl"`
		Category string `json:"category"`
	}

	// GeneratedContent is the provider's answer to a content prompt. For now
	// the provider always produces a news article.
	GeneratedContent struct {
		ContentType string      `json:"contentType"`
		Data        ContentData `json:"data"`
	}

	// ContentService is the AI collaborator seen by the rest of the codebase.
	ContentService interface {
		GenerateContent(ctx context.Context, prompt string) (GeneratedContent, error)
		Answer(ctx context.Context, question string) (string, error)
	}
)

const contentTypeNewsArticle = "newsArticle"

type httpService struct {
	baseURL string
	apiKey  string
	client  *rest.Client
}

var _ ContentService = (*httpService)(nil)

func NewHTTPService(conf *core.Config) *httpService {
	return &httpService{
		baseURL: conf.AI.BaseURL,
		apiKey:  conf.AI.APIKey,
		client:  &rest.Client{HTTPClient: &http.Client{Timeout: conf.AI.Timeout}},
	}
}

func (svc *httpService) GenerateContent(ctx context.Context, prompt string) (GeneratedContent, error) {
	var out GeneratedContent
	err := svc.post(ctx, "/v1/content", map[string]string{"prompt": prompt}, &out)
	if err != nil {
		return GeneratedContent{}, err
	}
	if out.ContentType == "" {
		out.ContentType = contentTypeNewsArticle
	}
	if !validCategory(out.Data.Category) {
		out.Data.Category = content.CategoryBerita
	}
	return out, nil
}

func (svc *httpService) Answer(ctx context.Context, question string) (string, error) {
	var out struct {
		Answer string `json:"answer"`
	}
	if err := svc.post(ctx, "/v1/answer", map[string]string{"question": question}, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}

func (svc *httpService) post(ctx context.Context, path string, payload, dst interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encoding request")
	}
	req := rest.Request{
		Method:  rest.Post,
		BaseURL: svc.baseURL + path,
		Headers: map[string]string{
			"Authorization": "Bearer " + svc.apiKey,
			"Content-Type":  "application/json",
		},
		Body: body,
	}
	res, err := svc.client.SendWithContext(ctx, req)
	if err != nil {
		return errors.Wrapf(err, "calling %s", path)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("calling %s: status %d", path, res.StatusCode)
	}
	return errors.Wrapf(json.Unmarshal([]byte(res.Body), dst), "decoding %s response", path)
}

func validCategory(category string) bool {
	for _, c := range content.NewsCategories {
		if c == category {
			return true
		}
	}
	return false
}
