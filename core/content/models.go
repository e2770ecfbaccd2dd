package content

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/smkpelita/backend/core"
)

// Form is a validated request body that can express itself as a store
// payload. Update forms produce partial payloads: absent fields stay out of
// the map so the store's merge leaves them untouched.
type Form interface {
	Validate(validate *validator.Validate) error
	Payload() map[string]interface{}
}

// News categories.
const (
	CategoryBerita      = "Berita"
	CategoryPengumuman  = "Pengumuman"
	CategoryAcara       = "Acara"
)

var NewsCategories = []string{CategoryBerita, CategoryPengumuman, CategoryAcara}

type (
	Program struct {
		ID              string `json:"id" mapstructure:"id"`
		Name            string `json:"name" mapstructure:"name"`
		Description     string `json:"description" mapstructure:"description"`
		CareerProspects string `json:"careerProspects" mapstructure:"careerProspects"`
		ImageURL        string `json:"imageUrl" mapstructure:"imageUrl"`
		Icon            string `json:"icon" mapstructure:"icon"`
	}

	NewsArticle struct {
		ID          string    `json:"id" mapstructure:"id"`
		Title       string    `json:"title" mapstructure:"title"`
		Content     string    `json:"content" mapstructure:"content"`
		ImageURL    string    `json:"imageUrl" mapstructure:"imageUrl"`
		Category    string    `json:"category" mapstructure:"category"`
		PublishedAt time.Time `json:"publishedAt" mapstructure:"publishedAt"` // store clock
	}

	GalleryAlbum struct {
		ID          string   `json:"id" mapstructure:"id"`
		Name        string   `json:"name" mapstructure:"name"`
		Description string   `json:"description" mapstructure:"description"`
		ImageURLs   []string `json:"imageUrls" mapstructure:"imageUrls"`
	}

	Student struct {
		ID        string `json:"id" mapstructure:"id"`
		FirstName string `json:"firstName" mapstructure:"firstName"`
		LastName  string `json:"lastName" mapstructure:"lastName"`
		Email     string `json:"email" mapstructure:"email"`
		NISN      string `json:"nisn" mapstructure:"nisn"`
		ProgramID string `json:"programId" mapstructure:"programId"`
	}

	ContactMessage struct {
		ID         string    `json:"id" mapstructure:"id"`
		Name       string    `json:"name" mapstructure:"name"`
		Email      string    `json:"email" mapstructure:"email"`
		Subject    string    `json:"subject" mapstructure:"subject"`
		Message    string    `json:"message" mapstructure:"message"`
		Read       bool      `json:"read" mapstructure:"read"`
		ReceivedAt time.Time `json:"receivedAt" mapstructure:"receivedAt"` // store clock
	}
)

// NewProgram contains information needed to create a Program.
type NewProgram struct {
	Name            string `json:"name" validate:"required,min=2"`
	Description     string `json:"description" validate:"required,min=10"`
	CareerProspects string `json:"careerProspects" validate:"required,min=10"`
	ImageURL        string `json:"imageUrl" validate:"required,url"`
	Icon            string `json:"icon" validate:"required,min=2"`
}

func (f *NewProgram) Validate(validate *validator.Validate) error {
	f.Name = core.CleanString(f.Name)
	f.Icon = core.CleanString(f.Icon)
	return validate.Struct(f)
}

func (f *NewProgram) Payload() map[string]interface{} {
	return map[string]interface{}{
		"name":            f.Name,
		"description":     f.Description,
		"careerProspects": f.CareerProspects,
		"imageUrl":        f.ImageURL,
		"icon":            f.Icon,
	}
}

// UpdateProgram is a partial edit; nil fields are left untouched.
type UpdateProgram struct {
	Name            *string `json:"name" validate:"omitempty,min=2"`
	Description     *string `json:"description" validate:"omitempty,min=10"`
	CareerProspects *string `json:"careerProspects" validate:"omitempty,min=10"`
	ImageURL        *string `json:"imageUrl" validate:"omitempty,url"`
	Icon            *string `json:"icon" validate:"omitempty,min=2"`
}

func (f *UpdateProgram) Validate(validate *validator.Validate) error {
	return validate.Struct(f)
}

func (f *UpdateProgram) Payload() map[string]interface{} {
	patch := make(map[string]interface{})
	setString(patch, "name", f.Name)
	setString(patch, "description", f.Description)
	setString(patch, "careerProspects", f.CareerProspects)
	setString(patch, "imageUrl", f.ImageURL)
	setString(patch, "icon", f.Icon)
	return patch
}

type NewNewsArticle struct {
	Title    string `json:"title" validate:"required,min=5"`
	Content  string `json:"content" validate:"required,min=20"`
	ImageURL string `json:"imageUrl" validate:"required,url"`
	Category string `json:"category" validate:"required,newscategory"`
}

func (f *NewNewsArticle) Validate(validate *validator.Validate) error {
	f.Title = core.CleanString(f.Title)
	return validate.Struct(f)
}

func (f *NewNewsArticle) Payload() map[string]interface{} {
	return map[string]interface{}{
		"title":    f.Title,
		"content":  f.Content,
		"imageUrl": f.ImageURL,
		"category": f.Category,
	}
}

type UpdateNewsArticle struct {
	Title    *string `json:"title" validate:"omitempty,min=5"`
	Content  *string `json:"content" validate:"omitempty,min=20"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	Category *string `json:"category" validate:"omitempty,newscategory"`
}

func (f *UpdateNewsArticle) Validate(validate *validator.Validate) error {
	return validate.Struct(f)
}

func (f *UpdateNewsArticle) Payload() map[string]interface{} {
	patch := make(map[string]interface{})
	setString(patch, "title", f.Title)
	setString(patch, "content", f.Content)
	setString(patch, "imageUrl", f.ImageURL)
	setString(patch, "category", f.Category)
	return patch
}

type NewGalleryAlbum struct {
	Name        string   `json:"name" validate:"required,min=2"`
	Description string   `json:"description" validate:"required,min=5"`
	ImageURLs   []string `json:"imageUrls" validate:"required,min=1,dive,url"`
}

func (f *NewGalleryAlbum) Validate(validate *validator.Validate) error {
	f.Name = core.CleanString(f.Name)
	return validate.Struct(f)
}

func (f *NewGalleryAlbum) Payload() map[string]interface{} {
	return map[string]interface{}{
		"name":        f.Name,
		"description": f.Description,
		"imageUrls":   f.ImageURLs,
	}
}

type UpdateGalleryAlbum struct {
	Name        *string  `json:"name" validate:"omitempty,min=2"`
	Description *string  `json:"description" validate:"omitempty,min=5"`
	ImageURLs   []string `json:"imageUrls" validate:"omitempty,min=1,dive,url"`
}

func (f *UpdateGalleryAlbum) Validate(validate *validator.Validate) error {
	return validate.Struct(f)
}

func (f *UpdateGalleryAlbum) Payload() map[string]interface{} {
	patch := make(map[string]interface{})
	setString(patch, "name", f.Name)
	setString(patch, "description", f.Description)
	if f.ImageURLs != nil {
		patch["imageUrls"] = f.ImageURLs
	}
	return patch
}

type NewStudent struct {
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	NISN      string `json:"nisn" validate:"required,len=10,number"`
	ProgramID string `json:"programId" validate:"required"`
}

func (f *NewStudent) Validate(validate *validator.Validate) error {
	f.FirstName = core.CleanString(f.FirstName)
	f.LastName = core.CleanString(f.LastName)
	f.Email = core.CleanString(f.Email, true /* lower */)
	return validate.Struct(f)
}

func (f *NewStudent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"firstName": f.FirstName,
		"lastName":  f.LastName,
		"email":     f.Email,
		"nisn":      f.NISN,
		"programId": f.ProgramID,
	}
}

type UpdateStudent struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=2"`
	LastName  *string `json:"lastName" validate:"omitempty,min=2"`
	Email     *string `json:"email" validate:"omitempty,email"`
	NISN      *string `json:"nisn" validate:"omitempty,len=10,number"`
	ProgramID *string `json:"programId" validate:"omitempty"`
}

func (f *UpdateStudent) Validate(validate *validator.Validate) error {
	return validate.Struct(f)
}

func (f *UpdateStudent) Payload() map[string]interface{} {
	patch := make(map[string]interface{})
	setString(patch, "firstName", f.FirstName)
	setString(patch, "lastName", f.LastName)
	setString(patch, "email", f.Email)
	setString(patch, "nisn", f.NISN)
	setString(patch, "programId", f.ProgramID)
	return patch
}

// NewContactMessage is the public contact form.
type NewContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (f *NewContactMessage) Validate(validate *validator.Validate) error {
	f.Name = core.CleanString(f.Name)
	f.Email = core.CleanString(f.Email, true /* lower */)
	f.Subject = core.CleanString(f.Subject)
	return validate.Struct(f)
}

func (f *NewContactMessage) Payload() map[string]interface{} {
	return map[string]interface{}{
		"name":    f.Name,
		"email":   f.Email,
		"subject": f.Subject,
		"message": f.Message,
		"read":    false,
	}
}

func setString(patch map[string]interface{}, key string, val *string) {
	if val != nil {
		patch[key] = *val
	}
}
