package content

import (
	"github.com/go-playground/validator/v10"

	"github.com/smkpelita/backend/core"
)

type (
	// SiteSettings is the singleton document behind every public page,
	// addressed by core.SiteSettingsID.
	SiteSettings struct {
		ID string `json:"id" mapstructure:"id"`

		// general
		SchoolName       string `json:"schoolName" mapstructure:"schoolName"`
		Address          string `json:"address" mapstructure:"address"`
		Phone            string `json:"phone" mapstructure:"phone"`
		Email            string `json:"email" mapstructure:"email"`
		AnnouncementText string `json:"announcementText,omitempty" mapstructure:"announcementText"`
		AnnouncementLink string `json:"announcementLink,omitempty" mapstructure:"announcementLink"`

		// home
		HeroHeadline    string `json:"heroHeadline,omitempty" mapstructure:"heroHeadline"`
		HeroSubheadline string `json:"heroSubheadline,omitempty" mapstructure:"heroSubheadline"`
		AboutPreview    string `json:"aboutPreview,omitempty" mapstructure:"aboutPreview"`

		// about
		Vision        string   `json:"vision,omitempty" mapstructure:"vision"`
		MissionPoints []string `json:"missionPoints,omitempty" mapstructure:"missionPoints"`

		// admissions
		AdmissionRequirements []string `json:"admissionRequirements,omitempty" mapstructure:"admissionRequirements"`
		AdmissionFaqs         []FAQ    `json:"admissionFaqs,omitempty" mapstructure:"admissionFaqs"`

		// images
		HeroImageURL           string `json:"heroImageUrl,omitempty" mapstructure:"heroImageUrl"`
		AboutPreviewImageURL   string `json:"aboutPreviewImageUrl,omitempty" mapstructure:"aboutPreviewImageUrl"`
		AboutHeroImageURL      string `json:"aboutHeroImageUrl,omitempty" mapstructure:"aboutHeroImageUrl"`
		ProgramsHeroImageURL   string `json:"programsHeroImageUrl,omitempty" mapstructure:"programsHeroImageUrl"`
		AdmissionsHeroImageURL string `json:"admissionsHeroImageUrl,omitempty" mapstructure:"admissionsHeroImageUrl"`
		NewsHeroImageURL       string `json:"newsHeroImageUrl,omitempty" mapstructure:"newsHeroImageUrl"`
		GalleryHeroImageURL    string `json:"galleryHeroImageUrl,omitempty" mapstructure:"galleryHeroImageUrl"`
	}

	FAQ struct {
		Question string `json:"question" mapstructure:"question" validate:"required"`
		Answer   string `json:"answer" mapstructure:"answer" validate:"required"`
	}
)

// UpdateSiteSettings merges into the settings singleton section by section.
// Nil fields leave the stored value alone, so each admin tab can save just
// its own slice of the document.
type UpdateSiteSettings struct {
	SchoolName       *string `json:"schoolName" validate:"omitempty,min=5"`
	Address          *string `json:"address" validate:"omitempty,min=10"`
	Phone            *string `json:"phone" validate:"omitempty,min=10"`
	Email            *string `json:"email" validate:"omitempty,email"`
	AnnouncementText *string `json:"announcementText"`
	AnnouncementLink *string `json:"announcementLink" validate:"omitempty,url"`

	HeroHeadline    *string `json:"heroHeadline"`
	HeroSubheadline *string `json:"heroSubheadline"`
	AboutPreview    *string `json:"aboutPreview"`

	Vision        *string  `json:"vision"`
	MissionPoints []string `json:"missionPoints" validate:"omitempty,dive,required"`

	AdmissionRequirements []string `json:"admissionRequirements" validate:"omitempty,dive,required"`
	AdmissionFaqs         []FAQ    `json:"admissionFaqs" validate:"omitempty,dive"`

	HeroImageURL           *string `json:"heroImageUrl" validate:"omitempty,url"`
	AboutPreviewImageURL   *string `json:"aboutPreviewImageUrl" validate:"omitempty,url"`
	AboutHeroImageURL      *string `json:"aboutHeroImageUrl" validate:"omitempty,url"`
	ProgramsHeroImageURL   *string `json:"programsHeroImageUrl" validate:"omitempty,url"`
	AdmissionsHeroImageURL *string `json:"admissionsHeroImageUrl" validate:"omitempty,url"`
	NewsHeroImageURL       *string `json:"newsHeroImageUrl" validate:"omitempty,url"`
	GalleryHeroImageURL    *string `json:"galleryHeroImageUrl" validate:"omitempty,url"`
}

func (f *UpdateSiteSettings) Validate(validate *validator.Validate) error {
	if f.SchoolName != nil {
		*f.SchoolName = core.CleanString(*f.SchoolName)
	}
	return validate.Struct(f)
}

func (f *UpdateSiteSettings) Payload() map[string]interface{} {
	patch := make(map[string]interface{})
	setString(patch, "schoolName", f.SchoolName)
	setString(patch, "address", f.Address)
	setString(patch, "phone", f.Phone)
	setString(patch, "email", f.Email)
	setString(patch, "announcementText", f.AnnouncementText)
	setString(patch, "announcementLink", f.AnnouncementLink)
	setString(patch, "heroHeadline", f.HeroHeadline)
	setString(patch, "heroSubheadline", f.HeroSubheadline)
	setString(patch, "aboutPreview", f.AboutPreview)
	setString(patch, "vision", f.Vision)
	if f.MissionPoints != nil {
		patch["missionPoints"] = f.MissionPoints
	}
	if f.AdmissionRequirements != nil {
		patch["admissionRequirements"] = f.AdmissionRequirements
	}
	if f.AdmissionFaqs != nil {
		patch["admissionFaqs"] = f.AdmissionFaqs
	}
	setString(patch, "heroImageUrl", f.HeroImageURL)
	setString(patch, "aboutPreviewImageUrl", f.AboutPreviewImageURL)
	setString(patch, "aboutHeroImageUrl", f.AboutHeroImageURL)
	setString(patch, "programsHeroImageUrl", f.ProgramsHeroImageURL)
	setString(patch, "admissionsHeroImageUrl", f.AdmissionsHeroImageURL)
	setString(patch, "newsHeroImageUrl", f.NewsHeroImageURL)
	setString(patch, "galleryHeroImageUrl", f.GalleryHeroImageURL)
	return patch
}
