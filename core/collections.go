package core

// Store collections. Collection names are part of the wire contract with the
// store's rule layer; never build them ad hoc.
const (
	UsersCollection        = "users"
	ProgramsCollection     = "vocationalPrograms"
	NewsCollection         = "newsArticles"
	GalleryCollection      = "galleryAlbums"
	ApplicationsCollection = "applications"
	StudentsCollection     = "students"
	MessagesCollection     = "contactMessages"
	SettingsCollection     = "siteSettings"

	// SiteSettingsID is the well-known id of the settings singleton.
	SiteSettingsID = "main"
)

// ServerTimeFields maps a collection to the field the store stamps with its
// own clock on create. Client clocks skew; record-creation times never come
// from the caller.
var ServerTimeFields = map[string]string{
	UsersCollection:        "createdAt",
	ApplicationsCollection: "applicationDate",
	NewsCollection:         "publishedAt",
	MessagesCollection:     "receivedAt",
}
