package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/smkpelita/backend/core"
)

// defineSchema declares every collection as a schemaless table and pins the
// server-stamped timestamp fields to the database clock. Statements use
// OVERWRITE so re-applying on startup is harmless.
func (s *SurrealStore) defineSchema(ctx context.Context) error {
	var b strings.Builder
	for _, collection := range []string{
		core.UsersCollection,
		core.ProgramsCollection,
		core.NewsCollection,
		core.GalleryCollection,
		core.ApplicationsCollection,
		core.StudentsCollection,
		core.MessagesCollection,
		core.SettingsCollection,
	} {
		fmt.Fprintf(&b, "DEFINE TABLE OVERWRITE `%s` SCHEMALESS;\n", collection)
		if field, ok := core.ServerTimeFields[collection]; ok {
			fmt.Fprintf(&b,
				"DEFINE FIELD OVERWRITE `%s` ON `%s` TYPE datetime DEFAULT time::now();\n",
				field, collection)
		}
	}
	fmt.Fprintf(&b,
		"DEFINE INDEX OVERWRITE userEmail ON `%s` FIELDS email UNIQUE;\n",
		core.UsersCollection)

	if _, err := surrealdb.Query[any](ctx, s.db, b.String(), nil); err != nil {
		return errors.Wrap(err, "defining tables")
	}
	return nil
}
