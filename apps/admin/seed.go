package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/content"
)

var seedPrograms = []map[string]interface{}{
	{
		"name":            "Teknik Mesin",
		"description":     "Learn to design, manufacture, and maintain machinery with cutting-edge technology.",
		"careerProspects": "Mechanical engineer, CNC operator, maintenance technician.",
		"imageUrl":        "https://picsum.photos/seed/program-mesin/600/400",
		"icon":            "Wrench",
	},
	{
		"name":            "Akuntansi",
		"description":     "Master financial principles, bookkeeping, and business accounting standards.",
		"careerProspects": "Accountant, auditor, tax consultant.",
		"imageUrl":        "https://picsum.photos/seed/program-akuntansi/600/400",
		"icon":            "Calculator",
	},
	{
		"name":            "Multimedia",
		"description":     "Unleash your creativity in graphic design, video production, and web development.",
		"careerProspects": "Graphic designer, video editor, web developer.",
		"imageUrl":        "https://picsum.photos/seed/program-multimedia/600/400",
		"icon":            "Camera",
	},
	{
		"name":            "Pemasaran",
		"description":     "Develop skills in digital marketing, sales strategies, and market analysis.",
		"careerProspects": "Digital marketer, sales executive, market analyst.",
		"imageUrl":        "https://picsum.photos/seed/program-pemasaran/600/400",
		"icon":            "LineChart",
	},
}

var seedSettings = map[string]interface{}{
	"schoolName":      "SMK Pelita",
	"address":         "Jl. Pendidikan No. 1, Jakarta",
	"phone":           "+62 21 555 0100",
	"email":           "info@smkpelita.sch.id",
	"heroHeadline":    "Membangun Generasi Terampil dan Siap Kerja",
	"heroSubheadline": "Pendidikan kejuruan berkualitas untuk masa depan yang cerah.",
	"vision":          "Menjadi sekolah kejuruan unggulan yang menghasilkan lulusan kompeten.",
	"missionPoints": []string{
		"Menyelenggarakan pendidikan kejuruan yang relevan dengan industri.",
		"Mengembangkan karakter dan keterampilan siswa.",
		"Menjalin kemitraan dengan dunia usaha dan industri.",
	},
	"admissionRequirements": []string{
		"Lulusan SMP/MTs atau sederajat.",
		"Fotokopi ijazah dan SKHUN.",
		"Pas foto terbaru 3x4 (2 lembar).",
	},
}

// seed loads initial programs and the settings singleton. Existing data is
// left alone; re-running is safe.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	var programs []content.Program
	if err := cli.store.List(ctx, core.ProgramsCollection, nil, &programs); err != nil {
		return errors.Wrap(err, "listing programs")
	}
	if len(programs) == 0 {
		for _, doc := range seedPrograms {
			if _, err := cli.store.Create(ctx, core.ProgramsCollection, doc); err != nil {
				return errors.Wrapf(err, "seeding program %v", doc["name"])
			}
		}
		logger.Printf("seeded %d programs", len(seedPrograms))
	}

	var settings content.SiteSettings
	err := cli.store.Get(ctx, core.SettingsCollection, core.SiteSettingsID, &settings)
	if err == nil {
		return nil
	}
	if errors.Cause(err) != core.ErrDocumentNotFound {
		return errors.Wrap(err, "getting site settings")
	}
	if err = cli.store.CreateWithID(ctx, core.SettingsCollection, core.SiteSettingsID, seedSettings); err != nil {
		return errors.Wrap(err, "seeding site settings")
	}
	logger.Println("seeded site settings")
	return nil
}
