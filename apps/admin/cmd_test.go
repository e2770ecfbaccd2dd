package main

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/content"
	"github.com/smkpelita/backend/core/rbac"
	"github.com/smkpelita/backend/storage/document"
	"github.com/smkpelita/backend/storage/memdb"
)

func newTestCLI() *commandLine {
	store := memdb.New()
	return &commandLine{
		store:   store,
		usrRepo: document.NewUserRepository(store),
	}
}

func TestMain(m *testing.M) {
	logger = log.New(os.Stdout, "ADMIN-TEST : ", log.LstdFlags)
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("Secret123"), nil }
	os.Exit(m.Run())
}

func TestRunHelp(t *testing.T) {
	cli := newTestCLI()
	assert.ErrorIs(t, cli.run([]string{"admin"}), errHelp)
	assert.ErrorIs(t, cli.run([]string{"admin", "bogus"}), errHelp)
}

func TestAddUser(t *testing.T) {
	cli := newTestCLI()
	err := cli.run([]string{"admin", "adduser", "-email", "Kepala@SMKPelita.sch.id", "-name", "Kepala Sekolah"})
	require.NoError(t, err)

	usr, err := cli.usrRepo.GetUserByEmail(context.Background(), "kepala@smkpelita.sch.id")
	require.NoError(t, err)
	assert.Equal(t, "Kepala Sekolah", usr.Name)
	assert.Equal(t, rbac.RoleSuperAdmin, usr.Role)
	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword("Secret123"))
}

func TestAddUserUpdatesExisting(t *testing.T) {
	cli := newTestCLI()
	require.NoError(t, cli.addUser("guru@smkpelita.sch.id", "Guru", "Teacher", "OldPass99"))
	require.NoError(t, cli.addUser("guru@smkpelita.sch.id", "Guru Baru", "Admin", "NewPass99"))

	usr, err := cli.usrRepo.GetUserByEmail(context.Background(), "guru@smkpelita.sch.id")
	require.NoError(t, err)
	assert.Equal(t, "Guru Baru", usr.Name)
	assert.Equal(t, rbac.RoleAdmin, usr.Role)
	assert.NoError(t, usr.CheckPassword("NewPass99"))
}

func TestResetPassword(t *testing.T) {
	cli := newTestCLI()
	require.NoError(t, cli.addUser("staf@smkpelita.sch.id", "Staf", "Admin", "OldPass99"))
	require.NoError(t, cli.resetPassword("staf@smkpelita.sch.id", "Fresh1234"))

	usr, err := cli.usrRepo.GetUserByEmail(context.Background(), "staf@smkpelita.sch.id")
	require.NoError(t, err)
	assert.NoError(t, usr.CheckPassword("Fresh1234"))
	assert.Error(t, usr.CheckPassword("OldPass99"))
}

func TestSeedIsIdempotent(t *testing.T) {
	cli := newTestCLI()
	require.NoError(t, cli.seed())
	require.NoError(t, cli.seed())

	ctx := context.Background()
	var programs []content.Program
	require.NoError(t, cli.store.List(ctx, core.ProgramsCollection, nil, &programs))
	assert.Len(t, programs, len(seedPrograms))

	var settings content.SiteSettings
	require.NoError(t, cli.store.Get(ctx, core.SettingsCollection, core.SiteSettingsID, &settings))
	assert.Equal(t, "SMK Pelita", settings.SchoolName)
}
