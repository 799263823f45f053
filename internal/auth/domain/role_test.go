package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

func TestParseRoles(t *testing.T) {
	t.Run("known roles are accepted and deduplicated", func(t *testing.T) {
		roles, err := ParseRoles([]string{"upload.all", "upload.only_once_successful", "upload.all"})

		require.NoError(t, err)
		assert.Equal(t, Roles{RoleUploadAll, RoleUploadOnlyOnceSuccessful}, roles)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		roles, err := ParseRoles([]string{"upload.all", "security.root"})

		assert.Nil(t, roles)
		assert.ErrorIs(t, err, ErrUnknownRole)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), `"security.root"`)
	})

	t.Run("empty input gives empty set", func(t *testing.T) {
		roles, err := ParseRoles(nil)

		require.NoError(t, err)
		assert.Empty(t, roles)
	})
}

func TestRoles(t *testing.T) {
	roles := Roles{RoleUploadImages, RoleViewAnyFile}

	assert.True(t, roles.Has(RoleViewAnyFile))
	assert.False(t, roles.Has(RoleAdministrator))
	assert.True(t, roles.HasAny(RoleAdministrator, RoleUploadImages))
	assert.False(t, roles.HasAny())
	assert.Equal(t, []string{"upload.images", "view.any_file"}, roles.Strings())
}

func TestAvailableRoles(t *testing.T) {
	roles := AvailableRoles()

	assert.Len(t, roles, 20)
	for _, role := range roles {
		assert.True(t, role.IsKnown(), string(role))
	}

	roles[0] = "mutated"
	assert.Equal(t, RoleAdministrator, AvailableRoles()[0])
}
