package security

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	"github.com/riotkit-org/backup-repository/internal/storage/domain"
)

type plainVerifier struct{}

func (plainVerifier) Verify(password, hash string) bool {
	return "hashed:"+password == hash
}

type listingForm struct{ onlyOwn bool }

func (f listingForm) RequestsOnlyOwnFiles() bool { return f.onlyOwn }

type viewingForm struct{ password string }

func (f viewingForm) SuppliedPassword() string { return f.password }

func token(roles ...authDomain.Role) *authDomain.Token {
	return &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		Roles:     roles,
		Active:    true,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestUploadContext(t *testing.T) {
	factory := NewContextFactory(plainVerifier{})

	t.Run("no token denies everything", func(t *testing.T) {
		ctx := factory.CreateUploadContext(nil)

		assert.False(t, ctx.CanUpload())
		assert.False(t, ctx.IsMimeTypeAllowed("image/png"))
		assert.False(t, ctx.IsFileSizeAllowed(1))
		assert.False(t, ctx.AreTagsAllowed(nil))
		assert.False(t, ctx.CanOverwriteFile())
		assert.False(t, ctx.IsPasswordAllowed("secret"))
		assert.False(t, ctx.IsPasswordAllowed(""))
		assert.Equal(t, uuid.Nil, ctx.ActorID())
	})

	t.Run("zero grants deny passwords", func(t *testing.T) {
		ctx := NewUploadContext(UploadGrants{}, authDomain.TokenData{}, false, uuid.Nil)
		assert.False(t, ctx.IsPasswordAllowed("secret"))
		assert.False(t, ctx.IsPasswordAllowed(""))
	})

	t.Run("token without upload roles cannot upload", func(t *testing.T) {
		ctx := factory.CreateUploadContext(token(authDomain.RoleViewAnyFile, authDomain.RoleUploadAllowOverwriteFiles))

		assert.False(t, ctx.CanUpload())
		assert.False(t, ctx.CanOverwriteFile())
		assert.False(t, ctx.IsMimeTypeAllowed("application/gzip"))
	})

	t.Run("administrator overrides restrictions", func(t *testing.T) {
		admin := token(authDomain.RoleAdministrator, authDomain.RoleUploadEnforceNoPassword)
		admin.Data = authDomain.TokenData{MaxAllowedFileSize: 10, AllowedMimeTypes: []string{"image/png"}}
		ctx := factory.CreateUploadContext(admin)

		assert.True(t, ctx.CanUpload())
		assert.True(t, ctx.IsMimeTypeAllowed("video/mp4"))
		assert.True(t, ctx.IsFileSizeAllowed(1<<30))
		assert.True(t, ctx.AreTagsAllowed([]string{"anything"}))
		assert.True(t, ctx.CanOverwriteFile())
		assert.True(t, ctx.IsPasswordAllowed("secret"))
	})

	t.Run("type class roles cover their classes only", func(t *testing.T) {
		ctx := factory.CreateUploadContext(token(authDomain.RoleUploadImages, authDomain.RoleUploadBackup))

		assert.True(t, ctx.CanUpload())
		assert.True(t, ctx.IsMimeTypeAllowed("image/jpeg"))
		assert.True(t, ctx.IsMimeTypeAllowed("application/gzip"))
		assert.False(t, ctx.IsMimeTypeAllowed("application/pdf"))
		assert.False(t, ctx.IsMimeTypeAllowed("video/mp4"))
	})

	t.Run("upload all covers unclassified types", func(t *testing.T) {
		ctx := factory.CreateUploadContext(token(authDomain.RoleUploadAll))

		assert.True(t, ctx.IsMimeTypeAllowed("video/mp4"))
		assert.True(t, ctx.IsMimeTypeAllowed("application/pdf"))
	})

	t.Run("token restrictions apply on top of roles", func(t *testing.T) {
		restricted := token(authDomain.RoleUploadAll)
		restricted.Data = authDomain.TokenData{
			Tags:               []string{"db"},
			AllowedMimeTypes:   []string{"application/gzip"},
			MaxAllowedFileSize: 100,
		}
		ctx := factory.CreateUploadContext(restricted)

		assert.True(t, ctx.IsMimeTypeAllowed("application/gzip"))
		assert.False(t, ctx.IsMimeTypeAllowed("application/zip"))
		assert.True(t, ctx.IsFileSizeAllowed(100))
		assert.False(t, ctx.IsFileSizeAllowed(101))
		assert.True(t, ctx.AreTagsAllowed([]string{"db"}))
		assert.True(t, ctx.AreTagsAllowed(nil))
		assert.False(t, ctx.AreTagsAllowed([]string{"db", "photos"}))
	})

	t.Run("overwrite requires its role", func(t *testing.T) {
		ctx := factory.CreateUploadContext(token(authDomain.RoleUploadBackup, authDomain.RoleUploadAllowOverwriteFiles))
		assert.True(t, ctx.CanOverwriteFile())
	})

	t.Run("password policy", func(t *testing.T) {
		free := factory.CreateUploadContext(token(authDomain.RoleUploadAll))
		assert.True(t, free.IsPasswordAllowed("secret"))

		enforced := factory.CreateUploadContext(token(authDomain.RoleUploadAll, authDomain.RoleUploadEnforceNoPassword))
		assert.True(t, enforced.IsPasswordAllowed(""))
		assert.False(t, enforced.IsPasswordAllowed("secret"))
	})
}

func TestReadContext_Listing(t *testing.T) {
	factory := NewContextFactory(plainVerifier{})

	t.Run("anonymous cannot list", func(t *testing.T) {
		ctx := factory.CreateListingContextFromTokenAndForm(nil, listingForm{onlyOwn: true})
		assert.False(t, ctx.CanListFiles())
		assert.False(t, ctx.CanListAllFiles())
	})

	t.Run("token may list own files when it asks only for them", func(t *testing.T) {
		actor := token(authDomain.RoleUploadBackup)

		assert.True(t, factory.CreateListingContextFromTokenAndForm(actor, listingForm{onlyOwn: true}).CanListFiles())
		assert.False(t, factory.CreateListingContextFromTokenAndForm(actor, listingForm{}).CanListFiles())
		assert.False(t, factory.CreateListingContextFromTokenAndForm(actor, nil).CanListFiles())
	})

	t.Run("view any lists everything", func(t *testing.T) {
		ctx := factory.CreateListingContextFromTokenAndForm(token(authDomain.RoleViewAnyFile), listingForm{})
		assert.True(t, ctx.CanListFiles())
		assert.True(t, ctx.CanListAllFiles())
		assert.False(t, ctx.CanSeePasswordProtectedFiles())
	})

	t.Run("administrator lists everything", func(t *testing.T) {
		ctx := factory.CreateListingContextFromTokenAndForm(token(authDomain.RoleAdministrator), nil)
		assert.True(t, ctx.CanListFiles())
		assert.True(t, ctx.CanSeePasswordProtectedFiles())
	})
}

func TestReadContext_Viewing(t *testing.T) {
	factory := NewContextFactory(plainVerifier{})
	uploader := token(authDomain.RoleUploadAll)

	public := &domain.StoredFile{ID: uuid.Must(uuid.NewV7()), Public: true, UploadedBy: uploader.ID}
	private := &domain.StoredFile{ID: uuid.Must(uuid.NewV7()), UploadedBy: uploader.ID}
	protected := &domain.StoredFile{
		ID:           uuid.Must(uuid.NewV7()),
		Public:       true,
		PasswordHash: "hashed:letmein",
		UploadedBy:   uploader.ID,
	}

	t.Run("anonymous sees public files only", func(t *testing.T) {
		ctx := factory.CreateViewingContextFromTokenAndForm(nil, viewingForm{})

		assert.True(t, ctx.CanViewFile(public))
		assert.False(t, ctx.CanViewFile(private))
		assert.False(t, ctx.CanViewFile(protected))
		assert.False(t, ctx.CanViewFile(nil))
	})

	t.Run("password unlocks a protected file", func(t *testing.T) {
		assert.True(t, factory.CreateViewingContextFromTokenAndForm(nil, viewingForm{password: "letmein"}).CanViewFile(protected))
		assert.False(t, factory.CreateViewingContextFromTokenAndForm(nil, viewingForm{password: "wrong"}).CanViewFile(protected))
	})

	t.Run("protected view role skips the password", func(t *testing.T) {
		ctx := factory.CreateViewingContextFromTokenAndForm(token(authDomain.RoleViewPasswordProtectedFiles), nil)
		assert.True(t, ctx.CanViewFile(protected))
		assert.False(t, ctx.CanViewFile(private))
	})

	t.Run("view any sees private files but not protected ones", func(t *testing.T) {
		ctx := factory.CreateViewingContextFromTokenAndForm(token(authDomain.RoleViewAnyFile), viewingForm{})
		assert.True(t, ctx.CanViewFile(private))
		assert.False(t, ctx.CanViewFile(protected))
	})

	t.Run("uploader sees own files", func(t *testing.T) {
		ctx := factory.CreateViewingContextFromTokenAndForm(uploader, viewingForm{})
		assert.True(t, ctx.CanViewFile(private))
		assert.True(t, ctx.CanViewFile(protected))
	})

	t.Run("administrator sees everything", func(t *testing.T) {
		ctx := factory.CreateViewingContextFromTokenAndForm(token(authDomain.RoleAdministrator), viewingForm{})
		assert.True(t, ctx.CanViewFile(private))
		assert.True(t, ctx.CanViewFile(protected))
	})
}
