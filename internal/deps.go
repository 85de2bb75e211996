package internal

import (
	"pagebin/html-api/internal/service"
	"pagebin/html-api/internal/store"
	"pagebin/html-api/pkg/security"

	"gorm.io/gorm"
)

// Deps is the explicit dependency handle passed to every handler. It
// is built once by the process entry point, never cached globally.
type Deps struct {
	DB     *gorm.DB
	Argon  *security.ArgonHash
	Users  *store.Users
	Files  *store.Files
	Views  *store.Views
	URLs   *store.URLs
	Codes  *store.Codes
	Mailer *service.Mailer
}
