package dal

import (
	"context"
	"errors"
	"io"
)

const (
	CollectionTerms Collection = "terms"
	CollectionTips  Collection = "tips"
	CollectionDocs  Collection = "docs"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrUserExists = errors.New("user already exists")
	ErrInvalid    = errors.New("invalid collection")
)

type (
	// Collection names a plain record collection. Cards are stored separately
	// because every entry references an image file.
	Collection string

	RecordsRepository interface {
		Records(ctx context.Context, c Collection) ([]Record, error)
		CreateRecord(ctx context.Context, c Collection, r Record) error
		UpdateRecord(ctx context.Context, c Collection, idx int, r Record) (Record, error)
		DeleteRecord(ctx context.Context, c Collection, idx int) (Record, error)
	}

	CardsRepository interface {
		Cards(ctx context.Context) ([]Card, error)
		CardImagePath(file string) string
		UploadCard(ctx context.Context, filename string, content io.Reader) (card Card, overwritten bool, err error)
		UpdateCard(ctx context.Context, idx int, captions Record) (Card, error)
		DeleteCard(ctx context.Context, idx int) (Card, error)
	}

	UsersRepository interface {
		Users(ctx context.Context) ([]User, error)
		FindUser(ctx context.Context, username string) (*User, error)
		CreateUser(ctx context.Context, user User) error
		DeleteUser(ctx context.Context, username string) error
		UpdatePasswordHash(ctx context.Context, username, hash string) error
	}

	AuditRepository interface {
		AppendAudit(ctx context.Context, actor, action string, details map[string]any) error
		RecentAudit(ctx context.Context, limit int) ([]AuditEntry, error)
	}

	Repository interface {
		RecordsRepository
		CardsRepository
		UsersRepository
		AuditRepository
	}
)

// Collections returns the plain record collections in display order.
func Collections() []Collection {
	return []Collection{CollectionTerms, CollectionTips, CollectionDocs}
}

func (c Collection) Valid() bool {
	switch c {
	case CollectionTerms, CollectionTips, CollectionDocs:
		return true
	default:
		return false
	}
}

func (c Collection) fileName() string {
	switch c {
	case CollectionTerms:
		return "terms.json"
	case CollectionTips:
		return "tips.json"
	case CollectionDocs:
		return "documents.json"
	default:
		return ""
	}
}
