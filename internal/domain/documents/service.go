package documents

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hrrecords/internal/domain/identity"
	"hrrecords/internal/platform/storage"
	"hrrecords/internal/platform/validate"
)

type Service struct {
	Store   Repository
	Objects storage.Store
	newID   func() string
}

func NewService(store Repository, objects storage.Store) *Service {
	return &Service{Store: store, Objects: objects, newID: uuid.NewString}
}

func (s *Service) List(ctx context.Context, caller identity.Caller) ([]Document, error) {
	if !caller.Authenticated() {
		return nil, identity.ErrUnauthenticated
	}
	return s.Store.List(ctx)
}

func (s *Service) Get(ctx context.Context, caller identity.Caller, id string) (*Document, error) {
	if !caller.Authenticated() {
		return nil, identity.ErrUnauthenticated
	}
	v := validate.New()
	v.Required("id", id)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) ListByEmployee(ctx context.Context, caller identity.Caller, employeeID string) ([]Document, error) {
	if !caller.Authenticated() {
		return nil, identity.ErrUnauthenticated
	}
	v := validate.New()
	v.Required("employeeId", employeeID)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.Store.ListByEmployee(ctx, employeeID)
}

// Upload decodes the payload, hands it to the object store and records the
// returned URL. The bytes are never written to the database.
func (s *Service) Upload(ctx context.Context, caller identity.Caller, in UploadInput) (Document, error) {
	if !caller.Authenticated() {
		return Document{}, identity.ErrUnauthenticated
	}

	v := validate.New()
	v.Required("employeeId", in.EmployeeID)
	v.Required("fileName", in.FileName)
	v.Required("fileType", in.FileType)
	v.Required("category", in.Category)
	v.Enum("category", in.Category, Categories)
	data, _ := v.Base64("fileData", in.FileData)
	if err := v.Err(); err != nil {
		return Document{}, err
	}

	id := s.newID()
	key := storage.Key(in.EmployeeID, id, in.FileName)
	url, err := s.Objects.Put(ctx, key, data, in.FileType)
	if err != nil {
		return Document{}, fmt.Errorf("store document: %w", err)
	}
	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("document stored")

	fileType := in.FileType
	uploader := caller.ID
	return s.Store.Create(ctx, Document{
		ID:         id,
		EmployeeID: in.EmployeeID,
		FileName:   in.FileName,
		FileURL:    url,
		FileType:   &fileType,
		Category:   Category(in.Category),
		UploadedBy: &uploader,
	})
}

func (s *Service) Delete(ctx context.Context, caller identity.Caller, id string) error {
	if !caller.Authenticated() {
		return identity.ErrUnauthenticated
	}
	v := validate.New()
	v.Required("id", id)
	if err := v.Err(); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}
