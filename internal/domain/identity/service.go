package identity

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/derma/clinic/internal/platform/apperror"
	"github.com/derma/clinic/internal/platform/auth"
	"github.com/derma/clinic/internal/platform/blobstore"
)

// ErrInvalidCredentials covers both a missing user and a wrong password so
// login failures do not leak which usernames exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Document is an uploaded registration attachment.
type Document struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// RegisterInput carries the registration form. Patients must attach a consent
// certificate, specialists a practice license.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Username    string
	Email       string
	Password    string
	Mobile      string
	CNIC        string
	State       string
	City        string
	Role        Role
	Specialty   string
	Certificate *Document
	License     *Document
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Service struct {
	users     UserRepository
	tokens    RefreshTokenRepository
	blobs     blobstore.BlobStore
	jwtSecret string
}

func NewService(users UserRepository, tokens RefreshTokenRepository, blobs blobstore.BlobStore, jwtSecret string) *Service {
	return &Service{users: users, tokens: tokens, blobs: blobs, jwtSecret: jwtSecret}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	fields := map[string]string{}
	req := func(field, val string) {
		if strings.TrimSpace(val) == "" {
			fields[field] = "is required"
		}
	}
	req("first_name", in.FirstName)
	req("last_name", in.LastName)
	req("username", in.Username)
	req("email", in.Email)
	req("mobile", in.Mobile)
	req("cnic", in.CNIC)
	req("state", in.State)
	req("city", in.City)

	if in.Password == "" {
		fields["password"] = "is required"
	} else if len(in.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if !in.Role.Valid() || in.Role == RoleAdmin {
		fields["user_type"] = "must be patient or specialist"
	}
	// consent is mandatory for patients; a specialist's license can be
	// supplied later
	if in.Role == RolePatient && in.Certificate == nil {
		fields["consent_certificate"] = "is required"
	}
	if in.Role == RolePatient && in.License != nil {
		fields["license"] = "only specialists upload a license"
	}

	// documents are buffered and checked before any row is written so a bad
	// upload cannot leave a half-registered user behind
	var certData, licenseData []byte
	if in.Certificate != nil {
		certData = readDocument(blobstore.CategoryConsentCertificate, in.Certificate, fields)
	}
	if in.License != nil && in.Role != RolePatient {
		licenseData = readDocument(blobstore.CategoryLicense, in.License, fields)
	}
	if len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Mobile:       in.Mobile,
		CNIC:         in.CNIC,
		State:        in.State,
		City:         in.City,
		Role:         in.Role,
	}
	if in.Role == RoleSpecialist && strings.TrimSpace(in.Specialty) != "" {
		sp := in.Specialty
		u.Specialty = &sp
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if certData != nil {
		if err := s.storeDocument(ctx, u.ID, blobstore.CategoryConsentCertificate, in.Certificate, certData); err != nil {
			return nil, err
		}
		u.HasCertificate = true
	}
	if licenseData != nil {
		if err := s.storeDocument(ctx, u.ID, blobstore.CategoryLicense, in.License, licenseData); err != nil {
			return nil, err
		}
		u.HasLicense = true
	}
	if u.HasCertificate || u.HasLicense {
		if err := s.users.Update(ctx, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// readDocument buffers an upload and records any problem with it in fields.
// Returns nil when the document is unusable.
func readDocument(category string, doc *Document, fields map[string]string) []byte {
	if doc.FileName == "" {
		fields[category] = "is required"
		return nil
	}
	if !blobstore.AllowedContentTypes[doc.ContentType] {
		fields[category] = "must be a PDF document"
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(doc.Content, blobstore.MaxFileSize+1))
	if err != nil {
		fields[category] = "could not be read"
		return nil
	}
	if int64(len(data)) > blobstore.MaxFileSize {
		fields[category] = "exceeds the 5 MB limit"
		return nil
	}
	return data
}

func (s *Service) storeDocument(ctx context.Context, owner uuid.UUID, category string, doc *Document, data []byte) error {
	meta := blobstore.BlobMetadata{
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		OwnerID:     owner.String(),
		Category:    category,
	}
	_, err := s.blobs.Upload(ctx, meta, bytes.NewReader(data))
	return err
}

func (s *Service) Login(ctx context.Context, username, password string) (*User, *TokenPair, error) {
	u, err := s.users.GetByUsername(ctx, username)
	var nf *apperror.NotFoundError
	if errors.As(err, &nf) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (s *Service) issueTokens(ctx context.Context, u *User) (*TokenPair, error) {
	access, err := auth.MakeAccessToken(u.ID.String(), string(u.Role), s.jwtSecret)
	if err != nil {
		return nil, err
	}
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	if _, err := s.tokens.Create(ctx, u.ID, hash, time.Now().Add(auth.RefreshTokenTTL)); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: raw}, nil
}

// Refresh rotates the presented refresh token: the old token is revoked and a
// new pair is issued. A revoked or expired token yields ErrInvalidCredentials.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	rt, err := s.tokens.GetByHash(ctx, auth.HashRefreshToken(rawToken))
	var nf *apperror.NotFoundError
	if errors.As(err, &nf) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if rt.Revoked || time.Now().After(rt.ExpiresAt) {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByID(ctx, rt.UserID)
	if err != nil {
		return nil, err
	}

	access, err := auth.MakeAccessToken(u.ID.String(), string(u.Role), s.jwtSecret)
	if err != nil {
		return nil, err
	}
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Rotate(ctx, rt.ID, uuid.New(), u.ID, hash, time.Now().Add(auth.RefreshTokenTTL)); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: raw}, nil
}

func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.RevokeAll(ctx, userID)
}

// RoleOf resolves a user's role from storage. Other domains use it to
// authorize against the persisted role rather than the token claim.
func (s *Service) RoleOf(ctx context.Context, id uuid.UUID) (Role, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (s *Service) GetUser(ctx context.Context, caller auth.Principal, id uuid.UUID) (*User, error) {
	if caller.Role != string(RoleAdmin) && caller.ID != id {
		return nil, apperror.Forbidden("Not authorized to view this user")
	}
	return s.users.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.users.List(ctx)
}

func (s *Service) ListSpecialists(ctx context.Context) ([]*PublicSpecialist, error) {
	return s.users.ListSpecialists(ctx)
}

// UpdateProfileInput carries the editable profile fields. Nil means leave
// unchanged.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Mobile    *string
	State     *string
	City      *string
	Specialty *string
}

func (s *Service) UpdateProfile(ctx context.Context, caller auth.Principal, id uuid.UUID, in UpdateProfileInput) (*User, error) {
	if caller.Role != string(RoleAdmin) && caller.ID != id {
		return nil, apperror.Forbidden("Not authorized to update this user")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.FirstName, in.FirstName)
	set(&u.LastName, in.LastName)
	set(&u.Mobile, in.Mobile)
	set(&u.State, in.State)
	set(&u.City, in.City)
	if in.Specialty != nil {
		if u.Role != RoleSpecialist {
			return nil, apperror.ValidationMsg("Only specialists have a specialty")
		}
		u.Specialty = in.Specialty
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Document returns the latest stored document of the given category for a
// user. Callers may fetch their own documents; admins may fetch anyone's.
func (s *Service) Document(ctx context.Context, caller auth.Principal, id uuid.UUID, category string) (io.ReadCloser, *blobstore.BlobMetadata, error) {
	if caller.Role != string(RoleAdmin) && caller.ID != id {
		return nil, nil, apperror.Forbidden("Not authorized to view this document")
	}
	meta, err := s.blobs.LatestByOwner(ctx, id.String(), category)
	if errors.Is(err, blobstore.ErrBlobNotFound) {
		return nil, nil, apperror.NotFound("Document not found")
	}
	if err != nil {
		return nil, nil, err
	}
	return s.blobs.Download(ctx, meta.ID)
}
