package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/codes"
	"hrms/internal/domain/guard"
	"hrms/internal/domain/patch"
	"hrms/internal/platform/cache"
	"hrms/internal/platform/events"
	"hrms/internal/platform/storage"
	"hrms/internal/requestctx"
)

type Service struct {
	store     StoreAPI
	allocator codes.Allocator
	uploader  storage.Uploader
	events    events.Publisher
	cache     *cache.Cache
	jwtSecret string
}

func NewService(store StoreAPI, allocator codes.Allocator, uploader storage.Uploader, publisher events.Publisher, listCache *cache.Cache, jwtSecret string) *Service {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Service{
		store:     store,
		allocator: allocator,
		uploader:  uploader,
		events:    publisher,
		cache:     listCache,
		jwtSecret: jwtSecret,
	}
}

// committed retires stale list caches, then announces the change.
func (s *Service) committed(ctx context.Context, name string, payload any) {
	s.cache.Changed(ctx, name)
	s.events.Publish(name, payload)
}

type CreateResult struct {
	User  Detail `json:"user"`
	Token string `json:"token"`
}

func (s *Service) List(ctx context.Context) ([]Detail, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if users == nil {
		users = []Detail{}
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	if err := guard.KnownID(Entity, id); err != nil {
		return Detail{}, err
	}
	d, err := s.store.Detail(ctx, id)
	if err != nil {
		return Detail{}, guard.TranslateWrite(err, Entity, constraints)
	}
	return d, nil
}

func (s *Service) Create(ctx context.Context, sub Submission) (CreateResult, error) {
	f := sub.Fields
	email := strings.TrimSpace(f.Get(FieldEmail))
	if email == "" {
		return CreateResult{}, apperr.Validation(FieldEmail, MsgEmailRequired)
	}

	u := User{Email: email, Role: auth.DefaultRole}
	if err := applyFields(&u, f, true); err != nil {
		return CreateResult{}, err
	}
	u.Name = displayName(u.FirstName, u.LastName)
	if password := f.Get(FieldPassword); password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return CreateResult{}, apperr.Internal(err)
		}
		u.PasswordHash = &hash
	}

	uploads, err := s.upload(ctx, sub)
	if err != nil {
		return CreateResult{}, err
	}
	u.ProfilePhotoURL = uploads.photo
	u.ResumeURL = uploads.resume

	var detail Detail
	err = guard.RetryOnConflict(ctx, guard.DefaultAttempts, func() error {
		return s.store.InTx(ctx, func(tx StoreAPI) error {
			code, err := s.allocator.Allocate(ctx, tx, codes.Employee)
			if err != nil {
				return err
			}
			u.EmployeeID = code
			id, err := tx.Create(ctx, u)
			if err != nil {
				return err
			}
			if err := tx.AddCertificates(ctx, id, uploads.certificates); err != nil {
				return err
			}
			detail, err = tx.Detail(ctx, id)
			return err
		})
	}, ConstraintEmployeeID)
	if err != nil {
		return CreateResult{}, translate(err)
	}

	token, err := s.token(detail.User)
	if err != nil {
		return CreateResult{}, apperr.Internal(err)
	}

	s.committed(ctx, events.UserCreated, detail)
	return CreateResult{User: detail, Token: token}, nil
}

// Update merges the submitted fields into the stored user. Email and the
// dates are only replaced by non-empty values; uploaded certificates are
// appended to the existing ones.
func (s *Service) Update(ctx context.Context, id string, sub Submission) (Detail, error) {
	if err := guard.KnownID(Entity, id); err != nil {
		return Detail{}, err
	}
	f := sub.Fields
	if _, err := s.store.Get(ctx, id); err != nil {
		return Detail{}, guard.TranslateWrite(err, Entity, constraints)
	}

	var hash string
	if password := f.Get(FieldPassword); password != "" {
		var err error
		if hash, err = auth.HashPassword(password); err != nil {
			return Detail{}, apperr.Internal(err)
		}
	}
	uploads, err := s.upload(ctx, sub)
	if err != nil {
		return Detail{}, err
	}

	var detail Detail
	err = s.store.InTx(ctx, func(tx StoreAPI) error {
		u, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		previousFirst, previousLast := u.FirstName, u.LastName
		if err := applyFields(&u, f, false); err != nil {
			return err
		}
		patch.ApplyNonZero(&u.Email, trimmed(f.String(FieldEmail)))
		patch.ApplyNonZero(&u.Role, trimmed(f.String(FieldRole)))
		if first, last := f.Get(FieldFirstName), f.Get(FieldLastName); first != "" || last != "" {
			u.Name = displayName(firstNonEmpty(first, previousFirst), firstNonEmpty(last, previousLast))
		}
		if hash != "" {
			u.PasswordHash = &hash
		}
		if uploads.photo != "" {
			u.ProfilePhotoURL = uploads.photo
		}
		if uploads.resume != "" {
			u.ResumeURL = uploads.resume
		}
		if err := tx.Update(ctx, u); err != nil {
			return err
		}
		if err := tx.AddCertificates(ctx, id, uploads.certificates); err != nil {
			return err
		}
		detail, err = tx.Detail(ctx, id)
		return err
	})
	if err != nil {
		return Detail{}, translate(err)
	}

	s.committed(ctx, events.UserUpdated, detail)
	return detail, nil
}

func (s *Service) UpdateRole(ctx context.Context, id, role string) (Detail, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return Detail{}, apperr.Validation(FieldRole, MsgRoleRequired)
	}
	if err := guard.KnownID(Entity, id); err != nil {
		return Detail{}, err
	}

	var detail Detail
	err := s.store.InTx(ctx, func(tx StoreAPI) error {
		u, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		u.Role = role
		if err := tx.Update(ctx, u); err != nil {
			return err
		}
		detail, err = tx.Detail(ctx, id)
		return err
	})
	if err != nil {
		return Detail{}, translate(err)
	}

	s.committed(ctx, events.UserUpdated, detail)
	return detail, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, apperr.Validation("", MsgCredentialsRequired)
	}
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, guard.TranslateWrite(err, Entity, constraints)
	}
	if u.PasswordHash == nil || auth.CheckPassword(*u.PasswordHash, password) != nil {
		return LoginResult{}, apperr.Authentication(MsgInvalidPassword)
	}

	token, err := s.token(u)
	if err != nil {
		return LoginResult{}, apperr.Internal(err)
	}
	return LoginResult{
		User:  LoginUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role},
		Token: token,
	}, nil
}

// EnsureAdmin creates an administrator with the given credentials unless a
// user with that email already exists.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !guard.IsMissing(err) {
		return err
	}

	_, err = s.Create(ctx, Submission{Fields: patch.Values{
		FieldEmail:     email,
		FieldPassword:  password,
		FieldFirstName: "Admin",
		FieldRole:      auth.RoleAdmin,
	}})
	if err != nil {
		return err
	}
	slog.Info("seeded admin user", "email", email)
	return nil
}

func (s *Service) token(u User) (string, error) {
	return auth.GenerateToken(s.jwtSecret, auth.Claims{UserID: u.ID, Email: u.Email, Role: u.Role}, auth.TokenTTL)
}

type uploaded struct {
	photo        string
	resume       string
	certificates []Certificate
}

// upload stores the submitted files before any row is written. A failed
// transaction leaves the objects orphaned in storage.
func (s *Service) upload(ctx context.Context, sub Submission) (uploaded, error) {
	var out uploaded
	if len(sub.Certificates) > MaxCertificates {
		return out, apperr.Validation("certificates", fmt.Sprintf("at most %d certificates may be uploaded", MaxCertificates))
	}
	if sub.ProfilePhoto == nil && sub.Resume == nil && len(sub.Certificates) == 0 {
		return out, nil
	}
	if s.uploader == nil {
		return out, apperr.Internal(errors.New("file storage is not configured"))
	}

	if sub.ProfilePhoto != nil {
		stored, err := s.put(ctx, "profilePhoto", *sub.ProfilePhoto)
		if err != nil {
			return out, err
		}
		out.photo = stored.URL
	}
	if sub.Resume != nil {
		stored, err := s.put(ctx, "resume", *sub.Resume)
		if err != nil {
			return out, err
		}
		out.resume = stored.URL
	}
	for _, file := range sub.Certificates {
		stored, err := s.put(ctx, "certificates", file)
		if err != nil {
			return out, err
		}
		out.certificates = append(out.certificates, Certificate{Name: file.Name, URL: stored.URL})
	}
	return out, nil
}

func (s *Service) put(ctx context.Context, field string, file storage.File) (storage.Stored, error) {
	stored, err := s.uploader.Upload(ctx, file)
	switch {
	case err == nil:
		return stored, nil
	case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrEmptyFile):
		return storage.Stored{}, apperr.Validation(field, err.Error())
	default:
		requestctx.Logger(ctx).Error("upload failed", "field", field, "file", file.Name, "err", err)
		return storage.Stored{}, apperr.Internal(fmt.Errorf("upload %s: %w", field, err))
	}
}

// applyFields copies the submitted profile fields onto u. On create every
// present field is taken as is; on update the same rule merges them into
// the stored record.
func applyFields(u *User, f patch.Values, creating bool) error {
	for key, dst := range textFields(u) {
		patch.Apply(dst, f.String(key))
	}

	username := f.String(FieldUsername)
	username.Value = strings.TrimSpace(username.Value)
	patch.ApplyNullable(&u.Username, username)

	if creating {
		patch.ApplyNonZero(&u.Role, trimmed(f.String(FieldRole)))
	}

	children, err := f.Int(FieldDependentChildren)
	if err != nil {
		return apperr.Validation(FieldDependentChildren, err.Error())
	}
	patch.Apply(&u.DependentChildren, children)

	for _, ref := range []struct {
		field, target string
		dst           **string
	}{
		{FieldDepartmentID, "department", &u.DepartmentID},
		{FieldDesignationID, "designation", &u.DesignationID},
	} {
		value := trimmed(f.String(ref.field))
		if err := guard.Reference(ref.field, ref.target, value.Value); err != nil {
			return err
		}
		patch.ApplyNullable(ref.dst, value)
	}

	for _, date := range []struct {
		field string
		dst   **time.Time
	}{
		{FieldJoiningDate, &u.JoiningDate},
		{FieldDateOfBirth, &u.DateOfBirth},
	} {
		value := strings.TrimSpace(f.Get(date.field))
		if value == "" {
			continue
		}
		t, err := ParseDate(value)
		if err != nil {
			return apperr.Validation(date.field, fmt.Sprintf("%s must be a date", date.field))
		}
		*date.dst = &t
	}
	return nil
}

// translate maps store failures and rewrites duplicate messages so the
// client is told which field to change.
func translate(err error) error {
	err = guard.TranslateWrite(err, Entity, constraints)
	if appErr, ok := apperr.As(err); ok && appErr.Kind == apperr.KindDuplicateKey {
		appErr.Message = fmt.Sprintf("User with this %s already exists. Please use a unique %s.", appErr.Field, appErr.Field)
	}
	return err
}

func trimmed(f patch.Field[string]) patch.Field[string] {
	f.Value = strings.TrimSpace(f.Value)
	return f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
