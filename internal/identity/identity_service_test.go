package identity

import (
	"context"
	"testing"

	"go-faceattend/internal/authz"
	"go-faceattend/internal/config"
	"go-faceattend/internal/embedding"
	identityerrors "go-faceattend/internal/identity/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gdb, mock
}

type fakeIdentityRepo struct {
	createFn             func(ctx context.Context, ident *Identity) error
	findByNameFn         func(ctx context.Context, name string) (*Identity, error)
	existsByEmployeeIDFn func(ctx context.Context, employeeID string) (bool, error)
	countByRoleFn        func(ctx context.Context, role authz.Role, excludeBootstrap bool) (int64, error)
	findBootstrapFn      func(ctx context.Context) ([]Identity, error)
	deleteFn             func(ctx context.Context, id uuid.UUID) error
	findAllFn            func(ctx context.Context) ([]Identity, error)
}

func (f *fakeIdentityRepo) WithTx(tx *gorm.DB) Repository { return f }
func (f *fakeIdentityRepo) Create(ctx context.Context, ident *Identity) error {
	return f.createFn(ctx, ident)
}
func (f *fakeIdentityRepo) FindByName(ctx context.Context, name string) (*Identity, error) {
	return f.findByNameFn(ctx, name)
}
func (f *fakeIdentityRepo) FindByID(ctx context.Context, id uuid.UUID) (*Identity, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeIdentityRepo) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	return f.existsByEmployeeIDFn(ctx, employeeID)
}
func (f *fakeIdentityRepo) FindAll(ctx context.Context) ([]Identity, error) {
	return f.findAllFn(ctx)
}
func (f *fakeIdentityRepo) FindAllByRole(ctx context.Context, role authz.Role) ([]Identity, error) {
	return nil, nil
}
func (f *fakeIdentityRepo) CountByRole(ctx context.Context, role authz.Role, excludeBootstrap bool) (int64, error) {
	return f.countByRoleFn(ctx, role, excludeBootstrap)
}
func (f *fakeIdentityRepo) FindBootstrap(ctx context.Context) ([]Identity, error) {
	return f.findBootstrapFn(ctx)
}
func (f *fakeIdentityRepo) Update(ctx context.Context, ident *Identity) error { return nil }
func (f *fakeIdentityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return f.deleteFn(ctx, id)
}

type fakeEmbeddings struct {
	upsertFn func(ctx context.Context, identityID uuid.UUID, name string, vector []float32) error
	deleteFn func(ctx context.Context, identityID uuid.UUID) error
}

func (f *fakeEmbeddings) WithTx(tx *gorm.DB) embedding.Repository { return f }
func (f *fakeEmbeddings) Upsert(ctx context.Context, identityID uuid.UUID, name string, vector []float32) error {
	return f.upsertFn(ctx, identityID, name, vector)
}
func (f *fakeEmbeddings) FindAll(ctx context.Context) ([]embedding.FaceEmbedding, error) {
	return nil, nil
}
func (f *fakeEmbeddings) FindByIdentity(ctx context.Context, identityID uuid.UUID) (*embedding.FaceEmbedding, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmbeddings) DeleteByIdentity(ctx context.Context, identityID uuid.UUID) error {
	return f.deleteFn(ctx, identityID)
}

type fakeDetector struct {
	vector []float32
	err    error
}

func (f *fakeDetector) DetectAndEmbed(ctx context.Context, image []byte) ([]float32, error) {
	return f.vector, f.err
}

type fakeAuthz struct {
	required authz.Role
	err      error
}

func (f *fakeAuthz) Authorize(ctx context.Context, username, password string, required authz.Role) (*authz.Credential, error) {
	f.required = required
	if f.err != nil {
		return nil, f.err
	}
	return &authz.Credential{Name: username, Role: authz.RoleMasterAdmin}, nil
}

type fakeConfigRepo struct {
	cap int
}

func (f *fakeConfigRepo) Get(ctx context.Context) (*config.SystemConfig, error) {
	return &config.SystemConfig{ID: 1, MaxMasterAdmins: f.cap, MatchThreshold: config.DefaultMatchThreshold}, nil
}
func (f *fakeConfigRepo) Update(ctx context.Context, cfg *config.SystemConfig) error { return nil }

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

const testImage = "aW1hZ2UtYnl0ZXM=" // base64 of "image-bytes"

func registerRequest(name string) RegisterUserRequest {
	return RegisterUserRequest{
		AdminUsername:   "admin",
		AdminPassword:   "pw",
		Name:            name,
		Designation:     "engineer",
		PerDaySalary:    500,
		EmploymentType:  EmploymentFullTime,
		OfficeStartTime: "09:00",
		ImageBase64:     testImage,
	}
}

func TestService_RegisterUser(t *testing.T) {
	gdb, mock := newGormDB(t)
	ctx := context.Background()

	var savedIdentity *Identity
	var savedVector []float32
	repo := &fakeIdentityRepo{
		findByNameFn: func(ctx context.Context, name string) (*Identity, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, ident *Identity) error {
			savedIdentity = ident
			return nil
		},
	}
	emb := &fakeEmbeddings{
		upsertFn: func(ctx context.Context, identityID uuid.UUID, name string, vector []float32) error {
			savedVector = vector
			return nil
		},
	}

	svc := NewService(gdb, repo, emb, &fakeDetector{vector: []float32{0.1, 0.2}},
		&fakeAuthz{}, &fakeConfigRepo{cap: 1}, &fakeCounter{}, fakeHasher{}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.RegisterUser(ctx, registerRequest("alice"))

	assert.NoError(t, err)
	assert.Equal(t, "alice", resp.Name)
	assert.Equal(t, "EMP-000001", resp.EmployeeID)
	assert.Equal(t, string(authz.RoleUser), resp.Role)
	assert.Equal(t, []float32{0.1, 0.2}, savedVector)
	assert.Equal(t, savedIdentity.ID, uuid.MustParse(resp.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_RegisterUser_DuplicateEmployeeID(t *testing.T) {
	gdb, mock := newGormDB(t)
	ctx := context.Background()

	created := false
	repo := &fakeIdentityRepo{
		findByNameFn: func(ctx context.Context, name string) (*Identity, error) {
			return nil, gorm.ErrRecordNotFound
		},
		existsByEmployeeIDFn: func(ctx context.Context, employeeID string) (bool, error) {
			return true, nil
		},
		createFn: func(ctx context.Context, ident *Identity) error {
			created = true
			return nil
		},
	}
	emb := &fakeEmbeddings{
		upsertFn: func(ctx context.Context, identityID uuid.UUID, name string, vector []float32) error {
			t.Fatal("embedding must not be written on conflict")
			return nil
		},
	}

	svc := NewService(gdb, repo, emb, &fakeDetector{vector: []float32{0.1}},
		&fakeAuthz{}, &fakeConfigRepo{cap: 1}, &fakeCounter{}, fakeHasher{}, nil)

	req := registerRequest("bob")
	req.EmployeeID = "EMP-000042"

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.RegisterUser(ctx, req)

	assert.ErrorIs(t, err, identityerrors.ErrEmployeeIDAlreadyExists)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_RegisterUser_ExistingNameOverwritesFace(t *testing.T) {
	gdb, mock := newGormDB(t)
	ctx := context.Background()

	existing := Identity{ID: uuid.New(), Name: "carol", EmployeeID: "EMP-000007", Role: authz.RoleUser}
	var overwritten bool
	repo := &fakeIdentityRepo{
		findByNameFn: func(ctx context.Context, name string) (*Identity, error) {
			return &existing, nil
		},
		createFn: func(ctx context.Context, ident *Identity) error {
			t.Fatal("existing identity must not be recreated")
			return nil
		},
	}
	emb := &fakeEmbeddings{
		upsertFn: func(ctx context.Context, identityID uuid.UUID, name string, vector []float32) error {
			overwritten = true
			assert.Equal(t, existing.ID, identityID)
			return nil
		},
	}

	svc := NewService(gdb, repo, emb, &fakeDetector{vector: []float32{0.3}},
		&fakeAuthz{}, &fakeConfigRepo{cap: 1}, &fakeCounter{}, fakeHasher{}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.RegisterUser(ctx, registerRequest("carol"))

	assert.NoError(t, err)
	assert.True(t, overwritten)
	assert.Equal(t, "EMP-000007", resp.EmployeeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CreateMasterAdmin_CapReached(t *testing.T) {
	gdb, mock := newGormDB(t)
	ctx := context.Background()

	repo := &fakeIdentityRepo{
		countByRoleFn: func(ctx context.Context, role authz.Role, excludeBootstrap bool) (int64, error) {
			assert.True(t, excludeBootstrap)
			return 1, nil
		},
	}

	svc := NewService(gdb, repo, &fakeEmbeddings{}, &fakeDetector{},
		&fakeAuthz{}, &fakeConfigRepo{cap: 1}, &fakeCounter{}, fakeHasher{}, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.CreateMasterAdmin(ctx, CreateMasterAdminRequest{
		AdminUsername: "root", AdminPassword: "pw", Name: "second", Password: "password123",
	})

	assert.ErrorIs(t, err, identityerrors.ErrMasterAdminCapReached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CreateMasterAdmin_RetiresBootstrap(t *testing.T) {
	gdb, mock := newGormDB(t)
	ctx := context.Background()

	bootstrap := Identity{ID: uuid.New(), Name: "bootstrap-admin", Role: authz.RoleMasterAdmin, IsBootstrap: true}
	var deleted []uuid.UUID
	repo := &fakeIdentityRepo{
		findByNameFn: func(ctx context.Context, name string) (*Identity, error) {
			return nil, gorm.ErrRecordNotFound
		},
		countByRoleFn: func(ctx context.Context, role authz.Role, excludeBootstrap bool) (int64, error) {
			return 0, nil
		},
		createFn: func(ctx context.Context, ident *Identity) error { return nil },
		findBootstrapFn: func(ctx context.Context) ([]Identity, error) {
			return []Identity{bootstrap}, nil
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			deleted = append(deleted, id)
			return nil
		},
	}

	az := &fakeAuthz{}
	svc := NewService(gdb, repo, &fakeEmbeddings{}, &fakeDetector{},
		az, &fakeConfigRepo{cap: 1}, &fakeCounter{}, fakeHasher{}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.CreateMasterAdmin(ctx, CreateMasterAdminRequest{
		AdminUsername: "bootstrap-admin", AdminPassword: "pw", Name: "real-root", Password: "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, authz.RoleMasterAdmin, az.required)
	assert.Equal(t, string(authz.RoleMasterAdmin), resp.Role)
	assert.Equal(t, []uuid.UUID{bootstrap.ID}, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Delete_RemovesIdentityAndEmbedding(t *testing.T) {
	gdb, mock := newGormDB(t)
	ctx := context.Background()

	ident := Identity{ID: uuid.New(), Name: "dave", Role: authz.RoleUser}
	var identityDeleted, embeddingDeleted bool
	repo := &fakeIdentityRepo{
		findByNameFn: func(ctx context.Context, name string) (*Identity, error) {
			return &ident, nil
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			identityDeleted = true
			return nil
		},
	}
	emb := &fakeEmbeddings{
		deleteFn: func(ctx context.Context, identityID uuid.UUID) error {
			embeddingDeleted = true
			assert.Equal(t, ident.ID, identityID)
			return nil
		},
	}

	svc := NewService(gdb, repo, emb, &fakeDetector{},
		&fakeAuthz{}, &fakeConfigRepo{cap: 1}, &fakeCounter{}, fakeHasher{}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	err := svc.Delete(ctx, "dave", DeleteIdentityRequest{AdminUsername: "admin", AdminPassword: "pw"})

	assert.NoError(t, err)
	assert.True(t, identityDeleted)
	assert.True(t, embeddingDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Delete_LastMasterAdmin(t *testing.T) {
	gdb, mock := newGormDB(t)
	ctx := context.Background()

	ident := Identity{ID: uuid.New(), Name: "root", Role: authz.RoleMasterAdmin}
	repo := &fakeIdentityRepo{
		findByNameFn: func(ctx context.Context, name string) (*Identity, error) {
			return &ident, nil
		},
		countByRoleFn: func(ctx context.Context, role authz.Role, excludeBootstrap bool) (int64, error) {
			assert.False(t, excludeBootstrap)
			return 1, nil
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			t.Fatal("last master admin must not be deleted")
			return nil
		},
	}

	svc := NewService(gdb, repo, &fakeEmbeddings{}, &fakeDetector{},
		&fakeAuthz{}, &fakeConfigRepo{cap: 1}, &fakeCounter{}, fakeHasher{}, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	err := svc.Delete(ctx, "root", DeleteIdentityRequest{AdminUsername: "root", AdminPassword: "pw"})

	assert.ErrorIs(t, err, identityerrors.ErrLastMasterAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_EnsureBootstrap(t *testing.T) {
	gdb, _ := newGormDB(t)
	ctx := context.Background()

	var created *Identity
	count := int64(0)
	repo := &fakeIdentityRepo{
		countByRoleFn: func(ctx context.Context, role authz.Role, excludeBootstrap bool) (int64, error) {
			return count, nil
		},
		createFn: func(ctx context.Context, ident *Identity) error {
			created = ident
			return nil
		},
	}

	svc := NewService(gdb, repo, &fakeEmbeddings{}, &fakeDetector{},
		&fakeAuthz{}, &fakeConfigRepo{cap: 1}, &fakeCounter{}, fakeHasher{}, nil)

	assert.NoError(t, svc.EnsureBootstrap(ctx, "bootstrap-admin", "changeme"))
	assert.NotNil(t, created)
	assert.True(t, created.IsBootstrap)
	assert.Equal(t, authz.RoleMasterAdmin, created.Role)
	assert.Equal(t, "hashed:changeme", created.PasswordHash)

	// Second boot with an existing master admin is a no-op.
	count = 1
	created = nil
	assert.NoError(t, svc.EnsureBootstrap(ctx, "bootstrap-admin", "changeme"))
	assert.Nil(t, created)
}
