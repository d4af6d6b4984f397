package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks TenantStore,NamespaceStore,ChangeBroker,AuditPublisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"painel/internal/tenant/feed"
	"painel/internal/tenant/metrics"
	"painel/internal/tenant/models"
	"painel/internal/tenant/service/mocks"
	namespacestore "painel/internal/tenant/store/namespace"
	tenantstore "painel/internal/tenant/store/tenant"
	id "painel/pkg/domain"
	dErrors "painel/pkg/domain-errors"
	"painel/pkg/platform/audit"
	"painel/pkg/platform/sentinel"
	"painel/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	tenants    *mocks.MockTenantStore
	namespaces *mocks.MockNamespaceStore
	changes    *mocks.MockChangeBroker
	audit      *mocks.MockAuditPublisher
	metrics    *metrics.Metrics
	service    *Service
	now        time.Time
	ctx        context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.tenants = mocks.NewMockTenantStore(s.ctrl)
	s.namespaces = mocks.NewMockNamespaceStore(s.ctrl)
	s.changes = mocks.NewMockChangeBroker(s.ctrl)
	s.audit = mocks.NewMockAuditPublisher(s.ctrl)
	s.metrics = metrics.NewWith(prometheus.NewRegistry())

	s.service = New(s.tenants, s.namespaces, s.changes,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.audit),
		WithMetrics(s.metrics),
	)

	s.now = time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) writeCommand() WriteDocumentsCommand {
	return WriteDocumentsCommand{
		AccountID:    id.NewAccountID(),
		Email:        "finance@acme.com",
		TaxID:        "11.222.333/0001-81",
		LicenseCount: 5,
		ExpiresAt:    civil.Date{Year: 2027, Month: time.April, Day: 2},
	}
}

func (s *ServiceSuite) TestWriteTenantDocuments() {
	s.Run("writes tenant and placeholder then publishes", func() {
		cmd := s.writeCommand()
		gomock.InOrder(
			s.tenants.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, t *models.Tenant) error {
					s.Equal("11222333000181", t.TaxID)
					s.Equal(s.now, t.CreatedAt)
					s.Zero(t.UsedLicenses)
					return nil
				}),
			s.namespaces.EXPECT().Ensure(gomock.Any(), &models.Namespace{TaxID: "11222333000181", CreatedAt: s.now}).Return(nil),
			s.changes.EXPECT().Publish(gomock.Any(), models.Change{Kind: models.ChangeRegistered, AccountID: cmd.AccountID, At: s.now}).Return(nil),
			s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, e audit.Event) error {
					s.Equal(audit.ActionTenantRegistered, e.Action)
					s.Equal("11222333000181", e.Subject)
					return nil
				}),
		)

		tenant, err := s.service.WriteTenantDocuments(s.ctx, cmd)
		s.Require().NoError(err)
		s.Equal(cmd.AccountID, tenant.AccountID)
	})

	s.Run("invalid record is rejected before any write", func() {
		cmd := s.writeCommand()
		cmd.LicenseCount = 0

		_, err := s.service.WriteTenantDocuments(s.ctx, cmd)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("existing record maps to conflict", func() {
		s.tenants.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrAlreadyUsed)

		_, err := s.service.WriteTenantDocuments(s.ctx, s.writeCommand())
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("namespace failure publishes nothing", func() {
		s.tenants.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.namespaces.EXPECT().Ensure(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		_, err := s.service.WriteTenantDocuments(s.ctx, s.writeCommand())
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.Equal(float64(2), testutil.ToFloat64(s.metrics.TenantWriteFailures.WithLabelValues("register")))
	})

	s.Run("publish failure does not fail the write", func() {
		s.tenants.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.namespaces.EXPECT().Ensure(gomock.Any(), gomock.Any()).Return(nil)
		s.changes.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
		s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.WriteTenantDocuments(s.ctx, s.writeCommand())
		s.NoError(err)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.FeedPublishFailures))
	})
}

func (s *ServiceSuite) TestUpdateTenant() {
	stored := func() *models.Tenant {
		return &models.Tenant{
			AccountID:    id.NewAccountID(),
			Email:        "ops@acme.com",
			TaxID:        "11222333000181",
			LicenseCount: 3,
			UsedLicenses: 2,
			CreatedAt:    s.now.Add(-72 * time.Hour),
			ExpiresAt:    civil.Date{Year: 2026, Month: time.December, Day: 31},
		}
	}
	next := civil.Date{Year: 2027, Month: time.June, Day: 30}

	s.Run("writes both fields and keeps the rest", func() {
		tenant := stored()
		s.tenants.EXPECT().FindByID(gomock.Any(), tenant.AccountID).Return(tenant, nil)
		s.tenants.EXPECT().UpdateTerms(gomock.Any(), tenant.AccountID, 8, next).Return(nil)
		s.changes.EXPECT().Publish(gomock.Any(), models.Change{Kind: models.ChangeUpdated, AccountID: tenant.AccountID, At: s.now}).Return(nil)
		s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		updated, err := s.service.UpdateTenant(s.ctx, UpdateTermsCommand{AccountID: tenant.AccountID, LicenseCount: 8, ExpiresAt: next})
		s.Require().NoError(err)
		s.Equal(8, updated.LicenseCount)
		s.Equal(next, updated.ExpiresAt)
		s.Equal(2, updated.UsedLicenses)
		s.Equal(s.now.Add(-72*time.Hour), updated.CreatedAt)
	})

	s.Run("unknown tenant", func() {
		s.tenants.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.UpdateTenant(s.ctx, UpdateTermsCommand{AccountID: id.NewAccountID(), LicenseCount: 1, ExpiresAt: next})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("non-positive license count is rejected", func() {
		tenant := stored()
		s.tenants.EXPECT().FindByID(gomock.Any(), tenant.AccountID).Return(tenant, nil)

		_, err := s.service.UpdateTenant(s.ctx, UpdateTermsCommand{AccountID: tenant.AccountID, LicenseCount: 0, ExpiresAt: next})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("store failure surfaces as internal", func() {
		tenant := stored()
		s.tenants.EXPECT().FindByID(gomock.Any(), tenant.AccountID).Return(tenant, nil)
		s.tenants.EXPECT().UpdateTerms(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("deadlock"))

		_, err := s.service.UpdateTenant(s.ctx, UpdateTermsCommand{AccountID: tenant.AccountID, LicenseCount: 4, ExpiresAt: next})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestListTenants_WrapsStoreErrors() {
	s.tenants.EXPECT().ListAll(gomock.Any()).Return(nil, errors.New("timeout"))

	_, err := s.service.ListTenants(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestSubscribeTenants_TracksOpenSubscriptions() {
	broker := feed.NewMemoryBroker()
	s.changes.EXPECT().Subscribe(gomock.Any()).DoAndReturn(broker.Subscribe)

	sub, err := s.service.SubscribeTenants(s.ctx)
	s.Require().NoError(err)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ActiveSubscriptions))

	sub.Close()
	sub.Close()
	s.Zero(testutil.ToFloat64(s.metrics.ActiveSubscriptions))
	s.Zero(broker.Subscribers())
}

func TestService_WithMemoryStores(t *testing.T) {
	broker := feed.NewMemoryBroker()
	namespaces := namespacestore.New()
	svc := New(tenantstore.New(), namespaces, broker)
	ctx := context.Background()

	sub, err := svc.SubscribeTenants(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	first, err := svc.WriteTenantDocuments(ctx, WriteDocumentsCommand{
		AccountID: id.NewAccountID(), Email: "a@acme.com", TaxID: "11222333000181",
		LicenseCount: 2, ExpiresAt: civil.Date{Year: 2027, Month: time.January, Day: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.WriteTenantDocuments(ctx, WriteDocumentsCommand{
		AccountID: id.NewAccountID(), Email: "b@acme.com", TaxID: "11.222.333/0001-81",
		LicenseCount: 4, ExpiresAt: civil.Date{Year: 2027, Month: time.January, Day: 1},
	}); err != nil {
		t.Fatal(err)
	}

	all, err := svc.ListTenants(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tenants, got %d", len(all))
	}
	if _, err := namespaces.Find(ctx, first.TaxID); err != nil {
		t.Fatalf("namespace placeholder missing: %v", err)
	}
	if got := len(sub.C()); got != 2 {
		t.Fatalf("expected 2 pending changes, got %d", got)
	}
}

type failingNamespaces struct{ err error }

func (f failingNamespaces) Ensure(context.Context, *models.Namespace) error { return f.err }

func TestWriteTenantDocuments_RollsBackTenantWhenNamespaceFails(t *testing.T) {
	tenants := tenantstore.New()
	broker := feed.NewMemoryBroker()
	svc := New(tenants, failingNamespaces{err: errors.New("disk full")}, broker,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ctx := context.Background()

	sub, err := svc.SubscribeTenants(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	accountID := id.NewAccountID()
	_, err = svc.WriteTenantDocuments(ctx, WriteDocumentsCommand{
		AccountID: accountID, Email: "a@acme.com", TaxID: "11222333000181",
		LicenseCount: 2, ExpiresAt: civil.Date{Year: 2027, Month: time.January, Day: 1},
	})
	if !dErrors.HasCode(err, dErrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}

	if _, err := tenants.FindByID(ctx, accountID); !errors.Is(err, sentinel.ErrNotFound) {
		t.Fatalf("tenant record survived the failed transaction: %v", err)
	}
	if all, _ := tenants.ListAll(ctx); len(all) != 0 {
		t.Fatalf("expected empty collection, got %d", len(all))
	}
	if got := len(sub.C()); got != 0 {
		t.Fatalf("expected no published change, got %d", got)
	}
}

func TestUpdateTenant_AllowsZeroLicenses(t *testing.T) {
	tenants := tenantstore.New()
	svc := New(tenants, namespacestore.New(), feed.NewMemoryBroker(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ctx := context.Background()
	expires := civil.Date{Year: 2027, Month: time.January, Day: 1}

	created, err := svc.WriteTenantDocuments(ctx, WriteDocumentsCommand{
		AccountID: id.NewAccountID(), Email: "a@acme.com", TaxID: "11222333000181",
		LicenseCount: 5, ExpiresAt: expires,
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateTenant(ctx, UpdateTermsCommand{AccountID: created.AccountID, LicenseCount: 0, ExpiresAt: expires})
	if err != nil {
		t.Fatalf("edit to zero licenses: %v", err)
	}
	if updated.LicenseCount != 0 {
		t.Fatalf("license count = %d", updated.LicenseCount)
	}

	_, err = svc.UpdateTenant(ctx, UpdateTermsCommand{AccountID: created.AccountID, LicenseCount: -1, ExpiresAt: expires})
	if !dErrors.HasCode(err, dErrors.CodeInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	stored, err := tenants.FindByID(ctx, created.AccountID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.LicenseCount != 0 {
		t.Fatalf("rejected edit changed the record: %d", stored.LicenseCount)
	}
}
