// Package accountstore is the single backend surface the panel consumes: the
// credential system and the tenant document store behind one type.
package accountstore

import (
	"context"

	authmodels "painel/internal/auth/models"
	"painel/internal/tenant/feed"
	tenantmodels "painel/internal/tenant/models"
	tenantservice "painel/internal/tenant/service"
	id "painel/pkg/domain"
	"painel/pkg/platform/tracer"
)

// Credentials is the credential system.
type Credentials interface {
	CreateCredential(ctx context.Context, email, password string) (*authmodels.Credential, error)
	DeleteCredential(ctx context.Context, accountID id.AccountID) error
	SignIn(ctx context.Context, req *authmodels.SignInRequest) (*authmodels.SignInResult, error)
	SignOut(ctx context.Context, sessionID id.SessionID) error
	CurrentCredential(ctx context.Context, rawToken string) (*authmodels.Session, error)
}

// Tenants is the tenant document store.
type Tenants interface {
	WriteTenantDocuments(ctx context.Context, cmd tenantservice.WriteDocumentsCommand) (*tenantmodels.Tenant, error)
	UpdateTenant(ctx context.Context, cmd tenantservice.UpdateTermsCommand) (*tenantmodels.Tenant, error)
	ListTenants(ctx context.Context) ([]*tenantmodels.Tenant, error)
	SubscribeTenants(ctx context.Context) (feed.Subscription, error)
}

// Store forwards every backend operation and wraps each in a span.
type Store struct {
	credentials Credentials
	tenants     Tenants
	tracer      tracer.Tracer
}

type Option func(*Store)

func WithTracer(t tracer.Tracer) Option {
	return func(s *Store) {
		s.tracer = t
	}
}

func New(credentials Credentials, tenants Tenants, opts ...Option) *Store {
	s := &Store{credentials: credentials, tenants: tenants}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = tracer.NewNoop()
	}
	return s
}

func (s *Store) CreateCredential(ctx context.Context, email, password string) (cred *authmodels.Credential, err error) {
	ctx, span := s.tracer.Start(ctx, "accountstore.create_credential")
	defer func() { span.End(err) }()
	return s.credentials.CreateCredential(ctx, email, password)
}

func (s *Store) DeleteCredential(ctx context.Context, accountID id.AccountID) (err error) {
	ctx, span := s.tracer.Start(ctx, "accountstore.delete_credential")
	defer func() { span.End(err) }()
	return s.credentials.DeleteCredential(ctx, accountID)
}

func (s *Store) SignIn(ctx context.Context, req *authmodels.SignInRequest) (res *authmodels.SignInResult, err error) {
	ctx, span := s.tracer.Start(ctx, "accountstore.sign_in")
	defer func() { span.End(err) }()
	return s.credentials.SignIn(ctx, req)
}

func (s *Store) SignOut(ctx context.Context, sessionID id.SessionID) (err error) {
	ctx, span := s.tracer.Start(ctx, "accountstore.sign_out")
	defer func() { span.End(err) }()
	return s.credentials.SignOut(ctx, sessionID)
}

func (s *Store) CurrentCredential(ctx context.Context, rawToken string) (session *authmodels.Session, err error) {
	ctx, span := s.tracer.Start(ctx, "accountstore.current_credential")
	defer func() { span.End(err) }()
	return s.credentials.CurrentCredential(ctx, rawToken)
}

func (s *Store) WriteTenantDocuments(ctx context.Context, cmd tenantservice.WriteDocumentsCommand) (tenant *tenantmodels.Tenant, err error) {
	ctx, span := s.tracer.Start(ctx, "accountstore.write_tenant_documents",
		tracer.String(tracer.AttrTaxIDHash, tracer.HashTaxID(cmd.TaxID)))
	defer func() { span.End(err) }()
	return s.tenants.WriteTenantDocuments(ctx, cmd)
}

func (s *Store) UpdateTenant(ctx context.Context, cmd tenantservice.UpdateTermsCommand) (tenant *tenantmodels.Tenant, err error) {
	ctx, span := s.tracer.Start(ctx, "accountstore.update_tenant")
	defer func() { span.End(err) }()
	return s.tenants.UpdateTenant(ctx, cmd)
}

func (s *Store) ListTenants(ctx context.Context) (tenants []*tenantmodels.Tenant, err error) {
	ctx, span := s.tracer.Start(ctx, "accountstore.list_tenants")
	defer func() {
		span.SetAttributes(tracer.Int(tracer.AttrRowCount, len(tenants)))
		span.End(err)
	}()
	return s.tenants.ListTenants(ctx)
}

func (s *Store) SubscribeTenants(ctx context.Context) (sub feed.Subscription, err error) {
	ctx, span := s.tracer.Start(ctx, "accountstore.subscribe_tenants")
	defer func() { span.End(err) }()
	return s.tenants.SubscribeTenants(ctx)
}
