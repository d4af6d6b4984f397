package accountstore

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	authmodels "painel/internal/auth/models"
	authservice "painel/internal/auth/service"
	credentialstore "painel/internal/auth/store/credential"
	sessionstore "painel/internal/auth/store/session"
	"painel/internal/auth/token"
	"painel/internal/tenant/feed"
	tenantservice "painel/internal/tenant/service"
	namespacestore "painel/internal/tenant/store/namespace"
	tenantstore "painel/internal/tenant/store/tenant"
	dErrors "painel/pkg/domain-errors"
	"painel/pkg/requestcontext"
)

// StoreSuite runs the backend operations end to end over in-memory stores.
type StoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	credentials := authservice.New(
		credentialstore.New(),
		sessionstore.New(),
		token.NewSigner("test-signing-key-with-32-bytes!!"),
		authservice.WithHashCost(bcrypt.MinCost),
	)
	tenants := tenantservice.New(tenantstore.New(), namespacestore.New(), feed.NewMemoryBroker())
	s.store = New(credentials, tenants)
	s.ctx = requestcontext.WithTime(context.Background(), time.Now())
}

func (s *StoreSuite) TestCredentialLifecycle() {
	cred, err := s.store.CreateCredential(s.ctx, "Ops@Acme.com", "admin1")
	s.Require().NoError(err)
	s.Equal("ops@acme.com", cred.Email)

	_, err = s.store.CreateCredential(s.ctx, "ops@acme.com", "admin1")
	s.True(dErrors.HasCode(err, dErrors.CodeEmailInUse))

	result, err := s.store.SignIn(s.ctx, &authmodels.SignInRequest{Email: "ops@acme.com", Password: "admin1"})
	s.Require().NoError(err)

	current, err := s.store.CurrentCredential(s.ctx, result.Token)
	s.Require().NoError(err)
	s.Equal(cred.AccountID, current.AccountID)

	s.Require().NoError(s.store.SignOut(s.ctx, current.ID))
	_, err = s.store.CurrentCredential(s.ctx, result.Token)
	s.Error(err)

	s.Require().NoError(s.store.DeleteCredential(s.ctx, cred.AccountID))
	_, err = s.store.SignIn(s.ctx, &authmodels.SignInRequest{Email: "ops@acme.com", Password: "admin1"})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidCredentials))
}

func (s *StoreSuite) TestTenantDocuments() {
	sub, err := s.store.SubscribeTenants(s.ctx)
	s.Require().NoError(err)
	defer sub.Close()

	cred, err := s.store.CreateCredential(s.ctx, "tenant@acme.com", "admin1")
	s.Require().NoError(err)

	_, err = s.store.WriteTenantDocuments(s.ctx, tenantservice.WriteDocumentsCommand{
		AccountID:    cred.AccountID,
		Email:        cred.Email,
		TaxID:        "11.222.333/0001-81",
		LicenseCount: 3,
		ExpiresAt:    civil.Date{Year: 2027, Month: time.March, Day: 1},
	})
	s.Require().NoError(err)

	updated, err := s.store.UpdateTenant(s.ctx, tenantservice.UpdateTermsCommand{
		AccountID:    cred.AccountID,
		LicenseCount: 7,
		ExpiresAt:    civil.Date{Year: 2028, Month: time.March, Day: 1},
	})
	s.Require().NoError(err)
	s.Equal(7, updated.LicenseCount)

	all, err := s.store.ListTenants(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("11222333000181", all[0].TaxID)
	s.Equal(7, all[0].LicenseCount)

	s.Len(sub.C(), 2)
}
