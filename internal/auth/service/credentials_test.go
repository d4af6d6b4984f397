package service

import (
	"errors"

	"go.uber.org/mock/gomock"

	"painel/internal/auth/models"
	dErrors "painel/pkg/domain-errors"
	"painel/pkg/platform/audit"
	"painel/pkg/platform/sentinel"
	"painel/pkg/secrets"
)

func (s *ServiceSuite) TestCreateCredential() {
	s.Run("stores a hashed credential and audits it", func() {
		var stored *models.Credential
		s.credentials.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, c *models.Credential) error {
				stored = c
				return nil
			})
		s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, e audit.Event) error {
				s.Equal(audit.ActionCredentialCreated, e.Action)
				s.Equal("tenant@acme.com.br", e.Subject)
				return nil
			})

		c, err := s.service.CreateCredential(s.ctx, " Tenant@ACME.com.br ", "admin1")
		s.Require().NoError(err)
		s.Equal("tenant@acme.com.br", c.Email)
		s.Equal(s.now, c.CreatedAt)
		s.Same(c, stored)
		s.NotEqual("admin1", c.PasswordHash)
		s.NoError(secrets.VerifyPassword("admin1", c.PasswordHash))
	})

	s.Run("invalid e-mail is checked before the password", func() {
		_, err := s.service.CreateCredential(s.ctx, "not-an-email", "x")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidEmail))
	})

	s.Run("weak password", func() {
		_, err := s.service.CreateCredential(s.ctx, "tenant@acme.com", "12345")
		s.True(dErrors.HasCode(err, dErrors.CodeWeakPassword))
	})

	s.Run("e-mail in use", func() {
		s.credentials.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(sentinel.ErrAlreadyUsed)

		_, err := s.service.CreateCredential(s.ctx, "tenant@acme.com", "admin1")
		s.True(dErrors.HasCode(err, dErrors.CodeEmailInUse))
	})

	s.Run("store failure is internal", func() {
		s.credentials.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(errors.New("connection reset"))

		_, err := s.service.CreateCredential(s.ctx, "tenant@acme.com", "admin1")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestDeleteCredential() {
	c := s.storedCredential("tenant@acme.com", "admin1")

	s.Run("removes sessions then the credential", func() {
		gomock.InOrder(
			s.credentials.EXPECT().FindByID(gomock.Any(), c.AccountID).Return(c, nil),
			s.sessions.EXPECT().DeleteByAccount(gomock.Any(), c.AccountID).Return(nil),
			s.credentials.EXPECT().Delete(gomock.Any(), c.AccountID).Return(nil),
		)
		s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		s.NoError(s.service.DeleteCredential(s.ctx, c.AccountID))
	})

	s.Run("unknown account", func() {
		s.credentials.EXPECT().FindByID(gomock.Any(), c.AccountID).Return(nil, sentinel.ErrNotFound)

		err := s.service.DeleteCredential(s.ctx, c.AccountID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("credential store failure", func() {
		s.credentials.EXPECT().FindByID(gomock.Any(), c.AccountID).Return(c, nil)
		s.sessions.EXPECT().DeleteByAccount(gomock.Any(), c.AccountID).Return(nil)
		s.credentials.EXPECT().Delete(gomock.Any(), c.AccountID).Return(errors.New("tx aborted"))

		err := s.service.DeleteCredential(s.ctx, c.AccountID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestEnsureOperator() {
	s.Run("existing operator is returned untouched", func() {
		c := s.storedCredential("ops@acme.com", "s3cret!")
		s.credentials.EXPECT().FindByEmail(gomock.Any(), "ops@acme.com").Return(c, nil)

		got, created, err := s.service.EnsureOperator(s.ctx, "ops@acme.com", "ignored")
		s.Require().NoError(err)
		s.False(created)
		s.Equal(c.AccountID, got.AccountID)
	})

	s.Run("missing operator is created", func() {
		s.credentials.EXPECT().FindByEmail(gomock.Any(), "ops@acme.com").Return(nil, sentinel.ErrNotFound)
		s.credentials.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		got, created, err := s.service.EnsureOperator(s.ctx, "ops@acme.com", "s3cret!")
		s.Require().NoError(err)
		s.True(created)
		s.Equal("ops@acme.com", got.Email)
	})
}
