package service

import (
	"errors"
	"time"

	"go.uber.org/mock/gomock"

	"painel/internal/auth/models"
	"painel/internal/auth/token"
	id "painel/pkg/domain"
	dErrors "painel/pkg/domain-errors"
	"painel/pkg/platform/audit"
	"painel/pkg/platform/sentinel"
	"painel/pkg/requestcontext"
)

const chromeUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func (s *ServiceSuite) TestSignIn() {
	c := s.storedCredential("ops@acme.com", "s3cret!")

	s.Run("opens a session and issues a token", func() {
		ctx := requestcontext.WithClientMetadata(s.ctx, "203.0.113.7", chromeUA)
		var created *models.Session

		s.credentials.EXPECT().FindByEmail(gomock.Any(), "ops@acme.com").Return(c, nil)
		s.sessions.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, sess *models.Session) error {
				created = sess
				return nil
			})
		s.tokens.EXPECT().Issue(gomock.Any(), c.AccountID, "ops@acme.com", s.now.Add(2*time.Hour)).
			Return("signed.jwt.token", nil)
		s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, e audit.Event) error {
				s.Equal(audit.ActionSessionCreated, e.Action)
				return nil
			})

		res, err := s.service.SignIn(ctx, &models.SignInRequest{Email: "ops@acme.com", Password: "s3cret!"})
		s.Require().NoError(err)
		s.Equal("signed.jwt.token", res.Token)
		s.Require().NotNil(created)
		s.Equal(c.AccountID, created.AccountID)
		s.Equal(s.now, created.CreatedAt)
		s.Equal(s.now.Add(2*time.Hour), created.ExpiresAt)
		s.Contains(created.Device, "Chrome")
	})

	s.Run("unknown e-mail and wrong password fail alike", func() {
		s.credentials.EXPECT().FindByEmail(gomock.Any(), "nobody@acme.com").Return(nil, sentinel.ErrNotFound)
		s.credentials.EXPECT().FindByEmail(gomock.Any(), "ops@acme.com").Return(c, nil)
		s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		_, errUnknown := s.service.SignIn(s.ctx, &models.SignInRequest{Email: "nobody@acme.com", Password: "s3cret!"})
		_, errWrong := s.service.SignIn(s.ctx, &models.SignInRequest{Email: "ops@acme.com", Password: "wrong!"})

		s.True(dErrors.HasCode(errUnknown, dErrors.CodeInvalidCredentials))
		s.True(dErrors.HasCode(errWrong, dErrors.CodeInvalidCredentials))
		s.Equal(errUnknown.Error(), errWrong.Error())
	})

	s.Run("audit failure does not fail sign-in", func() {
		s.credentials.EXPECT().FindByEmail(gomock.Any(), "ops@acme.com").Return(c, nil)
		s.sessions.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.tokens.EXPECT().Issue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("t", nil)
		s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		_, err := s.service.SignIn(s.ctx, &models.SignInRequest{Email: "ops@acme.com", Password: "s3cret!"})
		s.NoError(err)
	})
}

func (s *ServiceSuite) TestSignOut() {
	sessionID := id.NewSessionID()

	s.Run("revokes the session", func() {
		s.sessions.EXPECT().Revoke(gomock.Any(), sessionID, s.now).Return(nil)
		s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		s.NoError(s.service.SignOut(s.ctx, sessionID))
	})

	s.Run("already gone is not an error", func() {
		s.sessions.EXPECT().Revoke(gomock.Any(), sessionID, s.now).Return(sentinel.ErrNotFound)
		s.NoError(s.service.SignOut(s.ctx, sessionID))

		s.sessions.EXPECT().Revoke(gomock.Any(), sessionID, s.now).Return(sentinel.ErrInvalidState)
		s.NoError(s.service.SignOut(s.ctx, sessionID))
	})

	s.Run("store failure", func() {
		s.sessions.EXPECT().Revoke(gomock.Any(), sessionID, s.now).Return(errors.New("timeout"))
		err := s.service.SignOut(s.ctx, sessionID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestCurrentCredential() {
	live := &models.Session{
		ID:        id.NewSessionID(),
		AccountID: id.NewAccountID(),
		Email:     "ops@acme.com",
		CreatedAt: s.now.Add(-time.Hour),
		ExpiresAt: s.now.Add(time.Hour),
	}

	s.Run("missing token", func() {
		_, err := s.service.CurrentCredential(s.ctx, "")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("invalid token", func() {
		s.tokens.EXPECT().Verify("bad").Return(id.SessionID{}, nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token"))
		_, err := s.service.CurrentCredential(s.ctx, "bad")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("live session resolves to the operator", func() {
		s.tokens.EXPECT().Verify("good").Return(live.ID, &token.Claims{}, nil)
		s.sessions.EXPECT().FindByID(gomock.Any(), live.ID).Return(live, nil)

		principal, err := s.service.ResolveSession(s.ctx, "good")
		s.Require().NoError(err)
		s.Equal(live.AccountID, principal.AccountID)
		s.Equal(live.ID, principal.SessionID)
		s.Equal("ops@acme.com", principal.Email)
	})

	s.Run("revoked session", func() {
		revoked := *live
		at := s.now.Add(-time.Minute)
		revoked.RevokedAt = &at
		s.tokens.EXPECT().Verify("good").Return(live.ID, &token.Claims{}, nil)
		s.sessions.EXPECT().FindByID(gomock.Any(), live.ID).Return(&revoked, nil)

		_, err := s.service.CurrentCredential(s.ctx, "good")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("session deleted with its credential", func() {
		s.tokens.EXPECT().Verify("good").Return(live.ID, &token.Claims{}, nil)
		s.sessions.EXPECT().FindByID(gomock.Any(), live.ID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.CurrentCredential(s.ctx, "good")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
